// Package config loads runtime settings for the signaling server and the
// admin tool. Values come from BATTLE_* environment variables, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the binaries read at startup.
type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	PostgresDSN string `mapstructure:"postgres_dsn"`

	LogLevel       string `mapstructure:"log_level"`
	LogDevelopment bool   `mapstructure:"log_development"`

	SendBuffer int `mapstructure:"send_buffer"`
}

var defaults = map[string]any{
	"http_addr":       ":8080",
	"jwt_secret":      "",
	"token_ttl":       72 * time.Hour,
	"redis_addr":      "localhost:6380",
	"redis_password":  "",
	"redis_db":        0,
	"postgres_dsn":    "host=localhost user=user password=password dbname=battlegogodb port=5432 sslmode=disable",
	"log_level":       "info",
	"log_development": false,
	"send_buffer":     DefaultSendBuffer,
}

// Load reads the optional .env files and then the environment, and checks
// everything the server needs. A missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	c, err := Read(envFiles...)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Read is Load without validation, for tools that only need the storage
// settings.
func Read(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.SetEnvPrefix("BATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("BATTLE_JWT_SECRET must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send buffer must be positive, got %d", c.SendBuffer)
	}
	return nil
}
