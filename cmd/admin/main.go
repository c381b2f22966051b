// Command admin moderates principals of a running deployment through Redis:
// bans gate new connections and kicks drop the open ones on every instance.
package main

import (
	"fmt"
	"os"

	"battlegogo/backend/internal/config"
	"battlegogo/backend/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile  string
	cfg      *config.Config
	rdb      *redis.Client
	moderate *storage.Service
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Moderation tool for the BattleGoGo signaling server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		var err error
		cfg, err = config.Read(files...)
		if err != nil {
			return err
		}

		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("failed to connect redis at %s: %w", cfg.RedisAddr, err)
		}
		// Only the show command opens the user directory.
		moderate = storage.NewStorageService(nil, rdb, zap.NewNop())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rdb != nil {
			return rdb.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file with BATTLE_* settings")
	rootCmd.AddCommand(newBanCmd(), newUnbanCmd(), newKickCmd(), newShowCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
