package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"battlegogo/backend/internal/api/handler"
	"battlegogo/backend/internal/auth"
	"battlegogo/backend/internal/config"
	"battlegogo/backend/internal/hub"
	"battlegogo/backend/internal/logger"
	"battlegogo/backend/internal/models"
	"battlegogo/backend/internal/presence"
	"battlegogo/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, *redis.Client, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, nil, err
	}

	log.Info("database and redis connections established, migrations complete")
	return db, rdb, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl.Info("starting BattleGoGo signaling server", zap.String("addr", cfg.HTTPAddr))

	db, rdb, err := setupDependencies(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to set up dependencies", zap.Error(err))
	}
	defer rdb.Close()

	s := storage.NewStorageService(db, rdb, zl.Named("storage"))
	tracker := presence.NewService(s, zl.Named("presence"))

	h := hub.NewHub(zl.Named("hub"))
	if cfg.LogDevelopment {
		h.EnableInvariantChecks()
	}
	go h.Run(ctx)

	kicks := s.SubscribeKicks()
	defer kicks.Close()
	h.StartKickListener(ctx, kicks.Channel())

	if !cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	api := handler.NewHandler(h, auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), s, tracker, cfg.SendBuffer, zl.Named("http"))

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	// Hijacked websockets are not covered by Shutdown; the hub closes them.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http shutdown incomplete", zap.Error(err))
	}
	<-h.Done()
}
