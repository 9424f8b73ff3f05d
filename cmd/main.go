package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/beststarli/double-token-demo/config"
	"github.com/beststarli/double-token-demo/db"
	"github.com/beststarli/double-token-demo/internal/auth/cleanup"
	"github.com/beststarli/double-token-demo/internal/auth/handler"
	repo "github.com/beststarli/double-token-demo/internal/auth/repository/postgres"
	"github.com/beststarli/double-token-demo/internal/auth/service"
	"github.com/beststarli/double-token-demo/internal/logger"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		zlog.Fatal("migrations failed", zap.Error(err))
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := service.NewUserService(userRepo, tokenService, cfg, zlog)
	authHandler := handler.NewAuthHandler(userService, zlog).WithDB(dbPool)

	go cleanup.Start(ctx, userRepo, time.Duration(cfg.CleanupIntervalMinutes)*time.Minute, zlog)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, tokenService)

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	zlog.Info("listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
