package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"poolcare_server/api"
	"poolcare_server/config"
	"poolcare_server/database"
	"poolcare_server/realtime"
	"poolcare_server/services"
	"poolcare_server/storage"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := config.GetConfig()
	logger := config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	// Cancelled on SIGINT/SIGTERM; everything long-running hangs off this
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.CreateSchema(ctx, db, cfg.Realtime.ScheduleChannel); err != nil {
			logger.Fatal("Failed to create schema", gecho.Field("error", err))
		}
		logger.Info("Database schema is up to date")
	}

	redisClient := services.NewRedisClient(cfg.Cache)

	store, err := storage.NewS3Store(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", gecho.Field("error", err))
	}

	sm := services.NewServiceManager(logger, cfg, db, redisClient, store)
	defer sm.CacheService.Close()

	hub := realtime.NewHub(cfg.Realtime, cfg.Cors.AllowedOrigins, logger)
	defer hub.Close()

	listener := realtime.NewListener(database.DSN(cfg.Database), cfg.Realtime.ScheduleChannel, cfg.Realtime.ReconnectDelay, logger, hub.Broadcast)
	go listener.Run(ctx)

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm, hub),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}
}
