package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/server"
	"foodgram/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().WithError(err).Fatal("invalid configuration")
	}
	logging.Init(cfg.LogLevel)
	log := logging.Logger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, cfg.AppEnv, cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("tracing init failed")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	srv := server.New(cfg, db)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logging.Errorf(ctx, "http server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logging.Warnf(shutdownCtx, "tracing shutdown failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logging.Info(shutdownCtx, "stopped")
}
