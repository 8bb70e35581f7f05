package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"libraryhub/database"
	"libraryhub/internal/config"
	"libraryhub/internal/logging"
	"libraryhub/internal/microservices/http-api/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var reserver *repository.RedisIDReserver
	if cfg.RedisURL != "" {
		reserver, err = repository.NewRedisIDReserver(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.IDReservationTTL)
		if err != nil {
			return err
		}
		defer reserver.Close()
		logger.Info("id reservations enabled", "ttl", cfg.IDReservationTTL)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, logger, newServices(cfg, store, reserver, logger))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server_stopped_gracefully")
	return nil
}

// openStore builds the configured entity store and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		return repository.NewMemoryStore(), func() {}, nil
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	gdb, err := database.OpenGorm(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := database.Migrate(gdb, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repository.NewGormStore(gdb), pool.Close, nil
}
