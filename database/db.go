package database

import (
	"context"
	"fmt"
	"log/slog" // use slog for structured logging

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/models"
)

// Connect opens the pgx pool shared by every database consumer.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.DBMaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify the connection
	if err := pool.Ping(ctx); err != nil {
		// close the pool if ping fails to avoid resource leak
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to the database successfully", "max_conns", poolCfg.MaxConns)
	return pool, nil
}

// OpenGorm wraps the pgx pool in a *gorm.DB so gorm and raw pgx share connections.
func OpenGorm(pool *pgxpool.Pool) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm DB: %w", err)
	}
	return gdb, nil
}

// Migrate creates or updates the books and users tables.
// Users go first so the books.holder_id foreign key can reference them.
func Migrate(gdb *gorm.DB, logger *slog.Logger) error {
	if err := gdb.AutoMigrate(&models.User{}, &models.Book{}); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")
	return nil
}
