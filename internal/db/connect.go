package db

import (
	"context"
	"fmt"
	"time"

	"todo_api/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open creates a pgx pool and pings it so misconfiguration fails fast.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func Connect(dsn string) *pgxpool.Pool {
	db, err := Open(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to connect database", "error", err)
	}

	logger.Info("database connected")
	return db
}
