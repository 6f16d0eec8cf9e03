package db

import (
	"context"
	"fmt"
	"time"

	"todo_api/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// OpenRedis creates a client and verifies the server answers PING.
func OpenRedis(ctx context.Context, addr, password string, index int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: index})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func ConnectRedis(addr, password string, index int) *redis.Client {
	client, err := OpenRedis(context.Background(), addr, password, index)
	if err != nil {
		logger.Fatal("failed to connect redis", "error", err)
	}

	logger.Info("redis connected", "addr", addr)
	return client
}
