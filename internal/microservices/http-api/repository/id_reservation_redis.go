package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisIDReserver claims candidate ids across processes with SET NX, so two
// allocators drawing the same random id cannot both pass the existence check
// before either has inserted. Reservations expire after ttl.
type RedisIDReserver struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIDReserver parses redisURL, verifies the connection and returns a reserver.
func NewRedisIDReserver(ctx context.Context, redisURL, password string, ttl time.Duration) (*RedisIDReserver, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIDReserver{client: rdb, ttl: ttl}, nil
}

func reservationKey(namespace string, id int64) string {
	return fmt.Sprintf("idalloc:%s:%d", namespace, id)
}

// Reserve reports whether this process now owns the candidate id.
func (r *RedisIDReserver) Reserve(ctx context.Context, namespace string, id int64) (bool, error) {
	if r == nil || r.client == nil {
		// No-op without redis, the store's primary key still catches collisions
		return true, nil
	}
	ok, err := r.client.SetNX(ctx, reservationKey(namespace, id), 1, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: reserve id: %w", ErrTransient, err)
	}
	return ok, nil
}

// Close closes the redis connection
func (r *RedisIDReserver) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
