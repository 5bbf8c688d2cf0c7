// Package redisstore persists saved params in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"savings/internal/params"
)

const keyPrefix = "savings:params:"

// Store keeps one JSON payload per client under savings:params:<clientID>.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// TTL expires records that have not been saved for a while; 0 keeps them.
	TTL time.Duration
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(client, opts.TTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Key returns the Redis key used for clientID.
func Key(clientID string) string {
	return keyPrefix + clientID
}

// Load implements params.Store
func (s *Store) Load(ctx context.Context, clientID string) (params.Saved, error) {
	data, err := s.client.Get(ctx, Key(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return params.Saved{}, params.ErrNotFound
	}
	if err != nil {
		return params.Saved{}, fmt.Errorf("get saved params: %w", err)
	}
	return params.Unmarshal(data)
}

// Save implements params.Store
func (s *Store) Save(ctx context.Context, clientID string, saved params.Saved) error {
	data, err := params.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal saved params: %w", err)
	}
	if err := s.client.Set(ctx, Key(clientID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set saved params: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
