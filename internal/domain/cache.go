package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key does not exist in the cache.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache abstracts the key-value store used for report snapshots and
// session state.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error

	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, values ...interface{}) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// Broadcaster publishes live report updates to interested subscribers.
// Publishing is fire and forget; failures are logged, never returned to
// the ingest path.
type Broadcaster interface {
	PublishReportUpdate(ctx context.Context, attemptID string, payload interface{})
}
