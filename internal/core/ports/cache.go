// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"
)

// CacheRepository is the port for the display snapshot cache. The cache is
// never authoritative; the store remains the source of truth and entries are
// explicitly invalidated after every committed mutation.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Ping(ctx context.Context) error
}
