package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the lookup cache used for hot read paths such as QR scans.
// Implementations are process-local (memory) or shared (Redis).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PatientUIDKey builds the cache key for a patient looked up by QR UID.
func PatientUIDKey(uid string) string {
	return "patient:uid:" + uid
}
