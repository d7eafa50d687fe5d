package domain

import (
	"context"
	"time"
)

// ResponseCache stores raw upstream response bodies keyed by request URL.
// Get returns ErrNotFound on a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}
