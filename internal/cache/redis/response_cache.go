package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// ResponseCache implements domain.ResponseCache with plain string keys that
// expire after the caller's TTL.
//
// Key schema:
//
//	upstream:{sha256(url)} - raw response body
type ResponseCache struct {
	rdb *redis.Client
}

// NewResponseCache creates a ResponseCache backed by the given Client.
func NewResponseCache(c *Client) *ResponseCache {
	return &ResponseCache{rdb: c.rdb}
}

func responseKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return "upstream:" + hex.EncodeToString(sum[:])
}

// Get returns the cached body for rawURL, or domain.ErrNotFound.
func (rc *ResponseCache) Get(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := rc.rdb.Get(ctx, responseKey(rawURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get response: %w", err)
	}
	return body, nil
}

// Set stores body for rawURL with the given TTL.
func (rc *ResponseCache) Set(ctx context.Context, rawURL string, body []byte, ttl time.Duration) error {
	if err := rc.rdb.Set(ctx, responseKey(rawURL), body, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set response: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ResponseCache = (*ResponseCache)(nil)
