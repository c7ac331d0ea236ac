package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "response:"

// RedisTier is the fast cache tier. Expiry is delegated to Redis via
// per-key TTLs, so Lookup never sees an expired entry.
type RedisTier struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTier wraps an existing Redis client as a cache tier.
func NewRedisTier(client *redis.Client, ttl time.Duration) *RedisTier {
	return &RedisTier{client: client, ttl: ttl}
}

func (t *RedisTier) Name() string {
	return "redis"
}

type redisEntry struct {
	Solution   string  `json:"solution"`
	Confidence float64 `json:"confidence"`
}

func (t *RedisTier) key(fingerprint string) string {
	return redisKeyPrefix + fingerprint
}

// Lookup fetches a cached answer, reporting found=false on key miss.
func (t *RedisTier) Lookup(ctx context.Context, fingerprint string, product models.Product) (*models.CachedAnswer, bool, error) {
	raw, err := t.client.Get(ctx, t.key(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("redis entry decode: %w", err)
	}

	return &models.CachedAnswer{
		Answer:     entry.Solution,
		Confidence: entry.Confidence,
	}, true, nil
}

// Store writes the answer with the tier's native TTL.
func (t *RedisTier) Store(ctx context.Context, fingerprint string, product models.Product, answer string, confidence float64) error {
	raw, err := json.Marshal(redisEntry{Solution: answer, Confidence: confidence})
	if err != nil {
		return fmt.Errorf("redis entry encode: %w", err)
	}

	if err := t.client.Set(ctx, t.key(fingerprint), raw, t.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
