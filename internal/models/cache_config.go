package models

import "time"

const defaultAnswerTTL = 24 * time.Hour

// CacheConfig holds configuration for the answer cache.
// The Redis tier is optional; the durable tier lives in the primary database.
type CacheConfig struct {
	Enabled  bool   `json:"enabled,omitzero" yaml:"enabled"`
	RedisURL string `json:"redis_url,omitzero" yaml:"redis_url"`
	TTL      string `json:"ttl,omitzero" yaml:"ttl"`
}

// AnswerTTL parses the configured TTL, falling back to 24h when unset or invalid.
func (c CacheConfig) AnswerTTL() time.Duration {
	if c.TTL == "" {
		return defaultAnswerTTL
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		return defaultAnswerTTL
	}
	return d
}
