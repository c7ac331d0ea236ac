package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DurableTier stores answers in the response_cache table. Expired rows
// are filtered at query time rather than deleted; expiry is the only
// eviction the core requires.
type DurableTier struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewDurableTier wraps a GORM handle as the durable cache tier.
func NewDurableTier(db *gorm.DB, ttl time.Duration) *DurableTier {
	return &DurableTier{db: db, ttl: ttl}
}

func (t *DurableTier) Name() string {
	return "database"
}

// Lookup returns a live entry and bumps its hit count. The returned
// answer and confidence are unchanged by the hit.
func (t *DurableTier) Lookup(ctx context.Context, fingerprint string, product models.Product) (*models.CachedAnswer, bool, error) {
	var row models.ResponseCache
	err := t.db.WithContext(ctx).
		Where("query_hash = ? AND product = ? AND expires_at > ?", fingerprint, string(product), time.Now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	if err := t.db.WithContext(ctx).
		Model(&models.ResponseCache{}).
		Where("query_hash = ?", fingerprint).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error; err != nil {
		// A failed hit-count bump does not invalidate the answer.
		return &models.CachedAnswer{Answer: row.ResponseText, Confidence: row.Confidence}, true, nil
	}

	return &models.CachedAnswer{
		Answer:     row.ResponseText,
		Confidence: row.Confidence,
	}, true, nil
}

// Store upserts the entry keyed by fingerprint. Concurrent stores for
// the same fingerprint are last-write-wins.
func (t *DurableTier) Store(ctx context.Context, fingerprint string, product models.Product, answer string, confidence float64) error {
	row := models.ResponseCache{
		QueryHash:    fingerprint,
		Product:      string(product),
		ResponseText: answer,
		Confidence:   confidence,
		ExpiresAt:    time.Now().Add(t.ttl),
	}

	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "query_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"product", "response_text", "confidence", "expires_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}
