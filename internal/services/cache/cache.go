package cache

import (
	"context"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Tier is the lookup/store contract shared by the fast (Redis) and
// durable (SQL) cache tiers. Lookup returns found=false for absent or
// expired entries; it never returns an expired answer.
type Tier interface {
	Lookup(ctx context.Context, fingerprint string, product models.Product) (*models.CachedAnswer, bool, error)
	Store(ctx context.Context, fingerprint string, product models.Product, answer string, confidence float64) error
	Name() string
}

// TwoTier composes a fast and a durable tier. Either tier may be nil.
// A failure in one tier never prevents falling back to the other, and a
// total failure is reported as a miss by the caller's contract.
type TwoTier struct {
	fast    Tier
	durable Tier
	ttl     time.Duration
}

// NewTwoTier builds the composite cache. ttl applies to newly stored entries.
func NewTwoTier(fast, durable Tier, ttl time.Duration) *TwoTier {
	return &TwoTier{fast: fast, durable: durable, ttl: ttl}
}

// TTL returns the expiry applied to stored answers.
func (c *TwoTier) TTL() time.Duration {
	return c.ttl
}

// Lookup tries the fast tier first, then the durable tier.
func (c *TwoTier) Lookup(ctx context.Context, fingerprint string, product models.Product) (*models.CachedAnswer, bool, error) {
	if c.fast != nil {
		answer, found, err := c.fast.Lookup(ctx, fingerprint, product)
		if err != nil {
			fiberlog.Warnf("cache: %s tier lookup failed, falling back: %v", c.fast.Name(), err)
		} else if found {
			return answer, true, nil
		}
	}

	if c.durable != nil {
		answer, found, err := c.durable.Lookup(ctx, fingerprint, product)
		if err != nil {
			fiberlog.Warnf("cache: %s tier lookup failed: %v", c.durable.Name(), err)
			return nil, false, err
		}
		return answer, found, nil
	}

	return nil, false, nil
}

// Store writes the answer to every configured tier. A tier failure is
// logged and does not abort writes to the remaining tiers; an error is
// returned only when no tier accepted the entry.
func (c *TwoTier) Store(ctx context.Context, fingerprint string, product models.Product, answer string, confidence float64) error {
	var lastErr error
	stored := false

	for _, tier := range []Tier{c.durable, c.fast} {
		if tier == nil {
			continue
		}
		if err := tier.Store(ctx, fingerprint, product, answer, confidence); err != nil {
			fiberlog.Warnf("cache: %s tier store failed: %v", tier.Name(), err)
			lastErr = err
			continue
		}
		stored = true
	}

	if !stored && lastErr != nil {
		return lastErr
	}
	return nil
}
