package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTier struct {
	name      string
	entries   map[string]models.CachedAnswer
	lookupErr error
	storeErr  error
	lookups   int
	stores    int
}

func newFakeTier(name string) *fakeTier {
	return &fakeTier{name: name, entries: make(map[string]models.CachedAnswer)}
}

func (t *fakeTier) Lookup(_ context.Context, fingerprint string, _ models.Product) (*models.CachedAnswer, bool, error) {
	t.lookups++
	if t.lookupErr != nil {
		return nil, false, t.lookupErr
	}
	if answer, ok := t.entries[fingerprint]; ok {
		return &answer, true, nil
	}
	return nil, false, nil
}

func (t *fakeTier) Store(_ context.Context, fingerprint string, _ models.Product, answer string, confidence float64) error {
	t.stores++
	if t.storeErr != nil {
		return t.storeErr
	}
	t.entries[fingerprint] = models.CachedAnswer{Answer: answer, Confidence: confidence}
	return nil
}

func (t *fakeTier) Name() string { return t.name }

func TestTwoTierLookup(t *testing.T) {
	ctx := context.Background()
	fp := Fingerprint("batch processor hangs overnight", models.ProductAllocator)

	t.Run("fast tier hit skips durable", func(t *testing.T) {
		fast := newFakeTier("fast")
		durable := newFakeTier("durable")
		fast.entries[fp] = models.CachedAnswer{Answer: "fast answer", Confidence: 0.8}

		c := NewTwoTier(fast, durable, time.Hour)
		answer, found, err := c.Lookup(ctx, fp, models.ProductAllocator)

		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "fast answer", answer.Answer)
		assert.Zero(t, durable.lookups)
	})

	t.Run("fast tier miss falls through to durable", func(t *testing.T) {
		fast := newFakeTier("fast")
		durable := newFakeTier("durable")
		durable.entries[fp] = models.CachedAnswer{Answer: "durable answer", Confidence: 0.9}

		c := NewTwoTier(fast, durable, time.Hour)
		answer, found, err := c.Lookup(ctx, fp, models.ProductAllocator)

		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "durable answer", answer.Answer)
	})

	t.Run("fast tier failure falls through to durable", func(t *testing.T) {
		fast := newFakeTier("fast")
		fast.lookupErr = errors.New("connection refused")
		durable := newFakeTier("durable")
		durable.entries[fp] = models.CachedAnswer{Answer: "durable answer", Confidence: 0.9}

		c := NewTwoTier(fast, durable, time.Hour)
		answer, found, err := c.Lookup(ctx, fp, models.ProductAllocator)

		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "durable answer", answer.Answer)
	})

	t.Run("both tiers miss", func(t *testing.T) {
		c := NewTwoTier(newFakeTier("fast"), newFakeTier("durable"), time.Hour)
		answer, found, err := c.Lookup(ctx, fp, models.ProductAllocator)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, answer)
	})

	t.Run("nil fast tier goes straight to durable", func(t *testing.T) {
		durable := newFakeTier("durable")
		durable.entries[fp] = models.CachedAnswer{Answer: "durable answer", Confidence: 0.9}

		c := NewTwoTier(nil, durable, time.Hour)
		_, found, err := c.Lookup(ctx, fp, models.ProductAllocator)

		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestTwoTierStore(t *testing.T) {
	ctx := context.Background()
	fp := Fingerprint("e-filing rejects schema", models.ProductPremiumTax)

	t.Run("writes both tiers", func(t *testing.T) {
		fast := newFakeTier("fast")
		durable := newFakeTier("durable")

		c := NewTwoTier(fast, durable, time.Hour)
		err := c.Store(ctx, fp, models.ProductPremiumTax, "answer", 0.85)

		require.NoError(t, err)
		assert.Contains(t, fast.entries, fp)
		assert.Contains(t, durable.entries, fp)
	})

	t.Run("one tier failing is not an error", func(t *testing.T) {
		fast := newFakeTier("fast")
		fast.storeErr = errors.New("connection refused")
		durable := newFakeTier("durable")

		c := NewTwoTier(fast, durable, time.Hour)
		err := c.Store(ctx, fp, models.ProductPremiumTax, "answer", 0.85)

		require.NoError(t, err)
		assert.Contains(t, durable.entries, fp)
	})

	t.Run("all tiers failing is an error", func(t *testing.T) {
		fast := newFakeTier("fast")
		fast.storeErr = errors.New("connection refused")
		durable := newFakeTier("durable")
		durable.storeErr = errors.New("disk full")

		c := NewTwoTier(fast, durable, time.Hour)
		err := c.Store(ctx, fp, models.ProductPremiumTax, "answer", 0.85)

		assert.Error(t, err)
	})
}
