package feedback

import (
	"context"
	"testing"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.QueryLog{}, &models.Feedback{}))
	return db
}

func boolPtr(b bool) *bool { return &b }

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewService(db)

	t.Run("without query id", func(t *testing.T) {
		err := svc.Submit(ctx, models.FeedbackRequest{
			Helpful:  boolPtr(true),
			Feedback: "spot on",
		}, models.RequesterMeta{IPAddress: "10.0.0.1"})
		require.NoError(t, err)

		var row models.Feedback
		require.NoError(t, db.Order("id DESC").First(&row).Error)
		assert.True(t, row.Helpful)
		assert.Equal(t, "spot on", row.FeedbackText)
		assert.Nil(t, row.QueryID)
	})

	t.Run("with query id copies the fingerprint", func(t *testing.T) {
		logRow := models.QueryLog{
			Product:   "allocator",
			QueryText: "batch crashed",
			QueryHash: "abc123",
			Success:   true,
		}
		require.NoError(t, db.Create(&logRow).Error)

		err := svc.Submit(ctx, models.FeedbackRequest{
			QueryID: &logRow.ID,
			Helpful: boolPtr(false),
		}, models.RequesterMeta{})
		require.NoError(t, err)

		var row models.Feedback
		require.NoError(t, db.Order("id DESC").First(&row).Error)
		assert.Equal(t, "abc123", row.QueryHash)
		assert.False(t, row.Helpful)
	})

	t.Run("unknown query id is rejected", func(t *testing.T) {
		missing := uint(99999)
		err := svc.Submit(ctx, models.FeedbackRequest{
			QueryID: &missing,
			Helpful: boolPtr(true),
		}, models.RequesterMeta{})
		assert.ErrorIs(t, err, ErrQueryNotFound)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewService(db)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Total)

	for _, helpful := range []bool{true, true, true, false} {
		require.NoError(t, svc.Submit(ctx, models.FeedbackRequest{Helpful: boolPtr(helpful)}, models.RequesterMeta{}))
	}

	summary, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.Total)
	assert.InDelta(t, 75.0, summary.HelpfulPercentage, 1e-9)
}
