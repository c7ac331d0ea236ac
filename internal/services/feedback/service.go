// Package feedback records user verdicts on advisor answers.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"gorm.io/gorm"
)

var ErrQueryNotFound = errors.New("query not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Submit stores a feedback row. When a query id is provided it must
// reference an existing log entry; the entry's fingerprint is copied
// onto the feedback row for correlation.
func (s *Service) Submit(ctx context.Context, req models.FeedbackRequest, meta models.RequesterMeta) error {
	row := models.Feedback{
		Helpful:      req.Helpful != nil && *req.Helpful,
		FeedbackText: req.Feedback,
		IPAddress:    meta.IPAddress,
	}

	if req.QueryID != nil {
		var logRow models.QueryLog
		err := s.db.WithContext(ctx).First(&logRow, *req.QueryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQueryNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to resolve query log: %w", err)
		}
		row.QueryID = req.QueryID
		row.QueryHash = logRow.QueryHash
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// Summary aggregates feedback over the last 30 days.
func (s *Service) Summary(ctx context.Context) (models.FeedbackSummary, error) {
	var out struct {
		Total             int64
		HelpfulPercentage float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN helpful THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 0) AS helpful_percentage`).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -30)).
		Scan(&out).Error
	if err != nil {
		return models.FeedbackSummary{}, fmt.Errorf("failed to aggregate feedback: %w", err)
	}
	return models.FeedbackSummary{Total: out.Total, HelpfulPercentage: out.HelpfulPercentage}, nil
}
