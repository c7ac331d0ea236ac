// Package querylog owns the append-only log of pipeline invocations and
// the aggregate queries the admin dashboard reads from it.
package querylog

import (
	"context"
	"fmt"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Entry captures one pipeline invocation.
type Entry struct {
	Product        models.Product
	Query          string
	Fingerprint    string
	ResponseTimeMs int64
	Success        bool
	ErrorMessage   string
	Meta           models.RequesterMeta
}

// Append inserts a log row and returns its id. Rows are never updated
// or deleted by the core.
func (s *Service) Append(ctx context.Context, entry Entry) (uint, error) {
	row := models.QueryLog{
		Product:        string(entry.Product),
		QueryText:      entry.Query,
		QueryLength:    len(entry.Query),
		ResponseTimeMs: entry.ResponseTimeMs,
		Success:        entry.Success,
		ErrorMessage:   entry.ErrorMessage,
		QueryHash:      entry.Fingerprint,
		IPAddress:      entry.Meta.IPAddress,
		UserAgent:      entry.Meta.UserAgent,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to append query log: %w", err)
	}
	return row.ID, nil
}

// Find returns a log row by id.
func (s *Service) Find(ctx context.Context, id uint) (*models.QueryLog, error) {
	var row models.QueryLog
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Analytics aggregates the last 30 days of traffic for the admin dashboard.
func (s *Service) Analytics(ctx context.Context) (*models.AnalyticsResponse, error) {
	since := time.Now().AddDate(0, 0, -30)
	resp := &models.AnalyticsResponse{
		PopularProducts: map[string]int64{},
		DailyStats:      []models.DailyStat{},
		RecentErrors:    []models.RecentError{},
	}

	var overall struct {
		TotalQueries    int64
		AvgResponseTime float64
		SuccessRate     float64
		UniqueUsers     int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.QueryLog{}).
		Select(`COUNT(*) AS total_queries,
			COALESCE(AVG(response_time_ms), 0) AS avg_response_time,
			COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 0) AS success_rate,
			COUNT(DISTINCT ip_address) AS unique_users`).
		Where("created_at >= ?", since).
		Scan(&overall).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate query stats: %w", err)
	}
	resp.TotalQueries = overall.TotalQueries
	resp.AvgResponseTime = overall.AvgResponseTime
	resp.SuccessRate = overall.SuccessRate
	resp.UniqueUsers = overall.UniqueUsers

	type productCount struct {
		Product string
		Count   int64
	}
	var products []productCount
	err = s.db.WithContext(ctx).
		Model(&models.QueryLog{}).
		Select("product, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("product").
		Order("count DESC").
		Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product distribution: %w", err)
	}
	for _, p := range products {
		resp.PopularProducts[p.Product] = p.Count
	}

	var daily []models.DailyStat
	err = s.db.WithContext(ctx).
		Model(&models.QueryLog{}).
		Select(`DATE(created_at) AS date,
			COUNT(*) AS queries,
			COALESCE(AVG(response_time_ms), 0) AS avg_time,
			COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 0) AS success_rate`).
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date DESC").
		Limit(30).
		Scan(&daily).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily stats: %w", err)
	}
	resp.DailyStats = daily

	var rows []models.QueryLog
	err = s.db.WithContext(ctx).
		Where("success = ? AND created_at >= ?", false, time.Now().AddDate(0, 0, -7)).
		Order("created_at DESC").
		Limit(10).
		Find(&rows).Error
	if err != nil {
		fiberlog.Warnf("querylog: failed to load recent errors: %v", err)
	}
	for _, row := range rows {
		resp.RecentErrors = append(resp.RecentErrors, models.RecentError{
			Timestamp:    row.CreatedAt,
			Product:      row.Product,
			ErrorMessage: row.ErrorMessage,
			QueryText:    row.QueryText,
		})
	}

	return resp, nil
}
