package models

import "time"

// AnalyticsResponse is the admin dashboard summary over the last 30 days.
type AnalyticsResponse struct {
	TotalQueries    int64            `json:"total_queries"`
	AvgResponseTime float64          `json:"avg_response_time"`
	SuccessRate     float64          `json:"success_rate"`
	UniqueUsers     int64            `json:"unique_users"`
	PopularProducts map[string]int64 `json:"popular_products"`
	DailyStats      []DailyStat      `json:"daily_stats"`
	RecentErrors    []RecentError    `json:"recent_errors"`
	Feedback        FeedbackSummary  `json:"feedback"`
}

// DailyStat aggregates one day of query traffic.
type DailyStat struct {
	Date        string  `json:"date"`
	Queries     int64   `json:"queries"`
	AvgTime     float64 `json:"avg_time"`
	SuccessRate float64 `json:"success_rate"`
}

// RecentError is a failed pipeline invocation surfaced to admins.
type RecentError struct {
	Timestamp    time.Time `json:"timestamp"`
	Product      string    `json:"product"`
	ErrorMessage string    `json:"error_message"`
	QueryText    string    `json:"query_text"`
}

// FeedbackSummary aggregates user feedback over the reporting window.
type FeedbackSummary struct {
	Total             int64   `json:"total"`
	HelpfulPercentage float64 `json:"helpful_percentage"`
}

// HealthResponse reports component availability.
type HealthResponse struct {
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	ClaudeAvailable   bool      `json:"claude_available"`
	DatabaseAvailable bool      `json:"database_available"`
	RedisAvailable    bool      `json:"redis_available"`
	Version           string    `json:"version"`
}
