package models

import "time"

const (
	// MinQueryLength is the shortest accepted bug description.
	MinQueryLength = 10
	// MaxQueryLength bounds the user content sent to the LLM.
	MaxQueryLength = 2000
)

// AnalyzeRequest is the inbound payload for POST /api/analyze.
type AnalyzeRequest struct {
	Query   string `json:"query" validate:"required"`
	Product string `json:"product" validate:"required"`
}

// AnalyzeResponse is the success payload of the query pipeline.
type AnalyzeResponse struct {
	Solution       string    `json:"solution"`
	Confidence     float64   `json:"confidence"`
	Cached         bool      `json:"cached"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	QueryID        uint      `json:"query_id,omitempty"`
}

// AnalyzeErrorResponse is the failure payload of the query pipeline.
type AnalyzeErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	// Fallback carries product-specific guidance when the LLM backend
	// is unavailable.
	Fallback string `json:"fallback,omitempty"`
}
