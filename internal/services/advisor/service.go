// Package advisor implements the query-to-answer pipeline: validate the
// request, fingerprint it, serve from cache or call the LLM, score the
// answer, persist it and log the invocation.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/anthropic"
	"github.com/stratus-tools/stratus-advisor/internal/services/cache"
	"github.com/stratus-tools/stratus-advisor/internal/services/confidence"
	"github.com/stratus-tools/stratus-advisor/internal/services/prompt"
	"github.com/stratus-tools/stratus-advisor/internal/services/querylog"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Completer is the LLM backend contract consumed by the pipeline.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userContent string) (string, error)
	Available() bool
}

// AnswerCache is the lookup/store contract of the two-tier cache.
type AnswerCache interface {
	Lookup(ctx context.Context, fingerprint string, product models.Product) (*models.CachedAnswer, bool, error)
	Store(ctx context.Context, fingerprint string, product models.Product, answer string, confidence float64) error
}

// QueryLogger appends invocation records.
type QueryLogger interface {
	Append(ctx context.Context, entry querylog.Entry) (uint, error)
}

// Service orchestrates one pipeline invocation per request. Invocations
// are independent; the cache and log store are the only shared state.
type Service struct {
	llm   Completer
	cache AnswerCache
	logs  QueryLogger
}

func NewService(llm Completer, answerCache AnswerCache, logs QueryLogger) *Service {
	return &Service{
		llm:   llm,
		cache: answerCache,
		logs:  logs,
	}
}

// Analyze runs the pipeline for one bug report. Validation failures
// return before any cache or LLM work and write no log entry; every
// later failure is logged and mapped onto the error taxonomy.
func (s *Service) Analyze(ctx context.Context, req models.AnalyzeRequest, meta models.RequesterMeta) (*models.AnalyzeResponse, error) {
	startTime := time.Now()

	query, product, appErr := validateRequest(req)
	if appErr != nil {
		return nil, appErr
	}

	fingerprint := cache.Fingerprint(query, product)

	if cached, found := s.lookupCache(ctx, fingerprint, product); found {
		elapsed := time.Since(startTime).Milliseconds()
		logID := s.appendLog(ctx, querylog.Entry{
			Product:        product,
			Query:          query,
			Fingerprint:    fingerprint,
			ResponseTimeMs: elapsed,
			Success:        true,
			Meta:           meta,
		})
		fiberlog.Infof("advisor: cache hit for product %s (fingerprint %s)", product, fingerprint[:8])
		return &models.AnalyzeResponse{
			Solution:       cached.Answer,
			Confidence:     cached.Confidence,
			Cached:         true,
			Status:         "success",
			Timestamp:      time.Now(),
			ResponseTimeMs: elapsed,
			QueryID:        logID,
		}, nil
	}

	if !s.llm.Available() {
		appErr := models.NewServiceUnavailableError("Claude API is not configured")
		s.appendLog(ctx, querylog.Entry{
			Product:        product,
			Query:          query,
			Fingerprint:    fingerprint,
			ResponseTimeMs: time.Since(startTime).Milliseconds(),
			Success:        false,
			ErrorMessage:   appErr.Message,
			Meta:           meta,
		})
		return nil, appErr
	}

	systemPrompt := prompt.SystemPrompt(product)
	userContent := prompt.UserContent(query, product)

	answer, err := s.llm.Complete(ctx, systemPrompt, userContent)
	if err != nil {
		appErr := mapCompletionError(err)
		s.appendLog(ctx, querylog.Entry{
			Product:        product,
			Query:          query,
			Fingerprint:    fingerprint,
			ResponseTimeMs: time.Since(startTime).Milliseconds(),
			Success:        false,
			ErrorMessage:   err.Error(),
			Meta:           meta,
		})
		return nil, appErr
	}

	score := confidence.Score(answer, query, product)

	if s.cache != nil {
		if err := s.cache.Store(ctx, fingerprint, product, answer, score); err != nil {
			// Cache failures never fail the pipeline.
			fiberlog.Warnf("advisor: failed to cache answer: %v", err)
		}
	}

	elapsed := time.Since(startTime).Milliseconds()
	logID := s.appendLog(ctx, querylog.Entry{
		Product:        product,
		Query:          query,
		Fingerprint:    fingerprint,
		ResponseTimeMs: elapsed,
		Success:        true,
		Meta:           meta,
	})

	return &models.AnalyzeResponse{
		Solution:       answer,
		Confidence:     score,
		Cached:         false,
		Status:         "success",
		Timestamp:      time.Now(),
		ResponseTimeMs: elapsed,
		QueryID:        logID,
	}, nil
}

func (s *Service) lookupCache(ctx context.Context, fingerprint string, product models.Product) (*models.CachedAnswer, bool) {
	if s.cache == nil {
		return nil, false
	}
	answer, found, err := s.cache.Lookup(ctx, fingerprint, product)
	if err != nil {
		// Total cache failure is a miss, never a pipeline error.
		fiberlog.Warnf("advisor: cache lookup failed, treating as miss: %v", err)
		return nil, false
	}
	return answer, found
}

func (s *Service) appendLog(ctx context.Context, entry querylog.Entry) uint {
	if s.logs == nil {
		return 0
	}
	id, err := s.logs.Append(ctx, entry)
	if err != nil {
		fiberlog.Errorf("advisor: failed to append query log: %v", err)
		return 0
	}
	return id
}

func validateRequest(req models.AnalyzeRequest) (string, models.Product, *models.AppError) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return "", "", models.NewValidationError("Query and product are required", nil)
	}
	if len(query) < models.MinQueryLength {
		return "", "", models.NewValidationError(
			fmt.Sprintf("Query must be at least %d characters long", models.MinQueryLength), nil)
	}
	if len(query) > models.MaxQueryLength {
		return "", "", models.NewValidationError(
			fmt.Sprintf("Query must be less than %d characters", models.MaxQueryLength+1), nil)
	}

	product, ok := models.ParseProduct(req.Product)
	if !ok {
		return "", "", models.NewValidationError(
			"Product must be one of: "+models.ProductNames(), nil)
	}

	return query, product, nil
}

func mapCompletionError(err error) *models.AppError {
	switch {
	case errors.Is(err, anthropic.ErrNotConfigured):
		return models.NewServiceUnavailableError("Claude API is not configured")
	case errors.Is(err, anthropic.ErrRateLimited):
		return models.NewUpstreamError("Rate limit exceeded. Please try again later.", err)
	case errors.Is(err, anthropic.ErrConnection):
		return models.NewUpstreamError("Connection error. Please try again.", err)
	case errors.Is(err, anthropic.ErrEmptyResponse):
		return models.NewUpstreamError("Empty response from AI service.", err)
	default:
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return models.NewUpstreamError("Failed to generate response. Please try again.", err)
		}
		return models.NewInternalError("An unexpected error occurred", err)
	}
}
