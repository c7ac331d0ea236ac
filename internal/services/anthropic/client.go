// Package anthropic wraps the Anthropic Messages API behind a single
// Complete operation with typed failures.
package anthropic

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/utils/clientcache"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Service issues completion calls against the Anthropic Messages API.
// The credential can be swapped at runtime via SetAPIKey; clients are
// cached per credential so swaps do not rebuild transports needlessly.
type Service struct {
	mu          sync.RWMutex
	cfg         models.AnthropicConfig
	clientCache *clientcache.Cache[*anthropic.Client]
}

// NewService creates the adapter. An empty API key is valid: the service
// reports unavailable and Complete fails with ErrNotConfigured.
func NewService(cfg models.AnthropicConfig) *Service {
	cfg = cfg.WithDefaults()
	if cfg.APIKey == "" {
		fiberlog.Warn("anthropic: API key not provided, advisor runs without LLM backend")
	}
	return &Service{
		cfg:         cfg,
		clientCache: clientcache.NewCache[*anthropic.Client](),
	}
}

// Available reports whether a credential is configured.
func (s *Service) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.APIKey != ""
}

// SetAPIKey replaces the credential for subsequent calls.
func (s *Service) SetAPIKey(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.APIKey = apiKey
}

func (s *Service) snapshot() models.AnthropicConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Service) client(cfg models.AnthropicConfig) (*anthropic.Client, error) {
	keyHash := sha256.Sum256([]byte(cfg.APIKey + "|" + cfg.BaseURL))
	cacheKey := fmt.Sprintf("%x", keyHash[:16])

	return s.clientCache.GetOrCreate(cacheKey, func() (*anthropic.Client, error) {
		fiberlog.Debugf("anthropic: creating client (config hash: %s)", cacheKey[:8])
		opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		client := anthropic.NewClient(opts...)
		return &client, nil
	})
}

// Complete sends one system prompt plus one user turn and returns the
// response text. Failures are mapped to the package's typed errors; no
// retries are attempted here.
func (s *Service) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	cfg := s.snapshot()
	if cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	client, err := s.client(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to build anthropic client: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(cfg.Model),
		MaxTokens:   cfg.MaxTokens,
		Temperature: anthropic.Float(cfg.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userContent)),
		},
	}

	startTime := time.Now()
	message, err := client.Messages.New(ctx, params)
	duration := time.Since(startTime)

	if err != nil {
		fiberlog.Errorf("anthropic: request failed after %v: %v", duration, err)
		return "", mapError(err)
	}

	fiberlog.Infof("anthropic: request completed in %v - usage: input:%d, output:%d",
		duration, message.Usage.InputTokens, message.Usage.OutputTokens)

	text := extractText(message)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// TestConnection issues a minimal round trip to verify the credential.
func (s *Service) TestConnection(ctx context.Context) (time.Duration, error) {
	cfg := s.snapshot()
	if cfg.APIKey == "" {
		return 0, ErrNotConfigured
	}

	client, err := s.client(cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to build anthropic client: %w", err)
	}

	startTime := time.Now()
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.Model),
		MaxTokens: 50,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Hello, please respond with 'API connection successful'")),
		},
	})
	elapsed := time.Since(startTime)
	if err != nil {
		return elapsed, mapError(err)
	}
	if extractText(message) == "" {
		return elapsed, ErrEmptyResponse
	}
	return elapsed, nil
}

func extractText(message *anthropic.Message) string {
	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

func mapError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return &APIError{StatusCode: apierr.StatusCode, Message: apierr.Error()}
		}
	}
	// Errors without an HTTP status never reached the provider.
	return fmt.Errorf("%w: %v", ErrConnection, err)
}
