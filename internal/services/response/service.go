// Package response maps pipeline results and application errors onto
// HTTP payloads.
package response

import (
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/prompt"

	"github.com/gofiber/fiber/v2"
)

// Service writes JSON responses with a consistent error shape.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Success sends a 200 OK response with the provided data.
func (s *Service) Success(c *fiber.Ctx, data any) error {
	return c.JSON(data)
}

// Error sends a sanitized error payload for any error. Unknown error
// values are wrapped as internal errors so causes never leak.
func (s *Service) Error(c *fiber.Ctx, err error) error {
	appErr := s.asAppError(err)
	return c.Status(appErr.GetStatusCode()).JSON(models.AnalyzeErrorResponse{
		Error:     string(appErr.Type),
		Message:   appErr.Message,
		Status:    "error",
		Timestamp: time.Now(),
	})
}

// AnalyzeError sends the pipeline failure payload. When the LLM backend
// is unavailable the product's canned guidance rides along so the
// caller still has something actionable.
func (s *Service) AnalyzeError(c *fiber.Ctx, err error, product models.Product) error {
	appErr := s.asAppError(err)
	payload := models.AnalyzeErrorResponse{
		Error:     string(appErr.Type),
		Message:   appErr.Message,
		Status:    "error",
		Timestamp: time.Now(),
	}
	if appErr.Type == models.ErrorTypeServiceUnavailable {
		payload.Fallback = prompt.Fallback(product)
	}
	return c.Status(appErr.GetStatusCode()).JSON(payload)
}

func (s *Service) asAppError(err error) *models.AppError {
	return models.SanitizeError(err)
}
