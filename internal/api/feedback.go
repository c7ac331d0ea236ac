package api

import (
	"errors"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/feedback"
	"github.com/stratus-tools/stratus-advisor/internal/services/request"
	"github.com/stratus-tools/stratus-advisor/internal/services/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// FeedbackHandler records user verdicts on answers.
type FeedbackHandler struct {
	feedbackSvc *feedback.Service
	responseSvc *response.Service
	validate    *validator.Validate
}

func NewFeedbackHandler(feedbackSvc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackSvc: feedbackSvc,
		responseSvc: response.NewService(),
		validate:    validator.New(),
	}
}

// Submit stores one feedback entry.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	requestID := request.ID(c)

	var req models.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		fiberlog.Warnf("[%s] Feedback parsing failed: %v", requestID, err)
		return h.responseSvc.Error(c, models.NewValidationError("Invalid JSON body", err))
	}

	if err := h.validate.Struct(&req); err != nil {
		fiberlog.Warnf("[%s] Feedback validation failed: %v", requestID, err)
		return h.responseSvc.Error(c, models.NewValidationError("Helpful flag is required", err))
	}

	ip, userAgent := request.Meta(c)
	meta := models.RequesterMeta{IPAddress: ip, UserAgent: userAgent}

	if err := h.feedbackSvc.Submit(c.UserContext(), req, meta); err != nil {
		if errors.Is(err, feedback.ErrQueryNotFound) {
			return h.responseSvc.Error(c, models.NewValidationError("Unknown query_id", err))
		}
		fiberlog.Errorf("[%s] Feedback store failed: %v", requestID, err)
		return h.responseSvc.Error(c, models.NewInternalError("Failed to save feedback", err))
	}

	fiberlog.Infof("[%s] Feedback recorded", requestID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success"})
}
