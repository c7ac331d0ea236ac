package api

import (
	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/advisor"
	"github.com/stratus-tools/stratus-advisor/internal/services/request"
	"github.com/stratus-tools/stratus-advisor/internal/services/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// AnalyzeHandler handles bug report analysis requests.
type AnalyzeHandler struct {
	pipeline    *advisor.Service
	responseSvc *response.Service
	validate    *validator.Validate
}

func NewAnalyzeHandler(pipeline *advisor.Service) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline:    pipeline,
		responseSvc: response.NewService(),
		validate:    validator.New(),
	}
}

// Analyze runs the query pipeline for one bug report.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	requestID := request.ID(c)
	fiberlog.Infof("[%s] Starting analyze request from %s", requestID, c.IP())

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		fiberlog.Warnf("[%s] Request parsing failed: %v", requestID, err)
		return h.responseSvc.Error(c, models.NewValidationError("Invalid JSON body", err))
	}

	if err := h.validate.Struct(&req); err != nil {
		fiberlog.Warnf("[%s] Request validation failed: %v", requestID, err)
		return h.responseSvc.Error(c, models.NewValidationError("Query and product are required", err))
	}

	ip, userAgent := request.Meta(c)
	meta := models.RequesterMeta{IPAddress: ip, UserAgent: userAgent}

	resp, err := h.pipeline.Analyze(c.UserContext(), req, meta)
	if err != nil {
		fiberlog.Warnf("[%s] Analyze failed: %v", requestID, err)
		product, _ := models.ParseProduct(req.Product)
		return h.responseSvc.AnalyzeError(c, err, product)
	}

	fiberlog.Infof("[%s] Analyze completed - cached=%t confidence=%.2f time=%dms",
		requestID, resp.Cached, resp.Confidence, resp.ResponseTimeMs)
	return h.responseSvc.Success(c, resp)
}
