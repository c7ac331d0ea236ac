package api

import (
	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/admin"
	"github.com/stratus-tools/stratus-advisor/internal/services/anthropic"
	"github.com/stratus-tools/stratus-advisor/internal/services/middleware"
	"github.com/stratus-tools/stratus-advisor/internal/services/request"
	"github.com/stratus-tools/stratus-advisor/internal/services/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// AdminHandler serves the operator endpoints.
type AdminHandler struct {
	adminSvc    *admin.Service
	llm         *anthropic.Service
	responseSvc *response.Service
	validate    *validator.Validate
}

func NewAdminHandler(adminSvc *admin.Service, llm *anthropic.Service) *AdminHandler {
	return &AdminHandler{
		adminSvc:    adminSvc,
		llm:         llm,
		responseSvc: response.NewService(),
		validate:    validator.New(),
	}
}

// Login authenticates an admin and issues a session token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	requestID := request.ID(c)

	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.responseSvc.Error(c, models.NewValidationError("Invalid JSON body", err))
	}
	if err := h.validate.Struct(&req); err != nil {
		return h.responseSvc.Error(c, models.NewValidationError("Username and password are required", err))
	}

	resp, appErr := h.adminSvc.Login(c.UserContext(), req)
	if appErr != nil {
		fiberlog.Warnf("[%s] Admin login failed for %s: %s", requestID, req.Username, appErr.Message)
		return h.responseSvc.Error(c, appErr)
	}

	fiberlog.Infof("[%s] Admin %s logged in", requestID, resp.Username)
	return h.responseSvc.Success(c, resp)
}

// Analytics returns the 30-day usage rollup.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	requestID := request.ID(c)

	resp, err := h.adminSvc.Analytics(c.UserContext())
	if err != nil {
		fiberlog.Errorf("[%s] Analytics failed: %v", requestID, err)
		return h.responseSvc.Error(c, models.NewInternalError("Failed to load analytics", err))
	}
	return h.responseSvc.Success(c, resp)
}

// GetConfig returns the runtime config rows with secrets masked.
func (h *AdminHandler) GetConfig(c *fiber.Ctx) error {
	entries, err := h.adminSvc.GetConfig(c.UserContext())
	if err != nil {
		return h.responseSvc.Error(c, models.NewInternalError("Failed to load configuration", err))
	}
	return h.responseSvc.Success(c, entries)
}

type configUpdateRequest struct {
	Key   string `json:"key" validate:"required,max=64"`
	Value string `json:"value"`
}

// UpdateConfig upserts one runtime config row.
func (h *AdminHandler) UpdateConfig(c *fiber.Ctx) error {
	requestID := request.ID(c)

	var req configUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return h.responseSvc.Error(c, models.NewValidationError("Invalid JSON body", err))
	}
	if err := h.validate.Struct(&req); err != nil {
		return h.responseSvc.Error(c, models.NewValidationError("Config key is required", err))
	}

	updatedBy := middleware.AdminUser(c)
	if appErr := h.adminSvc.SetConfig(c.UserContext(), req.Key, req.Value, updatedBy); appErr != nil {
		return h.responseSvc.Error(c, appErr)
	}

	fiberlog.Infof("[%s] Config key %s updated by %s", requestID, req.Key, updatedBy)
	return h.responseSvc.Success(c, fiber.Map{"status": "success"})
}

// TestConnection runs a minimal round trip against the Anthropic API.
func (h *AdminHandler) TestConnection(c *fiber.Ctx) error {
	requestID := request.ID(c)

	if h.llm == nil || !h.llm.Available() {
		return h.responseSvc.Error(c, models.NewServiceUnavailableError("Claude API is not configured"))
	}

	elapsed, err := h.llm.TestConnection(c.UserContext())
	if err != nil {
		fiberlog.Warnf("[%s] Connection test failed: %v", requestID, err)
		return h.responseSvc.Error(c, models.NewUpstreamError("Connection test failed", err))
	}

	return h.responseSvc.Success(c, fiber.Map{
		"status":           "success",
		"response_time_ms": elapsed.Milliseconds(),
	})
}
