package api

import (
	"context"
	"time"

	"github.com/stratus-tools/stratus-advisor/internal/services/anthropic"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Version is the reported service version.
const Version = "1.0.0"

// HealthHandler reports component availability.
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	llm         *anthropic.Service
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, llm *anthropic.Service) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		llm:         llm,
	}
}

// HealthCheck returns the health status of the service and its
// dependencies. A missing Redis or unconfigured LLM degrades the
// service but does not take it down.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbOK := h.checkDatabase()
	redisOK := h.checkRedis()
	claudeOK := h.llm != nil && h.llm.Available()

	status := "healthy"
	statusCode := fiber.StatusOK
	if !dbOK {
		status = "unhealthy"
		statusCode = fiber.StatusServiceUnavailable
	} else if !redisOK || !claudeOK {
		status = "degraded"
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":             status,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"claude_available":   claudeOK,
		"database_available": dbOK,
		"redis_available":    redisOK,
		"version":            Version,
	})
}

func (h *HealthHandler) checkDatabase() bool {
	if h.db == nil {
		return false
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx) == nil
}

func (h *HealthHandler) checkRedis() bool {
	if h.redisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return h.redisClient.Ping(ctx).Err() == nil
}
