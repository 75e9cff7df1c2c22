package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PingFunc checks a backing store. A nil PingFunc means there is nothing to check.
type PingFunc func(ctx context.Context) error

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	ping   PingFunc
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(ping PingFunc, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth returns 200 when the store answers and 503 otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status, database, code := "healthy", "up", fiber.StatusOK
	if h.ping == nil {
		database = "n/a"
	} else if err := h.ping(c.UserContext()); err != nil {
		h.logger.ErrorContext(c.UserContext(), "database ping failed", "error", err)
		status, database, code = "unhealthy", "down", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
	})
}
