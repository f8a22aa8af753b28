package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	store   Pinger
	backend string
}

// NewHealthHandler creates a new health handler. store may be nil for
// backends with nothing to ping.
func NewHealthHandler(store Pinger, backend string) *HealthHandler {
	return &HealthHandler{store: store, backend: backend}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	status := fiber.StatusOK
	body := fiber.Map{
		"status":    "healthy",
		"store":     h.backend,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			requestLogger(c).Warn("store ping failed", "error", err)
			status = fiber.StatusServiceUnavailable
			body["status"] = "unhealthy"
		}
	}

	return c.Status(status).JSON(body)
}

// Welcome handles GET /
func Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the Employee Management API"})
}
