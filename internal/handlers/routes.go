package handlers

import (
	"officehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the root, health and every resource in the registry
func RegisterRoutes(router fiber.Router, registry *services.Registry, health *HealthHandler) {
	router.Get("/", Welcome)
	router.Get("/health", health.Handle)

	for _, svc := range registry.All() {
		NewResourceHandler(svc).Register(router)
	}
}
