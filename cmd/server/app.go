package main

import (
	"log"

	"officehub/internal/config"
	"officehub/internal/handlers"
	"officehub/internal/middleware"
	"officehub/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
)

// newApp assembles the Fiber app: middleware chain, metrics endpoint and every route
func newApp(cfg *config.Config, registry *services.Registry, health *handlers.HealthHandler, limiterStorage fiber.Storage, reg prometheus.Registerer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "OfficeHub v1.0",
		ErrorHandler:          handlers.ErrorHandler,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: !cfg.Debug,
		EnablePrintRoutes:     cfg.Debug,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// Prometheus metrics middleware
	prom := fiberprometheus.NewWithRegistry(reg, "officehub", "officehub", "http", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Fiber's CORS middleware does not allow AllowCredentials with wildcard origins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,X-Request-ID",
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", cfg.AllowedOrigins)

	app.Use(middleware.GlobalRateLimiter(middleware.RateLimitConfig{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		Storage:    limiterStorage,
	}))
	log.Printf("🛡️  [RATE-LIMIT] Global limit %d requests per %s", cfg.RateLimitMax, cfg.RateLimitWindow)

	handlers.RegisterRoutes(app, registry, health)
	return app
}
