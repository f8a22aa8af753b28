package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"officehub/internal/config"
	"officehub/internal/database"
	"officehub/internal/handlers"
	"officehub/internal/logging"
	"officehub/internal/middleware"
	"officehub/internal/models"
	"officehub/internal/preflight"
	"officehub/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	log.Println("🚀 Starting OfficeHub Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Structured logging (JSON in production, text in dev)
	logging.Init(cfg.Environment, cfg.LogLevel)
	log.Printf("📋 Configuration loaded (Address: %s, Store: %s, Environment: %s)", cfg.Address(), cfg.StoreBackend, cfg.Environment)

	metrics := services.NewMetrics(prometheus.DefaultRegisterer)
	schemas := models.AllSchemas()

	var (
		factory     services.StoreFactory
		pinger      handlers.Pinger
		preflightDB preflight.Database
		mongodb     *database.MongoDB
	)

	switch cfg.StoreBackend {
	case "mongo":
		log.Println("🔗 Connecting to MongoDB...")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongodb, err = database.NewMongoDB(ctx, cfg.MongoURL)
		if err != nil {
			cancel()
			log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
		}

		if cfg.EnforceUniqueIndexes {
			if err := mongodb.Initialize(ctx, schemas); err != nil {
				cancel()
				log.Fatalf("❌ Failed to initialize MongoDB: %v", err)
			}
		} else {
			log.Println("⚠️  Unique indexes disabled - duplicate checks are best effort")
		}
		cancel()

		factory = services.MongoStores(mongodb)
		pinger = mongodb
		preflightDB = mongodb
	case "memory":
		log.Println("⚠️  Using in-memory store - data is lost on restart")
		factory = services.MemoryStores(cfg.EnforceUniqueIndexes)
	}

	// Run pre-flight checks
	checkCtx, cancelChecks := context.WithTimeout(context.Background(), 10*time.Second)
	results := preflight.NewChecker(cfg, preflightDB, schemas).RunAll(checkCtx)
	cancelChecks()
	if preflight.HasFailures(results) {
		log.Fatal("❌ Pre-flight checks failed. Please fix the issues above before starting the server.")
	}
	log.Println("✅ All pre-flight checks passed")

	registry := services.NewRegistry(schemas, factory, metrics)
	log.Printf("✅ %d resources registered", len(registry.All()))

	limiterStorage, err := middleware.NewLimiterStorage(cfg.RedisURL, cfg.RateLimitWindow)
	if err != nil {
		log.Fatalf("❌ Failed to initialize rate-limit storage: %v", err)
	}

	app := newApp(cfg, registry, handlers.NewHealthHandler(pinger, cfg.StoreBackend), limiterStorage, prometheus.DefaultRegisterer)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(cfg.Address()); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

	if err := limiterStorage.Close(); err != nil {
		log.Printf("⚠️ Error closing rate-limit storage: %v", err)
	}

	if mongodb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := mongodb.Close(ctx); err != nil {
			log.Printf("⚠️ Error closing MongoDB: %v", err)
		}
	}

	log.Println("👋 Server stopped")
}
