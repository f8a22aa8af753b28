package preflight

import (
	"context"
	"fmt"
	"log"
	"strings"

	"officehub/internal/config"
	"officehub/internal/models"
)

// CheckResult represents the result of a preflight check
type CheckResult struct {
	Name    string
	Status  string // "pass", "fail", "warning"
	Message string
	Error   error
}

// Database is the part of the Mongo connection the checks need
type Database interface {
	Ping(ctx context.Context) error
	HasUniqueIndex(ctx context.Context, collection string, keys []string) (bool, error)
}

// Checker performs pre-flight checks before server starts
type Checker struct {
	cfg     *config.Config
	db      Database
	schemas []*models.Schema
}

// NewChecker creates a new preflight checker. db is nil for the memory backend.
func NewChecker(cfg *config.Config, db Database, schemas []*models.Schema) *Checker {
	return &Checker{cfg: cfg, db: db, schemas: schemas}
}

// RunAll runs all preflight checks and returns results
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	log.Println("🔍 Running pre-flight checks...")

	results := []CheckResult{
		c.checkDatabaseConnection(ctx),
		c.checkUniqueIndexes(ctx),
		c.checkConfiguration(),
	}

	passed := 0
	failed := 0
	warnings := 0

	for _, result := range results {
		switch result.Status {
		case "pass":
			log.Printf("   ✅ %s: %s", result.Name, result.Message)
			passed++
		case "fail":
			log.Printf("   ❌ %s: %s", result.Name, result.Message)
			if result.Error != nil {
				log.Printf("      Error: %v", result.Error)
			}
			failed++
		case "warning":
			log.Printf("   ⚠️  %s: %s", result.Name, result.Message)
			warnings++
		}
	}

	log.Printf("📊 Pre-flight summary: %d passed, %d failed, %d warnings", passed, failed, warnings)

	return results
}

// HasFailures returns true if any check failed
func HasFailures(results []CheckResult) bool {
	for _, result := range results {
		if result.Status == "fail" {
			return true
		}
	}
	return false
}

// checkDatabaseConnection verifies database connectivity
func (c *Checker) checkDatabaseConnection(ctx context.Context) CheckResult {
	if c.db == nil {
		return CheckResult{
			Name:    "Database Connection",
			Status:  "pass",
			Message: "In-memory store, nothing to connect to",
		}
	}

	if err := c.db.Ping(ctx); err != nil {
		return CheckResult{
			Name:    "Database Connection",
			Status:  "fail",
			Message: "Cannot connect to database",
			Error:   err,
		}
	}

	return CheckResult{
		Name:    "Database Connection",
		Status:  "pass",
		Message: "Database connection successful",
	}
}

// checkUniqueIndexes verifies every unique key is backed by a unique index
func (c *Checker) checkUniqueIndexes(ctx context.Context) CheckResult {
	if c.db == nil || !c.cfg.EnforceUniqueIndexes {
		return CheckResult{
			Name:    "Unique Indexes",
			Status:  "warning",
			Message: "Not enforced by the store; concurrent creates may insert duplicates",
		}
	}

	checked := 0
	for _, schema := range c.schemas {
		if !schema.HasUniqueKey() {
			continue
		}

		ok, err := c.db.HasUniqueIndex(ctx, schema.Collection, schema.UniqueKey)
		if err != nil || !ok {
			return CheckResult{
				Name:    "Unique Indexes",
				Status:  "fail",
				Message: fmt.Sprintf("Unique index on %s(%s) not found", schema.Collection, strings.Join(schema.UniqueKey, ", ")),
				Error:   err,
			}
		}
		checked++
	}

	return CheckResult{
		Name:    "Unique Indexes",
		Status:  "pass",
		Message: fmt.Sprintf("All %d unique indexes exist", checked),
	}
}

// checkConfiguration flags settings that work but are unsafe in production
func (c *Checker) checkConfiguration() CheckResult {
	if !c.cfg.IsProduction() {
		return CheckResult{
			Name:    "Configuration",
			Status:  "pass",
			Message: "Development configuration",
		}
	}

	var problems []string
	if c.cfg.StoreBackend == "memory" {
		problems = append(problems, "in-memory store loses data on restart")
	}
	if c.cfg.AllowedOrigins == "*" {
		problems = append(problems, "CORS allows every origin")
	}
	if c.cfg.RateLimitMax == 0 {
		problems = append(problems, "rate limiting disabled")
	}
	if c.cfg.RedisURL == "" {
		problems = append(problems, "rate-limit counters are per process (REDIS_URL not set)")
	}

	if len(problems) > 0 {
		return CheckResult{
			Name:    "Configuration",
			Status:  "warning",
			Message: strings.Join(problems, "; "),
		}
	}

	return CheckResult{
		Name:    "Configuration",
		Status:  "pass",
		Message: "Production configuration",
	}
}
