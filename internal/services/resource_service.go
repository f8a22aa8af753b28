package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"officehub/internal/database"
	"officehub/internal/models"
)

// ResourceService implements create, list, search, update and delete for one
// resource schema against a DocumentStore. It holds no per-request state and is
// safe for concurrent use.
type ResourceService struct {
	schema  *models.Schema
	store   database.DocumentStore
	metrics *Metrics
	logger  *slog.Logger
}

// NewResourceService creates a service for schema backed by store. metrics may be nil.
func NewResourceService(schema *models.Schema, store database.DocumentStore, metrics *Metrics) *ResourceService {
	return &ResourceService{
		schema:  schema,
		store:   store,
		metrics: metrics,
		logger:  slog.With("resource", schema.Collection),
	}
}

// Schema returns the schema the service was built for
func (s *ResourceService) Schema() *models.Schema {
	return s.schema
}

// Create validates payload, enforces the unique key and inserts a new record.
// Nothing is written when validation or the uniqueness check fails.
func (s *ResourceService) Create(ctx context.Context, payload map[string]any) (rec models.Record, err error) {
	defer s.track("create", time.Now(), &err)

	doc, err := s.schema.Validate(payload)
	if err != nil {
		return nil, s.validationError(err)
	}

	if s.schema.HasUniqueKey() {
		existing, err := s.store.FindOne(ctx, s.schema.UniqueFilter(doc))
		if err != nil {
			return nil, s.storeError("create", err)
		}
		if existing != nil {
			return nil, s.duplicateError(nil)
		}
	}

	id, err := s.store.Insert(ctx, doc)
	if err != nil {
		// the unique index caught a concurrent create that passed the check above
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, s.duplicateError(err)
		}
		return nil, s.storeError("create", err)
	}

	return s.schema.Record(id, doc), nil
}

// List returns every record. Order is store-defined.
func (s *ResourceService) List(ctx context.Context) (recs []models.Record, err error) {
	defer s.track("list", time.Now(), &err)

	return s.find(ctx, "list", models.Filter{})
}

// Search returns the records matching every supplied query parameter.
// Empty and unknown parameters are ignored; no matches is an empty slice.
func (s *ResourceService) Search(ctx context.Context, query map[string]string) (recs []models.Record, err error) {
	defer s.track("search", time.Now(), &err)

	filter, err := s.schema.Filters(query)
	if err != nil {
		return nil, s.validationError(err)
	}
	if filter.ID != "" {
		if _, err := database.ParseID(filter.ID); err != nil {
			return nil, s.invalidIDError(err)
		}
	}

	return s.find(ctx, "search", filter)
}

// Update replaces every base field of the record with id. The unique key is not
// re-checked here.
func (s *ResourceService) Update(ctx context.Context, id string, payload map[string]any) (rec models.Record, err error) {
	defer s.track("update", time.Now(), &err)

	doc, err := s.schema.Validate(payload)
	if err != nil {
		return nil, s.validationError(err)
	}
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, s.invalidIDError(err)
	}

	matched, err := s.store.UpdateByID(ctx, oid.Hex(), doc)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrInvalidIdentifier):
			return nil, s.invalidIDError(err)
		case errors.Is(err, database.ErrDuplicateKey):
			return nil, s.duplicateError(err)
		}
		return nil, s.storeError("update", err)
	}
	if matched == 0 {
		return nil, s.notFoundError()
	}

	return s.schema.Record(oid.Hex(), doc), nil
}

// Delete removes the record with id. Deleting an id that no longer exists
// fails with NotFound.
func (s *ResourceService) Delete(ctx context.Context, id string) (err error) {
	defer s.track("delete", time.Now(), &err)

	if _, err := database.ParseID(id); err != nil {
		return s.invalidIDError(err)
	}

	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrInvalidIdentifier) {
			return s.invalidIDError(err)
		}
		return s.storeError("delete", err)
	}
	if deleted == 0 {
		return s.notFoundError()
	}
	return nil
}

func (s *ResourceService) find(ctx context.Context, op string, filter models.Filter) ([]models.Record, error) {
	docs, err := s.store.Find(ctx, filter)
	if err != nil {
		if errors.Is(err, database.ErrInvalidIdentifier) {
			return nil, s.invalidIDError(err)
		}
		return nil, s.storeError(op, err)
	}

	recs := make([]models.Record, 0, len(docs))
	for _, d := range docs {
		recs = append(recs, s.schema.Record(d.ID, d.Doc))
	}
	return recs, nil
}

func (s *ResourceService) track(op string, start time.Time, err *error) {
	s.metrics.observe(s.schema.Collection, op, time.Since(start).Seconds(), *err)
}

func (s *ResourceService) validationError(err error) *Error {
	return newError(KindValidation, err.Error(), err)
}

func (s *ResourceService) duplicateError(cause error) *Error {
	return newError(KindDuplicateKey, s.schema.DuplicateDetail(), cause)
}

func (s *ResourceService) notFoundError() *Error {
	return newError(KindNotFound, s.schema.Name+" not found", nil)
}

func (s *ResourceService) invalidIDError(cause error) *Error {
	return newError(KindInvalidIdentifier, fmt.Sprintf("Invalid %s ID", strings.ToLower(s.schema.Name)), cause)
}

func (s *ResourceService) storeError(op string, cause error) *Error {
	s.logger.Error("store operation failed", "operation", op, "error", cause)
	return newError(KindStoreFailure, fmt.Sprintf("Failed to %s %s", op, strings.ToLower(s.schema.Name)), cause)
}
