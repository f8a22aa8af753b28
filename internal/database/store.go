package database

import (
	"context"
	"errors"
	"fmt"

	"officehub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidIdentifier is returned when an id string is not a valid ObjectID
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrDuplicateKey is returned when the store rejects a write on a unique index
	ErrDuplicateKey = errors.New("duplicate key")
)

// DocumentStore is a single collection of schemaless documents with
// store-generated identifiers. Implementations must be safe for concurrent use.
type DocumentStore interface {
	// Insert stores doc and returns its new identifier.
	Insert(ctx context.Context, doc models.Document) (string, error)

	// FindOne returns the first document matching f, or nil if none does.
	FindOne(ctx context.Context, f models.Filter) (*StoredDocument, error)

	// Find returns every document matching f. Order is store-defined.
	Find(ctx context.Context, f models.Filter) ([]StoredDocument, error)

	// UpdateByID overwrites the given fields of the document with id and
	// returns how many documents matched.
	UpdateByID(ctx context.Context, id string, doc models.Document) (int64, error)

	// DeleteByID removes the document with id and returns how many were deleted.
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// StoredDocument is a document together with its identifier
type StoredDocument struct {
	ID  string
	Doc models.Document
}

// ParseID translates a caller-supplied identifier into the store's native form.
// It never panics; any malformed string yields ErrInvalidIdentifier.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return oid, nil
}
