package database

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"officehub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps one collection in memory. Data is lost on restart.
// Safe for concurrent use. Identifiers are ObjectIDs so id handling matches MongoStore.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]models.Document
	order     []string
	uniqueKey []string
}

// NewMemoryStore creates an empty store. When uniqueKey is given, writes that would
// produce two documents with the same values for those fields fail with
// ErrDuplicateKey, like a unique index.
func NewMemoryStore(uniqueKey ...string) *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string]models.Document),
		uniqueKey: uniqueKey,
	}
}

// deepCopy returns a deep copy of a document by round-tripping through JSON.
func deepCopy(src models.Document) (models.Document, error) {
	if src == nil {
		return nil, nil
	}
	b, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	var dst models.Document
	if err := json.Unmarshal(b, &dst); err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	return dst, nil
}

// Insert stores a copy of doc under a new ObjectID
func (m *MemoryStore) Insert(ctx context.Context, doc models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := deepCopy(toPlain(doc))
	if err != nil {
		return "", err
	}
	if m.violatesUnique("", stored) {
		return "", fmt.Errorf("%w: %v", ErrDuplicateKey, m.uniqueKey)
	}

	id := primitive.NewObjectID().Hex()
	m.docs[id] = stored
	m.order = append(m.order, id)
	return id, nil
}

// FindOne returns the first matching document in insertion order
func (m *MemoryStore) FindOne(ctx context.Context, f models.Filter) (*StoredDocument, error) {
	docs, err := m.find(ctx, f, 1)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return &docs[0], nil
}

// Find returns every matching document in insertion order
func (m *MemoryStore) Find(ctx context.Context, f models.Filter) ([]StoredDocument, error) {
	return m.find(ctx, f, 0)
}

func (m *MemoryStore) find(ctx context.Context, f models.Filter, limit int) ([]StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.ID != "" {
		if _, err := ParseID(f.ID); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []StoredDocument{}
	for _, id := range m.order {
		doc := m.docs[id]
		if !matches(id, doc, f) {
			continue
		}
		copied, err := deepCopy(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, StoredDocument{ID: id, Doc: copied})
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// UpdateByID sets every field of doc on the document with id
func (m *MemoryStore) UpdateByID(ctx context.Context, id string, doc models.Document) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}
	id = oid.Hex()

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.docs[id]
	if !ok {
		return 0, nil
	}

	updated, err := deepCopy(existing)
	if err != nil {
		return 0, err
	}
	changes, err := deepCopy(toPlain(doc))
	if err != nil {
		return 0, err
	}
	for k, v := range changes {
		updated[k] = v
	}
	if m.violatesUnique(id, updated) {
		return 0, fmt.Errorf("%w: %v", ErrDuplicateKey, m.uniqueKey)
	}

	m.docs[id] = updated
	return 1, nil
}

// DeleteByID removes the document with id
func (m *MemoryStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}
	id = oid.Hex()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return 0, nil
	}
	delete(m.docs, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// Len returns the number of stored documents
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// violatesUnique must be called with the lock held
func (m *MemoryStore) violatesUnique(selfID string, doc models.Document) bool {
	if len(m.uniqueKey) == 0 {
		return false
	}
	for id, other := range m.docs {
		if id == selfID {
			continue
		}
		same := true
		for _, field := range m.uniqueKey {
			if !valuesEqual(doc[field], other[field]) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func toPlain(doc models.Document) models.Document {
	out := make(models.Document, len(doc))
	for k, v := range doc {
		if k == "_id" || k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

func matches(id string, doc models.Document, f models.Filter) bool {
	if f.ID != "" && !strings.EqualFold(f.ID, id) {
		return false
	}
	for field, want := range f.Equals {
		if !valuesEqual(doc[field], want) {
			return false
		}
	}
	for field, needle := range f.Contains {
		s, ok := doc[field].(string)
		if !ok || !strings.Contains(strings.ToLower(s), strings.ToLower(needle)) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if af, ok := number(a); ok {
		bf, ok := number(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
