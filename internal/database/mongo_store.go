package database

import (
	"context"
	"fmt"
	"regexp"

	"officehub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore implements DocumentStore on a MongoDB collection
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a store for the named collection
func NewMongoStore(mongodb *MongoDB, collection string) *MongoStore {
	return &MongoStore{collection: mongodb.Collection(collection)}
}

// NewMongoStoreFromCollection wraps an existing collection handle
func NewMongoStoreFromCollection(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// Insert inserts doc and returns the generated ObjectID as hex
func (s *MongoStore) Insert(ctx context.Context, doc models.Document) (string, error) {
	result, err := s.collection.InsertOne(ctx, toBSON(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return "", fmt.Errorf("failed to insert into %s: %w", s.collection.Name(), err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// FindOne returns the first matching document or nil
func (s *MongoStore) FindOne(ctx context.Context, f models.Filter) (*StoredDocument, error) {
	query, err := buildQuery(f)
	if err != nil {
		return nil, err
	}

	var raw bson.M
	err = s.collection.FindOne(ctx, query).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to query %s: %w", s.collection.Name(), err)
	}

	stored := fromBSON(raw)
	return &stored, nil
}

// Find returns every matching document
func (s *MongoStore) Find(ctx context.Context, f models.Filter) ([]StoredDocument, error) {
	query, err := buildQuery(f)
	if err != nil {
		return nil, err
	}

	cursor, err := s.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.collection.Name(), err)
	}

	docs := make([]StoredDocument, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

// UpdateByID sets every field of doc on the document with id
func (s *MongoStore) UpdateByID(ctx context.Context, id string, doc models.Document) (int64, error) {
	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": toBSON(doc)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return 0, fmt.Errorf("failed to update %s: %w", s.collection.Name(), err)
	}
	return result.MatchedCount, nil
}

// DeleteByID removes the document with id
func (s *MongoStore) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", s.collection.Name(), err)
	}
	return result.DeletedCount, nil
}

// buildQuery translates a Filter into a MongoDB query document.
// Contains criteria become unanchored, case-insensitive regexes over the literal input.
func buildQuery(f models.Filter) (bson.M, error) {
	query := bson.M{}

	if f.ID != "" {
		oid, err := ParseID(f.ID)
		if err != nil {
			return nil, err
		}
		query["_id"] = oid
	}

	for field, value := range f.Equals {
		query[field] = value
	}

	for field, value := range f.Contains {
		query[field] = bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
	}

	return query, nil
}

func toBSON(doc models.Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if k == "_id" || k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

func fromBSON(raw bson.M) StoredDocument {
	stored := StoredDocument{Doc: make(models.Document, len(raw))}

	for k, v := range raw {
		if k == "_id" {
			switch id := v.(type) {
			case primitive.ObjectID:
				stored.ID = id.Hex()
			default:
				stored.ID = fmt.Sprint(id)
			}
			continue
		}
		stored.Doc[k] = normalizeBSON(v)
	}
	return stored
}

// normalizeBSON converts driver container types into plain Go values
func normalizeBSON(v any) any {
	switch val := v.(type) {
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeBSON(item)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeBSON(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	default:
		return v
	}
}
