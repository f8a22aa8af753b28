package database

import (
	"context"
	"errors"
	"testing"

	"officehub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoStore_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		store := NewMongoStoreFromCollection(mt.Coll)
		id, err := store.Insert(context.Background(), models.Document{"name": "Asha", "salary": float64(95000)})
		if err != nil {
			mt.Fatalf("Insert() error = %v", err)
		}
		if _, err := ParseID(id); err != nil {
			mt.Errorf("Insert() returned non-ObjectID id %q", id)
		}
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		store := NewMongoStoreFromCollection(mt.Coll)
		_, err := store.Insert(context.Background(), models.Document{"name": "Asha"})
		if !errors.Is(err, ErrDuplicateKey) {
			mt.Errorf("Insert() error = %v, want ErrDuplicateKey", err)
		}
	})

	mt.Run("store failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "boom",
		}))

		store := NewMongoStoreFromCollection(mt.Coll)
		_, err := store.Insert(context.Background(), models.Document{"name": "Asha"})
		if err == nil || errors.Is(err, ErrDuplicateKey) {
			mt.Errorf("Insert() error = %v, want generic failure", err)
		}
	})
}

func TestMongoStore_FindOne(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	oid := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "Standup"},
			{Key: "attendees", Value: bson.A{"Asha", "Ben"}},
		}))

		store := NewMongoStoreFromCollection(mt.Coll)
		got, err := store.FindOne(context.Background(), models.Filter{ID: oid.Hex()})
		if err != nil {
			mt.Fatalf("FindOne() error = %v", err)
		}
		if got == nil {
			mt.Fatal("FindOne() returned nil")
		}
		if got.ID != oid.Hex() {
			mt.Errorf("FindOne() ID = %v, want %v", got.ID, oid.Hex())
		}
		if _, ok := got.Doc["_id"]; ok {
			mt.Error("_id must be lifted out of the document")
		}
		attendees, ok := got.Doc["attendees"].([]any)
		if !ok || len(attendees) != 2 {
			mt.Errorf("FindOne() attendees = %#v, want plain slice", got.Doc["attendees"])
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		store := NewMongoStoreFromCollection(mt.Coll)
		got, err := store.FindOne(context.Background(), models.Filter{Equals: map[string]any{"name": "Nobody"}})
		if err != nil {
			mt.Fatalf("FindOne() error = %v", err)
		}
		if got != nil {
			mt.Errorf("FindOne() = %+v, want nil", got)
		}
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		_, err := store.FindOne(context.Background(), models.Filter{ID: "not-an-id"})
		if !errors.Is(err, ErrInvalidIdentifier) {
			mt.Errorf("FindOne() error = %v, want ErrInvalidIdentifier", err)
		}
	})
}

func TestMongoStore_Find(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("multiple batches", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(1, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Asha"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Ben"}},
		)
		last := mtest.CreateCursorResponse(0, namespace(mt), mtest.NextBatch)
		mt.AddMockResponses(first, last)

		store := NewMongoStoreFromCollection(mt.Coll)
		docs, err := store.Find(context.Background(), models.Filter{})
		if err != nil {
			mt.Fatalf("Find() error = %v", err)
		}
		if len(docs) != 2 {
			mt.Fatalf("Find() returned %d docs, want 2", len(docs))
		}
		if docs[1].Doc["name"] != "Ben" {
			mt.Errorf("Find() second doc = %v", docs[1].Doc)
		}
	})

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		store := NewMongoStoreFromCollection(mt.Coll)
		docs, err := store.Find(context.Background(), models.Filter{Contains: map[string]string{"name": "zed"}})
		if err != nil {
			mt.Fatalf("Find() error = %v", err)
		}
		if docs == nil || len(docs) != 0 {
			mt.Errorf("Find() = %#v, want empty non-nil slice", docs)
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "unauthorized",
		}))

		store := NewMongoStoreFromCollection(mt.Coll)
		if _, err := store.Find(context.Background(), models.Filter{}); err == nil {
			mt.Error("Find() expected error")
		}
	})
}

func TestMongoStore_UpdateByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		store := NewMongoStoreFromCollection(mt.Coll)
		matched, err := store.UpdateByID(context.Background(), primitive.NewObjectID().Hex(), models.Document{"name": "Asha"})
		if err != nil {
			mt.Fatalf("UpdateByID() error = %v", err)
		}
		if matched != 1 {
			mt.Errorf("UpdateByID() matched = %d, want 1", matched)
		}
	})

	mt.Run("not matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		store := NewMongoStoreFromCollection(mt.Coll)
		matched, err := store.UpdateByID(context.Background(), primitive.NewObjectID().Hex(), models.Document{"name": "Asha"})
		if err != nil {
			mt.Fatalf("UpdateByID() error = %v", err)
		}
		if matched != 0 {
			mt.Errorf("UpdateByID() matched = %d, want 0", matched)
		}
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		store := NewMongoStoreFromCollection(mt.Coll)
		_, err := store.UpdateByID(context.Background(), "123", models.Document{})
		if !errors.Is(err, ErrInvalidIdentifier) {
			mt.Errorf("UpdateByID() error = %v, want ErrInvalidIdentifier", err)
		}
	})
}

func TestMongoStore_DeleteByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		store := NewMongoStoreFromCollection(mt.Coll)
		deleted, err := store.DeleteByID(context.Background(), primitive.NewObjectID().Hex())
		if err != nil {
			mt.Fatalf("DeleteByID() error = %v", err)
		}
		if deleted != 1 {
			mt.Errorf("DeleteByID() deleted = %d, want 1", deleted)
		}
	})

	mt.Run("nothing to delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		store := NewMongoStoreFromCollection(mt.Coll)
		deleted, err := store.DeleteByID(context.Background(), primitive.NewObjectID().Hex())
		if err != nil {
			mt.Fatalf("DeleteByID() error = %v", err)
		}
		if deleted != 0 {
			mt.Errorf("DeleteByID() deleted = %d, want 0", deleted)
		}
	})
}

func TestMongoDB_Initialize(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates unique indexes", func(mt *mtest.T) {
		schemas := models.AllSchemas()
		for _, s := range schemas {
			if s.HasUniqueKey() {
				mt.AddMockResponses(mtest.CreateSuccessResponse())
			}
		}

		db := &MongoDB{client: mt.Client, database: mt.DB, dbName: mt.DB.Name()}
		if err := db.Initialize(context.Background(), schemas); err != nil {
			mt.Fatalf("Initialize() error = %v", err)
		}
	})
}

func TestMongoDB_HasUniqueIndex(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	indexes := func(mt *mtest.T) {
		ns := mt.DB.Name() + ".meetings"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "v", Value: 2}, {Key: "key", Value: bson.D{{Key: "_id", Value: 1}}}, {Key: "name", Value: "_id_"}},
			bson.D{
				{Key: "v", Value: 2},
				{Key: "key", Value: bson.D{{Key: "title", Value: 1}, {Key: "date", Value: 1}}},
				{Key: "name", Value: "title_1_date_1"},
				{Key: "unique", Value: true},
			},
		))
	}

	tests := []struct {
		name string
		keys []string
		want bool
	}{
		{"matching compound key", []string{"title", "date"}, true},
		{"prefix only", []string{"title"}, false},
		{"wrong order", []string{"date", "title"}, false},
		{"not unique", []string{"_id"}, false},
	}

	for _, tt := range tests {
		mt.Run(tt.name, func(mt *mtest.T) {
			indexes(mt)
			db := &MongoDB{client: mt.Client, database: mt.DB, dbName: mt.DB.Name()}

			got, err := db.HasUniqueIndex(context.Background(), "meetings", tt.keys)
			if err != nil {
				mt.Fatalf("HasUniqueIndex() error = %v", err)
			}
			if got != tt.want {
				mt.Errorf("HasUniqueIndex(%v) = %v, want %v", tt.keys, got, tt.want)
			}
		})
	}

	mt.Run("list error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized"}))
		db := &MongoDB{client: mt.Client, database: mt.DB, dbName: mt.DB.Name()}

		if _, err := db.HasUniqueIndex(context.Background(), "meetings", []string{"title"}); err == nil {
			mt.Error("expected error when listIndexes fails")
		}
	})
}

func TestBuildQuery(t *testing.T) {
	oid := primitive.NewObjectID()
	query, err := buildQuery(models.Filter{
		ID:       oid.Hex(),
		Equals:   map[string]any{"position": "Engineer"},
		Contains: map[string]string{"name": "a.b"},
	})
	if err != nil {
		t.Fatalf("buildQuery() error = %v", err)
	}

	if query["_id"] != oid {
		t.Errorf("expected _id ObjectID, got %v", query["_id"])
	}
	if query["position"] != "Engineer" {
		t.Errorf("expected exact position, got %v", query["position"])
	}
	regex, ok := query["name"].(bson.M)
	if !ok {
		t.Fatalf("expected regex document for name, got %T", query["name"])
	}
	if regex["$regex"] != `a\.b` || regex["$options"] != "i" {
		t.Errorf("unexpected regex document %v", regex)
	}
}
