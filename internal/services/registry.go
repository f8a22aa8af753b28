package services

import (
	"officehub/internal/database"
	"officehub/internal/models"
)

// StoreFactory returns the document store backing a schema's collection
type StoreFactory func(schema *models.Schema) database.DocumentStore

// Registry holds one ResourceService per schema, in mount order
type Registry struct {
	services []*ResourceService
	byName   map[string]*ResourceService
}

// NewRegistry builds a service for each schema using stores from factory
func NewRegistry(schemas []*models.Schema, factory StoreFactory, metrics *Metrics) *Registry {
	r := &Registry{byName: make(map[string]*ResourceService, len(schemas))}
	for _, schema := range schemas {
		svc := NewResourceService(schema, factory(schema), metrics)
		r.services = append(r.services, svc)
		r.byName[schema.Collection] = svc
	}
	return r
}

// MongoStores returns a factory that opens one MongoStore per collection
func MongoStores(mongodb *database.MongoDB) StoreFactory {
	return func(schema *models.Schema) database.DocumentStore {
		return database.NewMongoStore(mongodb, schema.Collection)
	}
}

// MemoryStores returns a factory of in-memory stores. When enforceUnique is set,
// each store rejects duplicates on the schema's unique key.
func MemoryStores(enforceUnique bool) StoreFactory {
	return func(schema *models.Schema) database.DocumentStore {
		if enforceUnique {
			return database.NewMemoryStore(schema.UniqueKey...)
		}
		return database.NewMemoryStore()
	}
}

// All returns the services in mount order
func (r *Registry) All() []*ResourceService {
	return r.services
}

// Get returns the service for a collection name
func (r *Registry) Get(collection string) (*ResourceService, bool) {
	svc, ok := r.byName[collection]
	return svc, ok
}
