package provision

import (
	"context"
	"sync"
)

// MemoryRegistry is an in-memory implementation of the collection, field,
// and relation services. It backs the memory storage provider and tests.
type MemoryRegistry struct {
	mu          sync.RWMutex
	collections map[string]CollectionDefinition
	fields      map[string]FieldDefinition
	relations   map[string]RelationDefinition
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		collections: make(map[string]CollectionDefinition),
		fields:      make(map[string]FieldDefinition),
		relations:   make(map[string]RelationDefinition),
	}
}

func (m *MemoryRegistry) Exists(_ context.Context, collection string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.collections[collection]
	return ok, nil
}

func (m *MemoryRegistry) Create(_ context.Context, def CollectionDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[def.Collection] = def
	return nil
}

// Fields returns a FieldsService view over the registry.
func (m *MemoryRegistry) Fields() FieldsService { return (*memoryFields)(m) }

// Relations returns a RelationsService view over the registry.
func (m *MemoryRegistry) Relations() RelationsService { return (*memoryRelations)(m) }

// Collections reports the registered collection names.
func (m *MemoryRegistry) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.collections))
	for name := range m.collections {
		out = append(out, name)
	}
	return out
}

type memoryFields MemoryRegistry

func (m *memoryFields) Exists(_ context.Context, collection, field string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.fields[collection+"."+field]
	return ok, nil
}

func (m *memoryFields) Create(_ context.Context, collection string, def FieldDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[collection+"."+def.Field] = def
	return nil
}

func (m *memoryFields) Update(_ context.Context, collection string, def FieldDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[collection+"."+def.Field] = def
	return nil
}

type memoryRelations MemoryRegistry

func (m *memoryRelations) Exists(_ context.Context, collection, field string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.relations[collection+"."+field]
	return ok, nil
}

func (m *memoryRelations) Create(_ context.Context, def RelationDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relations[def.Collection+"."+def.Field] = def
	return nil
}
