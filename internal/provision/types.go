// Package provision bootstraps the host collections, fields, and relations
// this module depends on. Every operation is idempotent so repeated startup
// runs converge on the same schema.
package provision

import (
	"context"
	"errors"
)

var (
	ErrDefinitionInvalid = errors.New("provision: collection definition invalid")
	ErrGroupUnresolved   = errors.New("provision: collection group cannot be resolved")
	ErrFeatureDisabled   = errors.New("provision: feature disabled")
)

// FieldDefinition describes one field of a collection.
type FieldDefinition struct {
	Field  string         `json:"field"`
	Type   string         `json:"type"`
	Meta   map[string]any `json:"meta,omitempty"`
	Schema map[string]any `json:"schema,omitempty"`
}

// CollectionDefinition describes one collection, optionally nested under a
// group collection that must exist first.
type CollectionDefinition struct {
	Collection string            `json:"collection"`
	Group      string            `json:"group,omitempty"`
	Folder     bool              `json:"folder,omitempty"`
	Meta       map[string]any    `json:"meta,omitempty"`
	Fields     []FieldDefinition `json:"fields,omitempty"`
}

// RelationDefinition describes a foreign-key relation between collections.
type RelationDefinition struct {
	Collection        string         `json:"collection"`
	Field             string         `json:"field"`
	RelatedCollection string         `json:"related_collection"`
	Meta              map[string]any `json:"meta,omitempty"`
	Schema            map[string]any `json:"schema,omitempty"`
}

// Definition is the full provisioning document.
type Definition struct {
	Collections []CollectionDefinition `json:"collections"`
	Relations   []RelationDefinition   `json:"relations,omitempty"`
}

// CollectionsService manages collection registration on the host.
type CollectionsService interface {
	Exists(ctx context.Context, collection string) (bool, error)
	Create(ctx context.Context, def CollectionDefinition) error
}

// FieldsService manages fields within registered collections.
type FieldsService interface {
	Exists(ctx context.Context, collection, field string) (bool, error)
	Create(ctx context.Context, collection string, def FieldDefinition) error
	Update(ctx context.Context, collection string, def FieldDefinition) error
}

// RelationsService manages relations between collections.
type RelationsService interface {
	Exists(ctx context.Context, collection, field string) (bool, error)
	Create(ctx context.Context, def RelationDefinition) error
}

// SchemaService applies the backing storage schema (tables and indexes).
type SchemaService interface {
	Apply(ctx context.Context) error
}
