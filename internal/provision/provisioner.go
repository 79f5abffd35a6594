package provision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devix-tecnologia/go-inframe/internal/logging"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

// Option configures the provisioner.
type Option func(*Provisioner)

// WithLogger sets the logger used during provisioning runs.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(p *Provisioner) {
		p.logger = logging.ProvisionLogger(provider)
	}
}

// WithDefinition overrides the embedded provisioning document.
func WithDefinition(def *Definition) Option {
	return func(p *Provisioner) {
		if def != nil {
			p.definition = def
		}
	}
}

// WithSchemaService sets the storage schema service applied before the
// collection registry is reconciled.
func WithSchemaService(schema SchemaService) Option {
	return func(p *Provisioner) {
		p.schema = schema
	}
}

// WithPatchFields enables updating existing fields to match the definition
// instead of leaving them untouched.
func WithPatchFields(patch bool) Option {
	return func(p *Provisioner) {
		p.patchFields = patch
	}
}

// WithEnabled toggles the provisioning feature gate.
func WithEnabled(enabled bool) Option {
	return func(p *Provisioner) {
		p.enabled = enabled
	}
}

// Provisioner reconciles the host's collection registry with the module's
// provisioning document.
type Provisioner struct {
	collections CollectionsService
	fields      FieldsService
	relations   RelationsService
	schema      SchemaService
	definition  *Definition
	logger      interfaces.Logger
	patchFields bool
	enabled     bool
}

// New builds a provisioner. The definition defaults to the embedded document
// when none is supplied.
func New(collections CollectionsService, fields FieldsService, relations RelationsService, opts ...Option) (*Provisioner, error) {
	p := &Provisioner{
		collections: collections,
		fields:      fields,
		relations:   relations,
		logger:      logging.NoOp(),
		enabled:     true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.definition == nil {
		def, err := LoadDefinition()
		if err != nil {
			return nil, err
		}
		p.definition = def
	}
	return p, nil
}

// Ensure applies the storage schema and reconciles collections, fields, and
// relations. Collections nested under a group are deferred until the group
// exists; an unresolvable group is an error.
func (p *Provisioner) Ensure(ctx context.Context) error {
	if !p.enabled {
		return ErrFeatureDisabled
	}

	started := time.Now()

	if p.schema != nil {
		if err := p.schema.Apply(ctx); err != nil {
			return fmt.Errorf("provision: applying storage schema: %w", err)
		}
	}

	if err := p.ensureCollections(ctx); err != nil {
		return err
	}
	if err := p.ensureRelations(ctx); err != nil {
		return err
	}

	p.logger.Info("provisioning complete",
		"collections", len(p.definition.Collections),
		"relations", len(p.definition.Relations),
		"elapsed", time.Since(started).String())
	return nil
}

func (p *Provisioner) ensureCollections(ctx context.Context) error {
	ensured := map[string]bool{}
	pending := append([]CollectionDefinition(nil), p.definition.Collections...)

	for len(pending) > 0 {
		progressed := false
		next := pending[:0]

		for _, def := range pending {
			ready, err := p.groupReady(ctx, ensured, def.Group)
			if err != nil {
				return err
			}
			if !ready {
				next = append(next, def)
				continue
			}
			if err := p.ensureCollection(ctx, def); err != nil {
				return err
			}
			ensured[def.Collection] = true
			progressed = true
		}

		if !progressed {
			names := make([]string, 0, len(next))
			for _, def := range next {
				names = append(names, def.Collection)
			}
			return fmt.Errorf("%w: %s", ErrGroupUnresolved, strings.Join(names, ", "))
		}
		pending = next
	}
	return nil
}

func (p *Provisioner) groupReady(ctx context.Context, ensured map[string]bool, group string) (bool, error) {
	if group == "" || ensured[group] {
		return true, nil
	}
	exists, err := p.collections.Exists(ctx, group)
	if err != nil {
		return false, fmt.Errorf("provision: checking group %q: %w", group, err)
	}
	return exists, nil
}

func (p *Provisioner) ensureCollection(ctx context.Context, def CollectionDefinition) error {
	exists, err := p.collections.Exists(ctx, def.Collection)
	if err != nil {
		return fmt.Errorf("provision: checking collection %q: %w", def.Collection, err)
	}
	if !exists {
		if err := p.collections.Create(ctx, def); err != nil {
			return fmt.Errorf("provision: creating collection %q: %w", def.Collection, err)
		}
		p.logger.Info("collection created", "collection", def.Collection)
	}

	for _, field := range def.Fields {
		if err := p.ensureField(ctx, def.Collection, field); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) ensureField(ctx context.Context, collection string, def FieldDefinition) error {
	exists, err := p.fields.Exists(ctx, collection, def.Field)
	if err != nil {
		return fmt.Errorf("provision: checking field %s.%s: %w", collection, def.Field, err)
	}
	if !exists {
		if err := p.fields.Create(ctx, collection, def); err != nil {
			return fmt.Errorf("provision: creating field %s.%s: %w", collection, def.Field, err)
		}
		p.logger.Debug("field created", "collection", collection, "field", def.Field)
		return nil
	}
	if p.patchFields {
		if err := p.fields.Update(ctx, collection, def); err != nil {
			return fmt.Errorf("provision: updating field %s.%s: %w", collection, def.Field, err)
		}
		p.logger.Debug("field updated", "collection", collection, "field", def.Field)
	}
	return nil
}

func (p *Provisioner) ensureRelations(ctx context.Context) error {
	for _, rel := range p.definition.Relations {
		exists, err := p.relations.Exists(ctx, rel.Collection, rel.Field)
		if err != nil {
			return fmt.Errorf("provision: checking relation %s.%s: %w", rel.Collection, rel.Field, err)
		}
		if exists {
			continue
		}
		if err := p.relations.Create(ctx, rel); err != nil {
			return fmt.Errorf("provision: creating relation %s.%s: %w", rel.Collection, rel.Field, err)
		}
		p.logger.Info("relation created", "collection", rel.Collection, "field", rel.Field, "related", rel.RelatedCollection)
	}
	return nil
}
