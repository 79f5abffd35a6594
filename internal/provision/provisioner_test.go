package provision

import (
	"context"
	"errors"
	"testing"
)

type recordingServices struct {
	*MemoryRegistry
	collectionCreates []string
	fieldCreates      []string
	fieldUpdates      []string
	relationCreates   []string
}

func newRecordingServices() *recordingServices {
	return &recordingServices{MemoryRegistry: NewMemoryRegistry()}
}

func (r *recordingServices) Create(ctx context.Context, def CollectionDefinition) error {
	r.collectionCreates = append(r.collectionCreates, def.Collection)
	return r.MemoryRegistry.Create(ctx, def)
}

type recordingFields struct {
	inner  FieldsService
	parent *recordingServices
}

func (f recordingFields) Exists(ctx context.Context, collection, field string) (bool, error) {
	return f.inner.Exists(ctx, collection, field)
}

func (f recordingFields) Create(ctx context.Context, collection string, def FieldDefinition) error {
	f.parent.fieldCreates = append(f.parent.fieldCreates, collection+"."+def.Field)
	return f.inner.Create(ctx, collection, def)
}

func (f recordingFields) Update(ctx context.Context, collection string, def FieldDefinition) error {
	f.parent.fieldUpdates = append(f.parent.fieldUpdates, collection+"."+def.Field)
	return f.inner.Update(ctx, collection, def)
}

type recordingRelations struct {
	inner  RelationsService
	parent *recordingServices
}

func (r recordingRelations) Exists(ctx context.Context, collection, field string) (bool, error) {
	return r.inner.Exists(ctx, collection, field)
}

func (r recordingRelations) Create(ctx context.Context, def RelationDefinition) error {
	r.parent.relationCreates = append(r.parent.relationCreates, def.Collection+"."+def.Field)
	return r.inner.Create(ctx, def)
}

func newTestProvisioner(t *testing.T, services *recordingServices, opts ...Option) *Provisioner {
	t.Helper()
	p, err := New(services,
		recordingFields{inner: services.MemoryRegistry.Fields(), parent: services},
		recordingRelations{inner: services.MemoryRegistry.Relations(), parent: services},
		opts...)
	if err != nil {
		t.Fatalf("new provisioner: %v", err)
	}
	return p
}

func TestEnsureCreatesEverythingOnce(t *testing.T) {
	services := newRecordingServices()
	p := newTestProvisioner(t, services)
	ctx := context.Background()

	if err := p.Ensure(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if len(services.collectionCreates) != 3 {
		t.Fatalf("expected three collections, got %v", services.collectionCreates)
	}
	if services.collectionCreates[0] != "inframe" {
		t.Fatalf("group collection must be created first, got %v", services.collectionCreates)
	}
	if len(services.relationCreates) != 1 || services.relationCreates[0] != "inframe_frame_translations.frame_id" {
		t.Fatalf("unexpected relations %v", services.relationCreates)
	}
	if len(services.fieldCreates) == 0 {
		t.Fatal("expected field creates")
	}

	// Second run must be a no-op.
	creates := len(services.collectionCreates)
	fields := len(services.fieldCreates)
	relations := len(services.relationCreates)
	if err := p.Ensure(ctx); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if len(services.collectionCreates) != creates || len(services.fieldCreates) != fields || len(services.relationCreates) != relations {
		t.Fatal("second run must not create anything")
	}
}

func TestEnsurePatchFields(t *testing.T) {
	services := newRecordingServices()
	p := newTestProvisioner(t, services, WithPatchFields(true))
	ctx := context.Background()

	if err := p.Ensure(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if len(services.fieldUpdates) != 0 {
		t.Fatalf("first run must only create, got updates %v", services.fieldUpdates)
	}

	if err := p.Ensure(ctx); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if len(services.fieldUpdates) != len(services.fieldCreates) {
		t.Fatalf("patch mode must update every existing field, got %d updates for %d fields",
			len(services.fieldUpdates), len(services.fieldCreates))
	}
}

func TestEnsureUnresolvedGroup(t *testing.T) {
	services := newRecordingServices()
	p := newTestProvisioner(t, services, WithDefinition(&Definition{
		Collections: []CollectionDefinition{
			{Collection: "orphan", Group: "missing_parent"},
		},
	}))

	err := p.Ensure(context.Background())
	if !errors.Is(err, ErrGroupUnresolved) {
		t.Fatalf("expected ErrGroupUnresolved, got %v", err)
	}
}

func TestEnsureDeferredGroupOrdering(t *testing.T) {
	services := newRecordingServices()
	p := newTestProvisioner(t, services, WithDefinition(&Definition{
		Collections: []CollectionDefinition{
			{Collection: "child", Group: "parent"},
			{Collection: "parent"},
		},
	}))

	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if services.collectionCreates[0] != "parent" || services.collectionCreates[1] != "child" {
		t.Fatalf("expected parent before child, got %v", services.collectionCreates)
	}
}

func TestEnsureFeatureGate(t *testing.T) {
	services := newRecordingServices()
	p := newTestProvisioner(t, services, WithEnabled(false))

	if err := p.Ensure(context.Background()); !errors.Is(err, ErrFeatureDisabled) {
		t.Fatalf("expected ErrFeatureDisabled, got %v", err)
	}
}

func TestLoadDefinition(t *testing.T) {
	def, err := LoadDefinition()
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	if len(def.Collections) != 3 {
		t.Fatalf("expected three collections, got %d", len(def.Collections))
	}
	if def.Collections[0].Collection != "inframe" {
		t.Fatalf("unexpected first collection %q", def.Collections[0].Collection)
	}
}

func TestParseDefinitionRejectsInvalidDocument(t *testing.T) {
	cases := []string{
		`{}`,
		`{"collections":[]}`,
		`{"collections":[{"group":"inframe"}]}`,
		`{"collections":[{"collection":"x","fields":[{"field":"y"}]}]}`,
		`not json`,
	}
	for _, raw := range cases {
		if _, err := ParseDefinition([]byte(raw)); !errors.Is(err, ErrDefinitionInvalid) {
			t.Fatalf("expected ErrDefinitionInvalid for %q, got %v", raw, err)
		}
	}
}
