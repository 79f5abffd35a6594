package frames

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/devix-tecnologia/go-inframe/frames"
)

// MemoryFrameRepository is an in-memory implementation for scaffolding and tests.
type MemoryFrameRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*frames.Frame
	slugIndex map[string]uuid.UUID
}

// NewMemoryFrameRepository creates an empty in-memory frame repository.
func NewMemoryFrameRepository() *MemoryFrameRepository {
	return &MemoryFrameRepository{
		records:   make(map[uuid.UUID]*frames.Frame),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied frame.
func (m *MemoryFrameRepository) Create(_ context.Context, record *frames.Frame) (*frames.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneFrame(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneFrame(copied), nil
}

// GetByID retrieves a frame by identifier.
func (m *MemoryFrameRepository) GetByID(_ context.Context, id uuid.UUID) (*frames.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "frame", Key: id.String()}
	}
	return cloneFrame(rec), nil
}

// GetBySlug retrieves a frame by slug, returning NotFoundError when absent.
func (m *MemoryFrameRepository) GetBySlug(_ context.Context, slug string) (*frames.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "frame", Key: slug}
	}
	return cloneFrame(m.records[id]), nil
}

// List returns frames ordered by sort, optionally filtered by status.
func (m *MemoryFrameRepository) List(_ context.Context, status frames.Status) ([]*frames.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*frames.Frame, 0, len(m.records))
	for _, rec := range m.records {
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, cloneFrame(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sort != out[j].Sort {
			return out[i].Sort < out[j].Sort
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

// Update replaces the stored frame.
func (m *MemoryFrameRepository) Update(_ context.Context, record *frames.Frame) (*frames.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "frame", Key: record.ID.String()}
	}
	delete(m.slugIndex, existing.Slug)

	copied := cloneFrame(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneFrame(copied), nil
}

// Delete removes the frame. Missing records are not an error.
func (m *MemoryFrameRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec, ok := m.records[id]; ok {
		delete(m.slugIndex, rec.Slug)
		delete(m.records, id)
	}
	return nil
}

// MemoryTranslationRepository stores frame translations in-memory.
type MemoryTranslationRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*frames.Translation
}

// NewMemoryTranslationRepository constructs the repository.
func NewMemoryTranslationRepository() *MemoryTranslationRepository {
	return &MemoryTranslationRepository{
		records: make(map[uuid.UUID]*frames.Translation),
	}
}

// Create inserts the supplied translation.
func (m *MemoryTranslationRepository) Create(_ context.Context, record *frames.Translation) (*frames.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	m.records[copied.ID] = &copied
	out := copied
	return &out, nil
}

// GetByFrameAndLocale fetches the translation for a frame/locale pair.
func (m *MemoryTranslationRepository) GetByFrameAndLocale(_ context.Context, frameID uuid.UUID, localeCode string) (*frames.Translation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.FrameID == frameID && strings.EqualFold(rec.LocaleCode, localeCode) {
			out := *rec
			return &out, nil
		}
	}
	return nil, &NotFoundError{Resource: "frame_translation", Key: frameID.String() + ":" + localeCode}
}

// ListByFrame returns the translations for a frame ordered by locale code.
func (m *MemoryTranslationRepository) ListByFrame(_ context.Context, frameID uuid.UUID) ([]*frames.Translation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*frames.Translation, 0)
	for _, rec := range m.records {
		if rec.FrameID != frameID {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LocaleCode < out[j].LocaleCode
	})
	return out, nil
}

// Update replaces the stored translation.
func (m *MemoryTranslationRepository) Update(_ context.Context, record *frames.Translation) (*frames.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "frame_translation", Key: record.ID.String()}
	}
	copied := *record
	m.records[copied.ID] = &copied
	out := copied
	return &out, nil
}

// DeleteByFrame removes every translation belonging to the frame.
func (m *MemoryTranslationRepository) DeleteByFrame(_ context.Context, frameID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, rec := range m.records {
		if rec.FrameID == frameID {
			delete(m.records, id)
		}
	}
	return nil
}

func cloneFrame(src *frames.Frame) *frames.Frame {
	if src == nil {
		return nil
	}

	copied := *src
	copied.SandboxTokens = append([]string(nil), src.SandboxTokens...)
	copied.AllowDirectives = append([]string(nil), src.AllowDirectives...)
	if len(src.Translations) > 0 {
		copied.Translations = make([]*frames.Translation, len(src.Translations))
		for i, tr := range src.Translations {
			if tr == nil {
				continue
			}
			local := *tr
			copied.Translations[i] = &local
		}
	}
	return &copied
}
