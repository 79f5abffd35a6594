// Package frames implements storage and orchestration for the frames
// collection: embeddable URLs plus their iframe sandbox configuration and
// localized titles.
package frames

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/devix-tecnologia/go-inframe/frames"
)

// FrameRepository abstracts storage operations for frames.
type FrameRepository interface {
	Create(ctx context.Context, record *frames.Frame) (*frames.Frame, error)
	GetByID(ctx context.Context, id uuid.UUID) (*frames.Frame, error)
	GetBySlug(ctx context.Context, slug string) (*frames.Frame, error)
	List(ctx context.Context, status frames.Status) ([]*frames.Frame, error)
	Update(ctx context.Context, record *frames.Frame) (*frames.Frame, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TranslationRepository abstracts storage operations for frame translations.
type TranslationRepository interface {
	Create(ctx context.Context, record *frames.Translation) (*frames.Translation, error)
	GetByFrameAndLocale(ctx context.Context, frameID uuid.UUID, localeCode string) (*frames.Translation, error)
	ListByFrame(ctx context.Context, frameID uuid.UUID) ([]*frames.Translation, error)
	Update(ctx context.Context, record *frames.Translation) (*frames.Translation, error)
	DeleteByFrame(ctx context.Context, frameID uuid.UUID) error
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewFrameModelRepository(db *bun.DB) repository.Repository[*frames.Frame] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*frames.Frame]{
		NewRecord: func() *frames.Frame { return &frames.Frame{} },
		GetID: func(f *frames.Frame) uuid.UUID {
			return f.ID
		},
		SetID: func(f *frames.Frame, id uuid.UUID) {
			f.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(f *frames.Frame) string {
			return f.Slug
		},
	})
}

func NewTranslationModelRepository(db *bun.DB) repository.Repository[*frames.Translation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*frames.Translation]{
		NewRecord: func() *frames.Translation { return &frames.Translation{} },
		GetID: func(t *frames.Translation) uuid.UUID {
			return t.ID
		},
		SetID: func(t *frames.Translation, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *frames.Translation) string {
			if t == nil {
				return ""
			}
			return t.ID.String()
		},
	})
}
