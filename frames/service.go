package frames

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes the frames collection to external consumers.
type Service interface {
	Create(ctx context.Context, input CreateFrameInput) (*Frame, error)
	Update(ctx context.Context, input UpdateFrameInput) (*Frame, error)
	Get(ctx context.Context, id uuid.UUID) (*Frame, error)
	GetBySlug(ctx context.Context, slug string) (*Frame, error)
	List(ctx context.Context, opts ListOptions) ([]*Frame, error)
	Delete(ctx context.Context, req DeleteFrameRequest) error

	SetTranslation(ctx context.Context, input SetTranslationInput) (*Translation, error)

	// Attributes builds the iframe attribute set for a stored frame and logs
	// any sandbox security advisories. Rendering is never blocked.
	Attributes(ctx context.Context, id uuid.UUID) (IframeAttributes, error)

	// DisplayTitle picks the localized title for a frame, falling back to the
	// configured default when no translation matches the locale.
	DisplayTitle(frame *Frame, locale string) string
}

// CreateFrameInput captures the payload to register a frame.
type CreateFrameInput struct {
	Slug            string
	URL             string
	Status          Status
	Sort            int
	Icon            *string
	Thumbnail       *string
	SandboxTokens   []string
	AllowDirectives []string
	Loading         *LoadingMode
	ReferrerPolicy  *ReferrerPolicy
	AllowFullscreen *bool
	Credentialless  *bool
	FrameName       *string
	FrameTitle      *string
	CSP             *string
	Translations    []TranslationInput
}

// TranslationInput is a locale/title pair supplied alongside a frame.
type TranslationInput struct {
	LocaleCode string
	Title      string
}

// UpdateFrameInput defines the mutable fields of a frame. Nil pointers leave
// the stored value untouched.
type UpdateFrameInput struct {
	ID              uuid.UUID
	URL             *string
	Status          *Status
	Sort            *int
	Icon            *string
	Thumbnail       *string
	SandboxTokens   []string
	AllowDirectives []string
	Loading         *LoadingMode
	ReferrerPolicy  *ReferrerPolicy
	AllowFullscreen *bool
	Credentialless  *bool
	FrameName       *string
	FrameTitle      *string
	CSP             *string
}

// DeleteFrameRequest removes a frame and its translations.
type DeleteFrameRequest struct {
	ID uuid.UUID
}

// ListOptions filters and localizes a frame listing. Results are always
// ordered by Sort ascending.
type ListOptions struct {
	// Locale restricts returned translations to a single locale code. Empty
	// keeps every translation.
	Locale string
	// Status filters by publication status. Empty returns all statuses.
	Status Status
}

// SetTranslationInput adds or replaces the title for a locale.
type SetTranslationInput struct {
	FrameID    uuid.UUID
	LocaleCode string
	Title      string
}
