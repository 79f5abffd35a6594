package frames

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status mirrors the publication workflow of the host platform.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// LoadingMode is the iframe loading hint.
type LoadingMode string

const (
	LoadingEager LoadingMode = "eager"
	LoadingLazy  LoadingMode = "lazy"
)

// ReferrerPolicy enumerates the referrerpolicy attribute values accepted by
// browsers for iframes.
type ReferrerPolicy string

const (
	ReferrerNoReferrer                  ReferrerPolicy = "no-referrer"
	ReferrerNoReferrerWhenDowngrade     ReferrerPolicy = "no-referrer-when-downgrade"
	ReferrerOrigin                      ReferrerPolicy = "origin"
	ReferrerOriginWhenCrossOrigin       ReferrerPolicy = "origin-when-cross-origin"
	ReferrerSameOrigin                  ReferrerPolicy = "same-origin"
	ReferrerStrictOrigin                ReferrerPolicy = "strict-origin"
	ReferrerStrictOriginWhenCrossOrigin ReferrerPolicy = "strict-origin-when-cross-origin"
	ReferrerUnsafeURL                   ReferrerPolicy = "unsafe-url"
)

// Frame is a single embeddable target: a (possibly templated) URL plus the
// sandbox/permission configuration used to render its iframe.
type Frame struct {
	bun.BaseModel `bun:"table:inframe_frames,alias:f"`

	ID        uuid.UUID `bun:",pk,type:uuid"                    json:"id"`
	Slug      string    `bun:"slug,notnull"                     json:"slug"`
	Status    Status    `bun:"status,notnull,default:'draft'"   json:"status"`
	Sort      int       `bun:"sort,notnull,default:0"           json:"sort"`
	Icon      *string   `bun:"icon"                             json:"icon,omitempty"`
	URL       string    `bun:"url,notnull"                      json:"url"`
	Thumbnail *string   `bun:"thumbnail"                        json:"thumbnail,omitempty"`

	// Iframe configuration. Sandbox tokens and allow directives are stored
	// as entered; parsing/validation happens when attributes are built.
	SandboxTokens   []string        `bun:"sandbox_tokens,type:jsonb"   json:"sandbox_tokens,omitempty"`
	AllowDirectives []string        `bun:"allow_directives,type:jsonb" json:"allow_directives,omitempty"`
	Loading         *LoadingMode    `bun:"loading"                     json:"loading,omitempty"`
	ReferrerPolicy  *ReferrerPolicy `bun:"referrerpolicy"              json:"referrerpolicy,omitempty"`
	AllowFullscreen *bool           `bun:"allowfullscreen"             json:"allowfullscreen,omitempty"`
	Credentialless  *bool           `bun:"credentialless"              json:"credentialless,omitempty"`
	FrameName       *string         `bun:"iframe_name"                 json:"iframe_name,omitempty"`
	FrameTitle      *string         `bun:"iframe_title"                json:"iframe_title,omitempty"`
	CSP             *string         `bun:"csp"                         json:"csp,omitempty"`

	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at,nullzero"                           json:"deleted_at,omitempty"`

	Translations []*Translation `bun:"rel:has-many,join:id=frame_id" json:"translations,omitempty"`
}

// Translation carries the localized title for a frame.
type Translation struct {
	bun.BaseModel `bun:"table:inframe_frame_translations,alias:ft"`

	ID         uuid.UUID `bun:",pk,type:uuid"         json:"id"`
	FrameID    uuid.UUID `bun:"frame_id,notnull,type:uuid" json:"frame_id"`
	LocaleCode string    `bun:"locale_code,notnull"   json:"locale_code"`
	Title      string    `bun:"title,notnull"         json:"title"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
