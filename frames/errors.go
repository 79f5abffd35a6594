package frames

import "errors"

var (
	ErrFeatureDisabled = errors.New("frames: feature disabled")

	ErrFrameIDRequired      = errors.New("frames: frame id required")
	ErrFrameURLRequired     = errors.New("frames: url required")
	ErrFrameURLInvalid      = errors.New("frames: url must be absolute http(s)")
	ErrFrameSlugRequired    = errors.New("frames: slug required")
	ErrFrameSlugInvalid     = errors.New("frames: slug contains invalid characters")
	ErrFrameExists          = errors.New("frames: slug already exists")
	ErrFrameStatusInvalid   = errors.New("frames: status must be draft, published, or archived")
	ErrFrameSortInvalid     = errors.New("frames: sort cannot be negative")
	ErrFrameLoadingInvalid  = errors.New("frames: loading must be eager or lazy")
	ErrFrameReferrerInvalid = errors.New("frames: referrerpolicy is not a valid policy")

	ErrTranslationLocaleRequired = errors.New("frames: translation locale required")
	ErrTranslationTitleRequired  = errors.New("frames: translation title required")
)
