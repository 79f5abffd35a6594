package frames

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devix-tecnologia/go-inframe/frames"
	"github.com/devix-tecnologia/go-inframe/internal/logging"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

// DefaultFrameTitle is used when a frame has no translation for the
// requested locale.
const DefaultFrameTitle = "Item inFrame"

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger sets the logger used for sandbox security advisories.
func WithLogger(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		s.logger = logging.FramesLogger(provider)
	}
}

// WithDefaultTitle overrides the fallback display title.
func WithDefaultTitle(title string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(title) != "" {
			s.defaultTitle = title
		}
	}
}

// WithEnabled toggles the frames feature gate.
func WithEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.enabled = enabled
	}
}

// service implements frames.Service.
type service struct {
	repo         FrameRepository
	translations TranslationRepository
	logger       interfaces.Logger
	now          func() time.Time
	defaultTitle string
	enabled      bool
}

// NewService constructs a frames service with the required dependencies.
func NewService(repo FrameRepository, translations TranslationRepository, opts ...ServiceOption) frames.Service {
	s := &service{
		repo:         repo,
		translations: translations,
		logger:       logging.NoOp(),
		now:          time.Now,
		defaultTitle: DefaultFrameTitle,
		enabled:      true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create registers a new frame with its translations.
func (s *service) Create(ctx context.Context, input frames.CreateFrameInput) (*frames.Frame, error) {
	if !s.enabled {
		return nil, frames.ErrFeatureDisabled
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return nil, frames.ErrFrameSlugRequired
	}
	if normalized, err := frames.NormalizeSlug(slug); err == nil && normalized != "" {
		slug = normalized
	}
	if !frames.IsValidSlug(slug) {
		return nil, frames.ErrFrameSlugInvalid
	}

	if err := validateTargetURL(input.URL); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = frames.StatusDraft
	}
	if !validStatus(status) {
		return nil, frames.ErrFrameStatusInvalid
	}
	if input.Sort < 0 {
		return nil, frames.ErrFrameSortInvalid
	}
	if err := validateIframeHints(input.Loading, input.ReferrerPolicy); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, frames.ErrFrameExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	record := &frames.Frame{
		ID:              FrameUUID(slug),
		Slug:            slug,
		Status:          status,
		Sort:            input.Sort,
		Icon:            input.Icon,
		URL:             strings.TrimSpace(input.URL),
		Thumbnail:       input.Thumbnail,
		SandboxTokens:   append([]string(nil), input.SandboxTokens...),
		AllowDirectives: append([]string(nil), input.AllowDirectives...),
		Loading:         input.Loading,
		ReferrerPolicy:  input.ReferrerPolicy,
		AllowFullscreen: input.AllowFullscreen,
		Credentialless:  input.Credentialless,
		FrameName:       input.FrameName,
		FrameTitle:      input.FrameTitle,
		CSP:             input.CSP,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	seenLocales := map[string]struct{}{}
	for _, tr := range input.Translations {
		code := strings.TrimSpace(tr.LocaleCode)
		if code == "" {
			return nil, frames.ErrTranslationLocaleRequired
		}
		if strings.TrimSpace(tr.Title) == "" {
			return nil, frames.ErrTranslationTitleRequired
		}
		key := strings.ToLower(code)
		if _, ok := seenLocales[key]; ok {
			continue
		}
		seenLocales[key] = struct{}{}

		record.Translations = append(record.Translations, &frames.Translation{
			ID:         TranslationUUID(record.ID, code),
			FrameID:    record.ID,
			LocaleCode: code,
			Title:      tr.Title,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	for _, tr := range record.Translations {
		if _, err := s.translations.Create(ctx, tr); err != nil {
			return nil, err
		}
	}
	created.Translations = record.Translations
	return created, nil
}

// Update applies the non-nil fields of the input to the stored frame.
func (s *service) Update(ctx context.Context, input frames.UpdateFrameInput) (*frames.Frame, error) {
	if !s.enabled {
		return nil, frames.ErrFeatureDisabled
	}
	if input.ID == uuid.Nil {
		return nil, frames.ErrFrameIDRequired
	}

	record, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.URL != nil {
		if err := validateTargetURL(*input.URL); err != nil {
			return nil, err
		}
		record.URL = strings.TrimSpace(*input.URL)
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, frames.ErrFrameStatusInvalid
		}
		record.Status = *input.Status
	}
	if input.Sort != nil {
		if *input.Sort < 0 {
			return nil, frames.ErrFrameSortInvalid
		}
		record.Sort = *input.Sort
	}
	if err := validateIframeHints(input.Loading, input.ReferrerPolicy); err != nil {
		return nil, err
	}

	if input.Icon != nil {
		record.Icon = input.Icon
	}
	if input.Thumbnail != nil {
		record.Thumbnail = input.Thumbnail
	}
	if input.SandboxTokens != nil {
		record.SandboxTokens = append([]string(nil), input.SandboxTokens...)
	}
	if input.AllowDirectives != nil {
		record.AllowDirectives = append([]string(nil), input.AllowDirectives...)
	}
	if input.Loading != nil {
		record.Loading = input.Loading
	}
	if input.ReferrerPolicy != nil {
		record.ReferrerPolicy = input.ReferrerPolicy
	}
	if input.AllowFullscreen != nil {
		record.AllowFullscreen = input.AllowFullscreen
	}
	if input.Credentialless != nil {
		record.Credentialless = input.Credentialless
	}
	if input.FrameName != nil {
		record.FrameName = input.FrameName
	}
	if input.FrameTitle != nil {
		record.FrameTitle = input.FrameTitle
	}
	if input.CSP != nil {
		record.CSP = input.CSP
	}

	record.UpdatedAt = s.now()
	return s.repo.Update(ctx, record)
}

// Get fetches a frame by identifier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*frames.Frame, error) {
	if !s.enabled {
		return nil, frames.ErrFeatureDisabled
	}
	if id == uuid.Nil {
		return nil, frames.ErrFrameIDRequired
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withTranslations(ctx, record), nil
}

// GetBySlug fetches a frame by slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*frames.Frame, error) {
	if !s.enabled {
		return nil, frames.ErrFeatureDisabled
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, frames.ErrFrameSlugRequired
	}
	record, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.withTranslations(ctx, record), nil
}

// List returns frames ordered by sort, filtered and localized per opts.
func (s *service) List(ctx context.Context, opts frames.ListOptions) ([]*frames.Frame, error) {
	if !s.enabled {
		return nil, frames.ErrFeatureDisabled
	}
	if opts.Status != "" && !validStatus(opts.Status) {
		return nil, frames.ErrFrameStatusInvalid
	}

	records, err := s.repo.List(ctx, opts.Status)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		s.withTranslations(ctx, record)
		if opts.Locale != "" {
			filtered := record.Translations[:0]
			for _, tr := range record.Translations {
				if strings.EqualFold(tr.LocaleCode, opts.Locale) {
					filtered = append(filtered, tr)
				}
			}
			record.Translations = filtered
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Sort != records[j].Sort {
			return records[i].Sort < records[j].Sort
		}
		return records[i].Slug < records[j].Slug
	})
	return records, nil
}

// Delete removes a frame and its translations.
func (s *service) Delete(ctx context.Context, req frames.DeleteFrameRequest) error {
	if !s.enabled {
		return frames.ErrFeatureDisabled
	}
	if req.ID == uuid.Nil {
		return frames.ErrFrameIDRequired
	}

	if _, err := s.repo.GetByID(ctx, req.ID); err != nil {
		return err
	}
	if err := s.translations.DeleteByFrame(ctx, req.ID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, req.ID)
}

// SetTranslation adds or replaces the title for a frame/locale pair.
func (s *service) SetTranslation(ctx context.Context, input frames.SetTranslationInput) (*frames.Translation, error) {
	if !s.enabled {
		return nil, frames.ErrFeatureDisabled
	}
	if input.FrameID == uuid.Nil {
		return nil, frames.ErrFrameIDRequired
	}
	code := strings.TrimSpace(input.LocaleCode)
	if code == "" {
		return nil, frames.ErrTranslationLocaleRequired
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, frames.ErrTranslationTitleRequired
	}

	if _, err := s.repo.GetByID(ctx, input.FrameID); err != nil {
		return nil, err
	}

	now := s.now()
	existing, err := s.translations.GetByFrameAndLocale(ctx, input.FrameID, code)
	if err == nil {
		existing.Title = input.Title
		existing.UpdatedAt = now
		return s.translations.Update(ctx, existing)
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	return s.translations.Create(ctx, &frames.Translation{
		ID:         TranslationUUID(input.FrameID, code),
		FrameID:    input.FrameID,
		LocaleCode: code,
		Title:      input.Title,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Attributes builds the iframe attribute set for a stored frame. Sandbox
// security findings are logged but never block the build.
func (s *service) Attributes(ctx context.Context, id uuid.UUID) (frames.IframeAttributes, error) {
	if !s.enabled {
		return frames.IframeAttributes{}, frames.ErrFeatureDisabled
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return frames.IframeAttributes{}, err
	}

	tokens := frames.ParseSandboxTokens(record.SandboxTokens)
	result := frames.ValidateSandboxSecurity(tokens, record.URL)
	for _, warning := range result.Warnings {
		s.logger.Warn("sandbox security advisory", "frame", record.Slug, "warning", warning)
	}

	return frames.BuildIframeAttributes(record), nil
}

// DisplayTitle picks the localized title, falling back to the configured
// default when no translation matches.
func (s *service) DisplayTitle(frame *frames.Frame, locale string) string {
	if frame == nil {
		return s.defaultTitle
	}
	for _, tr := range frame.Translations {
		if tr == nil {
			continue
		}
		if strings.EqualFold(tr.LocaleCode, locale) && strings.TrimSpace(tr.Title) != "" {
			return tr.Title
		}
	}
	if frame.FrameTitle != nil && strings.TrimSpace(*frame.FrameTitle) != "" {
		return *frame.FrameTitle
	}
	return s.defaultTitle
}

func (s *service) withTranslations(ctx context.Context, record *frames.Frame) *frames.Frame {
	if record == nil || len(record.Translations) > 0 {
		return record
	}
	translations, err := s.translations.ListByFrame(ctx, record.ID)
	if err != nil {
		s.logger.Warn("loading frame translations failed", "frame", record.Slug, "error", err)
		return record
	}
	record.Translations = translations
	return record
}

func validateTargetURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return frames.ErrFrameURLRequired
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return frames.ErrFrameURLInvalid
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return frames.ErrFrameURLInvalid
	}
	return nil
}

func validStatus(status frames.Status) bool {
	switch status {
	case frames.StatusDraft, frames.StatusPublished, frames.StatusArchived:
		return true
	}
	return false
}

func validateIframeHints(loading *frames.LoadingMode, policy *frames.ReferrerPolicy) error {
	if loading != nil {
		switch *loading {
		case frames.LoadingEager, frames.LoadingLazy:
		default:
			return frames.ErrFrameLoadingInvalid
		}
	}
	if policy != nil {
		switch *policy {
		case frames.ReferrerNoReferrer,
			frames.ReferrerNoReferrerWhenDowngrade,
			frames.ReferrerOrigin,
			frames.ReferrerOriginWhenCrossOrigin,
			frames.ReferrerSameOrigin,
			frames.ReferrerStrictOrigin,
			frames.ReferrerStrictOriginWhenCrossOrigin,
			frames.ReferrerUnsafeURL:
		default:
			return frames.ErrFrameReferrerInvalid
		}
	}
	return nil
}
