// Package resolver implements dynamic URL variable substitution. It expands
// $variable placeholders inside frame target URLs using the current user
// identity, the session access token, and the resolution timestamp, after
// enforcing the HTTPS-only rule for token-bearing URLs.
package resolver

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devix-tecnologia/go-inframe/internal/logging"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
	"github.com/devix-tecnologia/go-inframe/resolver"
)

const defaultLocale = "en-US"

// placeholderPattern matches any candidate $variable token. It gates the fast
// path: URLs without a match skip identity and token fetches entirely.
var placeholderPattern = regexp.MustCompile(`\$\w+`)

var tokenSchemeWarnings = []string{
	"embedding the access token in a URL exposes it in server logs, browser history, and referrer headers",
	"restrict token-bearing URLs to trusted origins, or route the request through a backend proxy instead",
}

// Service resolves template URLs. Every call fetches fresh identity and token
// values; nothing is cached between calls so the result always reflects the
// current session.
type Service struct {
	identity interfaces.IdentityProvider
	tokens   interfaces.TokenProvider
	logger   interfaces.Logger
	now      func() time.Time
}

// Option configures the resolver service.
type Option func(*Service)

// WithLogger sets the logger used for warnings and fetch failures.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(s *Service) {
		s.logger = logging.ResolverLogger(provider)
	}
}

// WithClock overrides the time source used for $timestamp substitution.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a resolver backed by the given providers. Both may be
// nil, in which case the corresponding placeholders degrade to the null-user
// and empty-token paths.
func NewService(identity interfaces.IdentityProvider, tokens interfaces.TokenProvider, opts ...Option) *Service {
	svc := &Service{
		identity: identity,
		tokens:   tokens,
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ProcessURL orchestrates validation, fetching, and substitution.
func (s *Service) ProcessURL(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", nil
	}

	result := s.ValidateURLSecurity(rawURL)
	for _, warning := range result.Warnings {
		s.logger.Warn("url security advisory", "url", rawURL, "warning", warning)
	}
	if !result.IsValid {
		s.logger.Error("url rejected by security validation", "url", rawURL, "errors", strings.Join(result.Errors, "; "))
		return "", &resolver.SecurityError{Errors: result.Errors}
	}

	if !placeholderPattern.MatchString(rawURL) {
		return rawURL, nil
	}

	user := s.CurrentUser(ctx)

	token := ""
	if strings.Contains(rawURL, "$token") {
		token = s.AccessToken(ctx)
	}

	return s.ReplaceVariables(rawURL, user, token), nil
}

// ValidateURLSecurity enforces the HTTPS-only rule for token-bearing URLs.
// The scheme check looks at the portion before the first "?" so a $token in
// the query string cannot smuggle an https:// substring past the check.
func (s *Service) ValidateURLSecurity(rawURL string) resolver.SecurityValidationResult {
	result := resolver.SecurityValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	hasToken := strings.Contains(rawURL, "$token") || strings.Contains(rawURL, "$refresh_token")
	if !hasToken {
		return result
	}

	head, _, _ := strings.Cut(rawURL, "?")
	if !strings.HasPrefix(head, "https://") {
		result.IsValid = false
		result.Errors = append(result.Errors,
			"URLs containing $token or $refresh_token must use the HTTPS scheme")
	}

	result.Warnings = append(result.Warnings, tokenSchemeWarnings...)
	return result
}

// ReplaceVariables performs the textual substitution. Unrecognized $word
// tokens are left untouched. When user is nil only $token and $timestamp are
// substituted.
func (s *Service) ReplaceVariables(rawURL string, user *interfaces.UserIdentity, token string) string {
	replacements := make([][2]string, 0, 10)
	replacements = append(replacements, [2]string{"$token", token})

	if user != nil {
		locale := user.Language
		if locale == "" {
			locale = defaultLocale
		}
		replacements = append(replacements,
			[2]string{"$user_first_name", user.FirstName},
			[2]string{"$user_last_name", user.LastName},
			[2]string{"$user_name", strings.TrimSpace(user.FirstName + " " + user.LastName)},
			[2]string{"$user_email", user.Email},
			[2]string{"$user_role", user.Role},
			[2]string{"$user_id", user.ID},
			[2]string{"$locale", locale},
		)
	}

	replacements = append(replacements,
		[2]string{"$timestamp", s.now().UTC().Format(time.RFC3339)})

	out := rawURL
	for _, pair := range replacements {
		if !strings.Contains(out, pair[0]) {
			continue
		}
		out = strings.ReplaceAll(out, pair[0], url.QueryEscape(pair[1]))
	}
	return out
}

// CurrentUser fetches the authenticated user. Failures degrade to nil so
// substitution can proceed with token and timestamp values only.
func (s *Service) CurrentUser(ctx context.Context) *interfaces.UserIdentity {
	if s.identity == nil {
		return nil
	}
	user, err := s.identity.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("identity fetch failed, substituting without user data", "error", err)
		return nil
	}
	if user != nil && user.Language == "" {
		user.Language = defaultLocale
	}
	return user
}

// AccessToken fetches the session token. Failures degrade to an empty string,
// which substitutes as an empty query value downstream.
func (s *Service) AccessToken(ctx context.Context) string {
	if s.tokens == nil {
		return ""
	}
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		s.logger.Warn("token fetch failed, substituting empty token", "error", err)
		return ""
	}
	if token != "" {
		if _, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{}); err != nil {
			s.logger.Debug("access token is not a well-formed JWT", "error", err)
		}
	}
	return token
}
