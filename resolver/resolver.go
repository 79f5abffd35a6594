// Package resolver defines the contract for expanding $variable placeholders
// inside frame target URLs. Implementations substitute identity, token, and
// timestamp values fetched from the host platform, and refuse to embed a
// session token into a URL that is not served over HTTPS.
package resolver

import (
	"context"

	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

// SecurityValidationResult reports the outcome of checking a template URL
// before substitution. Errors block resolution; warnings are advisory.
type SecurityValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Service resolves template URLs into concrete URLs.
type Service interface {
	// ProcessURL validates rawURL, fetches the current user and (when the
	// URL references $token) the session token, and returns the URL with
	// all recognized placeholders substituted. An empty input returns an
	// empty string. A security validation failure returns a *SecurityError
	// and the caller must not render the frame.
	ProcessURL(ctx context.Context, rawURL string) (string, error)

	// ValidateURLSecurity checks rawURL for token placeholders over a
	// non-HTTPS scheme. Pure function of its input.
	ValidateURLSecurity(rawURL string) SecurityValidationResult

	// ReplaceVariables performs the textual substitution. A nil user leaves
	// user-scoped placeholders literal; token is substituted as-is, even
	// when empty. All values are URL-component encoded.
	ReplaceVariables(rawURL string, user *interfaces.UserIdentity, token string) string

	// CurrentUser fetches the authenticated user from the identity
	// provider. Fetch failures are logged and reported as nil.
	CurrentUser(ctx context.Context) *interfaces.UserIdentity

	// AccessToken fetches the session token from the token provider.
	// Fetch failures are logged and reported as an empty string.
	AccessToken(ctx context.Context) string
}
