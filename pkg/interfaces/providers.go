package interfaces

import "context"

// UserIdentity is the subset of the host platform's current-user record the
// URL resolver substitutes into template URLs. Missing fields normalize to
// empty strings except Language, which defaults to "en-US".
type UserIdentity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Language  string `json:"language"`
}

// IdentityProvider resolves the identity bound to the current session. A nil
// identity with a nil error is not a valid result; providers must return an
// error when the lookup fails so callers can degrade explicitly.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*UserIdentity, error)
}

// TokenProvider resolves the session access token for the current request.
// Implementations back onto the host's token endpoint; they must never invent
// a token. An empty string with nil error means no token is available.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Accountability carries the authenticated subject attached to an inbound
// host request. The token endpoint echoes Token back to authenticated
// callers; both fields empty means the request is anonymous.
type Accountability struct {
	UserID string
	Token  string
}

// AccountabilityResolver extracts the accountability context from a request
// scoped context. Hosts install their own resolver so the token endpoint can
// honour whatever auth middleware the platform uses.
type AccountabilityResolver interface {
	Resolve(ctx context.Context) (*Accountability, error)
}
