package identity

import (
	"context"

	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

// StaticIdentityProvider serves a fixed user. Useful for tests and for
// embedding scenarios where the user is resolved upstream.
type StaticIdentityProvider struct {
	User *interfaces.UserIdentity
}

func (p *StaticIdentityProvider) CurrentUser(context.Context) (*interfaces.UserIdentity, error) {
	if p == nil || p.User == nil {
		return nil, nil
	}
	clone := *p.User
	return &clone, nil
}

// StaticTokenProvider serves a fixed token.
type StaticTokenProvider struct {
	Token string
}

func (p *StaticTokenProvider) AccessToken(context.Context) (string, error) {
	if p == nil {
		return "", nil
	}
	return p.Token, nil
}

// AccountabilityTokenProvider derives the token from the request-scoped
// accountability context instead of calling the host.
type AccountabilityTokenProvider struct {
	Resolver interfaces.AccountabilityResolver
}

func (p *AccountabilityTokenProvider) AccessToken(ctx context.Context) (string, error) {
	if p == nil || p.Resolver == nil {
		return "", nil
	}
	acc, err := p.Resolver.Resolve(ctx)
	if err != nil {
		return "", err
	}
	if acc == nil {
		return "", nil
	}
	return acc.Token, nil
}
