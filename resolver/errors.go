package resolver

import (
	"errors"
	"strings"
)

// ErrSecurityPolicy is the sentinel wrapped by every SecurityError so callers
// can branch with errors.Is without inspecting messages.
var ErrSecurityPolicy = errors.New("resolver: url violates security policy")

// ErrFeatureDisabled indicates the resolver feature flag is off.
var ErrFeatureDisabled = errors.New("resolver: feature disabled")

// SecurityError is returned by ProcessURL when a template URL fails security
// validation. It carries the individual validation messages so the embedding
// page can show them to the user.
type SecurityError struct {
	Errors []string
}

func (e *SecurityError) Error() string {
	return "SECURITY ERROR: " + strings.Join(e.Errors, "; ")
}

func (e *SecurityError) Unwrap() error {
	return ErrSecurityPolicy
}
