// Package inframe embeds third-party pages into a headless CMS host. It
// manages a collection of frame targets, expands $variable placeholders in
// their URLs with the current user and session token, and builds the iframe
// sandbox and Permissions-Policy attributes used to render them safely.
package inframe

import (
	"context"

	"github.com/devix-tecnologia/go-inframe/frames"
	"github.com/devix-tecnologia/go-inframe/internal/di"
	inhttp "github.com/devix-tecnologia/go-inframe/internal/http"
	"github.com/devix-tecnologia/go-inframe/internal/provision"
	"github.com/devix-tecnologia/go-inframe/resolver"
)

// FrameService exports the frames service contract for consumers of the
// inframe package.
type FrameService = frames.Service

// ResolverService exports the URL variable resolver contract.
type ResolverService = resolver.Service

// Provisioner exports the schema provisioner type.
type Provisioner = provision.Provisioner

// API exports the HTTP adapter type.
type API = inhttp.API

// Module represents the top level inFrame runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an inFrame module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Frames returns the configured frames service.
func (m *Module) Frames() FrameService {
	return m.container.FramesService()
}

// Resolver returns the configured URL variable resolver.
func (m *Module) Resolver() ResolverService {
	return m.container.ResolverService()
}

// Provisioner returns the schema provisioner, or nil when the provisioning
// feature is disabled.
func (m *Module) Provisioner() *Provisioner {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Provisioner()
}

// API returns the HTTP adapter, or nil when the HTTP feature is disabled.
func (m *Module) API() *API {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.API()
}

// Provision reconciles the host's collection registry with the module's
// schema. It is a no-op error when the provisioning feature is disabled.
func (m *Module) Provision(ctx context.Context) error {
	provisioner := m.Provisioner()
	if provisioner == nil {
		return provision.ErrFeatureDisabled
	}
	return provisioner.Ensure(ctx)
}
