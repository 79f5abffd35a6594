// Package http exposes the module's REST surface: frame CRUD, URL
// resolution, and the session token endpoint used by clients that cannot
// read HTTP-only cookies.
package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/devix-tecnologia/go-inframe/frames"
	"github.com/devix-tecnologia/go-inframe/internal/logging"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
	"github.com/devix-tecnologia/go-inframe/resolver"
)

// AccountabilityFunc derives the caller's accountability from the request.
// Returning nil means the request is unauthenticated.
type AccountabilityFunc func(*http.Request) (*interfaces.Accountability, error)

// BearerAccountability reads the token from the Authorization header. The
// host platform normally injects richer session context; this is the
// standalone fallback.
func BearerAccountability(r *http.Request) (*interfaces.Accountability, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return nil, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, nil
	}
	return &interfaces.Accountability{Token: strings.TrimSpace(token)}, nil
}

// API registers the module's HTTP endpoints.
type API struct {
	basePath       string
	frames         frames.Service
	resolver       resolver.Service
	accountability AccountabilityFunc
	defaultLocale  string
	logger         interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// WithBasePath overrides the base API path (defaults to "/inframe").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithFramesService wires the frames service.
func WithFramesService(service frames.Service) Option {
	return func(api *API) {
		api.frames = service
	}
}

// WithResolverService wires the URL variable resolver.
func WithResolverService(service resolver.Service) Option {
	return func(api *API) {
		api.resolver = service
	}
}

// WithAccountability sets how the token endpoint derives the caller's
// session.
func WithAccountability(fn AccountabilityFunc) Option {
	return func(api *API) {
		if fn != nil {
			api.accountability = fn
		}
	}
}

// WithDefaultLocale sets the locale used when a request does not specify one.
func WithDefaultLocale(locale string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			api.defaultLocale = trimmed
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(api *API) {
		api.logger = logging.HTTPLogger(provider)
	}
}

// NewAPI constructs the API.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath:       "/inframe",
		accountability: BearerAccountability,
		defaultLocale:  "en-US",
		logger:         logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register wires the endpoints into the mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerFrameRoutes(mux, base)
	api.registerTokenRoutes(mux, base)

	return nil
}
