// Package di wires the module's services from configuration. Hosts normally
// interact with the root package façade; the container is exposed for
// integrations that need to swap individual bindings.
package di

import (
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/devix-tecnologia/go-inframe/frames"
	inframes "github.com/devix-tecnologia/go-inframe/internal/frames"
	inhttp "github.com/devix-tecnologia/go-inframe/internal/http"
	"github.com/devix-tecnologia/go-inframe/internal/identity"
	"github.com/devix-tecnologia/go-inframe/internal/logging/console"
	"github.com/devix-tecnologia/go-inframe/internal/logging/gologger"
	"github.com/devix-tecnologia/go-inframe/internal/provision"
	inresolver "github.com/devix-tecnologia/go-inframe/internal/resolver"
	"github.com/devix-tecnologia/go-inframe/internal/runtimeconfig"
	"github.com/devix-tecnologia/go-inframe/internal/storage"
	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
	"github.com/devix-tecnologia/go-inframe/resolver"
)

// ErrBunDBRequired indicates the bun storage provider was selected without a
// database handle.
var ErrBunDBRequired = errors.New("di: bun storage requires a database handle or a storage DSN")

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	logProvider interfaces.LoggerProvider

	frameRepo       inframes.FrameRepository
	translationRepo inframes.TranslationRepository

	routeManager     *urlkit.RouteManager
	requestDecorator identity.RequestDecorator
	identityProvider interfaces.IdentityProvider
	tokenProvider    interfaces.TokenProvider
	accountability   inhttp.AccountabilityFunc

	collectionsSvc provision.CollectionsService
	fieldsSvc      provision.FieldsService
	relationsSvc   provision.RelationsService
	schemaSvc      provision.SchemaService
	registry       *provision.MemoryRegistry

	framesSvc   frames.Service
	resolverSvc resolver.Service
	provisioner *provision.Provisioner
	api         *inhttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies the database handle backing the bun storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.logProvider = provider
	}
}

// WithFrameRepositories overrides the default repository bindings.
func WithFrameRepositories(frameRepo inframes.FrameRepository, translationRepo inframes.TranslationRepository) Option {
	return func(c *Container) {
		c.frameRepo = frameRepo
		c.translationRepo = translationRepo
	}
}

// WithIdentityProvider overrides the current-user lookup binding.
func WithIdentityProvider(provider interfaces.IdentityProvider) Option {
	return func(c *Container) {
		c.identityProvider = provider
	}
}

// WithTokenProvider overrides the session token binding.
func WithTokenProvider(provider interfaces.TokenProvider) Option {
	return func(c *Container) {
		c.tokenProvider = provider
	}
}

// WithRequestDecorator sets the credential decorator used by the host API
// clients built from HostAPI route config.
func WithRequestDecorator(decorator identity.RequestDecorator) Option {
	return func(c *Container) {
		c.requestDecorator = decorator
	}
}

// WithAccountability sets how the HTTP token endpoint derives the caller's
// session.
func WithAccountability(fn inhttp.AccountabilityFunc) Option {
	return func(c *Container) {
		c.accountability = fn
	}
}

// WithProvisionServices overrides the schema-management bindings used by the
// provisioner. Passing nil for a service keeps its default.
func WithProvisionServices(collections provision.CollectionsService, fields provision.FieldsService, relations provision.RelationsService) Option {
	return func(c *Container) {
		if collections != nil {
			c.collectionsSvc = collections
		}
		if fields != nil {
			c.fieldsSvc = fields
		}
		if relations != nil {
			c.relationsSvc = relations
		}
	}
}

// WithSchemaService overrides the storage schema binding for provisioning.
func WithSchemaService(schema provision.SchemaService) Option {
	return func(c *Container) {
		c.schemaSvc = schema
	}
}

// WithFramesService overrides the default frames service binding.
func WithFramesService(svc frames.Service) Option {
	return func(c *Container) {
		c.framesSvc = svc
	}
}

// WithResolverService overrides the default resolver service binding.
func WithResolverService(svc resolver.Service) Option {
	return func(c *Container) {
		c.resolverSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	c.configureHostClients()

	if c.resolverSvc == nil {
		c.resolverSvc = inresolver.NewService(
			c.identityProvider,
			c.tokenProvider,
			inresolver.WithLogger(c.logProvider),
		)
	}

	if c.framesSvc == nil {
		c.framesSvc = inframes.NewService(
			c.frameRepo,
			c.translationRepo,
			inframes.WithLogger(c.logProvider),
			inframes.WithDefaultTitle(cfg.Frames.DefaultTitle),
			inframes.WithEnabled(cfg.Features.Frames),
		)
	}

	if err := c.configureProvisioner(); err != nil {
		return nil, err
	}
	c.configureHTTP()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.logProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch normalized(logCfg.Provider) {
	case "console":
		c.logProvider = console.NewProvider(console.Options{MinLevel: console.ParseLevel(logCfg.Level)})
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.logProvider = provider
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, logCfg.Provider)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cacheCfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	if c.frameRepo != nil && c.translationRepo != nil {
		return nil
	}

	switch normalized(c.Config.Storage.Provider) {
	case "bun":
		if c.bunDB == nil && strings.TrimSpace(c.Config.Storage.DSN) != "" {
			db, err := storage.Open(c.Config.Storage.Driver, c.Config.Storage.DSN)
			if err != nil {
				return err
			}
			c.bunDB = db
		}
		if c.bunDB == nil {
			return ErrBunDBRequired
		}
		if c.frameRepo == nil {
			c.frameRepo = inframes.NewBunFrameRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.translationRepo == nil {
			c.translationRepo = inframes.NewBunTranslationRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
	default:
		if c.frameRepo == nil {
			c.frameRepo = inframes.NewMemoryFrameRepository()
		}
		if c.translationRepo == nil {
			c.translationRepo = inframes.NewMemoryTranslationRepository()
		}
	}
	return nil
}

func (c *Container) configureHostClients() {
	if c.identityProvider != nil && c.tokenProvider != nil {
		return
	}

	hostCfg := c.Config.HostAPI
	if hostCfg.RouteConfig == nil {
		return
	}

	c.routeManager = urlkit.NewRouteManager(hostCfg.RouteConfig)

	clientOpts := []identity.ClientOption{
		identity.WithRoutes(hostCfg.CurrentUserRoute, hostCfg.TokenRoute),
		identity.WithLogger(c.logProvider),
	}
	if c.requestDecorator != nil {
		clientOpts = append(clientOpts, identity.WithRequestDecorator(c.requestDecorator))
	}

	client, err := identity.NewClient(c.routeManager, hostCfg.Group, clientOpts...)
	if err != nil {
		return
	}
	if c.identityProvider == nil {
		c.identityProvider = client
	}
	if c.tokenProvider == nil {
		c.tokenProvider = client
	}
}

func (c *Container) configureProvisioner() error {
	if !c.Config.Features.Provisioning {
		return nil
	}

	if c.collectionsSvc == nil || c.fieldsSvc == nil || c.relationsSvc == nil {
		registry := provision.NewMemoryRegistry()
		c.registry = registry
		if c.collectionsSvc == nil {
			c.collectionsSvc = registry
		}
		if c.fieldsSvc == nil {
			c.fieldsSvc = registry.Fields()
		}
		if c.relationsSvc == nil {
			c.relationsSvc = registry.Relations()
		}
	}

	if c.schemaSvc == nil && c.bunDB != nil {
		c.schemaSvc = provision.NewBunSchemaService(c.bunDB)
	}

	provOpts := []provision.Option{
		provision.WithLogger(c.logProvider),
		provision.WithEnabled(true),
	}
	if c.schemaSvc != nil {
		provOpts = append(provOpts, provision.WithSchemaService(c.schemaSvc))
	}

	provisioner, err := provision.New(c.collectionsSvc, c.fieldsSvc, c.relationsSvc, provOpts...)
	if err != nil {
		return err
	}
	c.provisioner = provisioner
	return nil
}

func (c *Container) configureHTTP() {
	if !c.Config.Features.HTTP {
		return
	}

	apiOpts := []inhttp.Option{
		inhttp.WithBasePath(c.Config.HTTP.BasePath),
		inhttp.WithFramesService(c.framesSvc),
		inhttp.WithResolverService(c.resolverSvc),
		inhttp.WithDefaultLocale(c.Config.DefaultLocale),
		inhttp.WithLogger(c.logProvider),
	}
	if c.accountability != nil {
		apiOpts = append(apiOpts, inhttp.WithAccountability(c.accountability))
	}
	c.api = inhttp.NewAPI(apiOpts...)
}

// FramesService returns the configured frames service.
func (c *Container) FramesService() frames.Service {
	return c.framesSvc
}

// ResolverService returns the configured URL variable resolver.
func (c *Container) ResolverService() resolver.Service {
	return c.resolverSvc
}

// Provisioner returns the schema provisioner, nil when the feature is off.
func (c *Container) Provisioner() *provision.Provisioner {
	return c.provisioner
}

// API returns the HTTP adapter, nil when the feature is off.
func (c *Container) API() *inhttp.API {
	return c.api
}

// LoggerProvider returns the configured logger provider, possibly nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.logProvider
}

// IdentityProvider returns the configured current-user provider.
func (c *Container) IdentityProvider() interfaces.IdentityProvider {
	return c.identityProvider
}

// TokenProvider returns the configured session token provider.
func (c *Container) TokenProvider() interfaces.TokenProvider {
	return c.tokenProvider
}

// BunDB returns the database handle, nil for memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// RouteManager exposes the host API route manager when HostAPI routes are
// configured.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// ProvisionRegistry exposes the in-memory collection registry backing the
// provisioner defaults. Nil when custom services were supplied.
func (c *Container) ProvisionRegistry() *provision.MemoryRegistry {
	return c.registry
}

func normalized(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
