package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrStorageProviderUnknown indicates a storage provider outside the supported set.
var ErrStorageProviderUnknown = errors.New("inframe config: storage provider is invalid")

// ErrHostRoutesRequired indicates the resolver needs the host API route table.
var ErrHostRoutesRequired = errors.New("inframe config: host API routes are required when the HTTP providers are enabled")

// ErrLoggingProviderRequired indicates the logging feature was enabled without a provider.
var ErrLoggingProviderRequired = errors.New("inframe config: logging provider is required when logging feature is enabled")

// ErrLoggingProviderUnknown indicates an unsupported logging provider name.
var ErrLoggingProviderUnknown = errors.New("inframe config: logging provider is invalid")

// ErrLoggingLevelInvalid indicates an unsupported logging level.
var ErrLoggingLevelInvalid = errors.New("inframe config: logging level is invalid")

// ErrLoggingFormatInvalid indicates an unsupported logging format.
var ErrLoggingFormatInvalid = errors.New("inframe config: logging format is invalid")

// ErrDefaultTitleRequired indicates the frames fallback title was cleared.
var ErrDefaultTitleRequired = errors.New("inframe config: frames default title is required")

// ErrCacheTTLInvalid indicates a negative cache TTL.
var ErrCacheTTLInvalid = errors.New("inframe config: cache ttl must be zero or positive")

// Config aggregates feature flags and adapter bindings for the inFrame module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Storage       StorageConfig
	Cache         CacheConfig
	Frames        FramesConfig
	HostAPI       HostAPIConfig
	HTTP          HTTPConfig
	Features      Features
	Logging       LoggingConfig
}

// StorageConfig selects the persistence backend for the frames collection.
// Driver and DSN are only consulted for the bun provider when the host does
// not supply a database handle of its own.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// FramesConfig captures behaviour for the frames collection service.
type FramesConfig struct {
	// DefaultTitle is substituted when a frame has no translation for the
	// requested locale.
	DefaultTitle string
}

// HostAPIConfig wires the host platform endpoints the resolver providers call.
// RouteConfig follows go-urlkit so hosts can remap paths without code changes.
type HostAPIConfig struct {
	RouteConfig      *urlkit.Config
	Group            string
	CurrentUserRoute string
	TokenRoute       string
}

// HTTPConfig captures options for the optional HTTP adapters.
type HTTPConfig struct {
	BasePath string
}

// Features toggles optional module capabilities.
type Features struct {
	Frames       bool
	Provisioning bool
	HTTP         bool
	Logger       bool
}

// LoggingConfig selects and configures the logging provider.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the baseline configuration for the module.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en-US",
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Frames: FramesConfig{
			DefaultTitle: "Item inFrame",
		},
		HostAPI: HostAPIConfig{
			Group:            "host",
			CurrentUserRoute: "users_me",
			TokenRoute:       "token",
		},
		HTTP: HTTPConfig{
			BasePath: "/inframe",
		},
		Features: Features{
			Frames: true,
		},
	}
}

// Validate checks cross-field consistency before the container assembles services.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Provider) {
	case "", "memory", "bun":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Frames && strings.TrimSpace(cfg.Frames.DefaultTitle) == "" {
		return ErrDefaultTitleRequired
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
