package inframe

import "github.com/devix-tecnologia/go-inframe/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrHostRoutesRequired      = runtimeconfig.ErrHostRoutesRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrDefaultTitleRequired    = runtimeconfig.ErrDefaultTitleRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	FramesConfig  = runtimeconfig.FramesConfig
	HostAPIConfig = runtimeconfig.HostAPIConfig
	HTTPConfig    = runtimeconfig.HTTPConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the baseline configuration for the module.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
