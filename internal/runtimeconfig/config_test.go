package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownStorageProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Provider = "etcd"

	if err := cfg.Validate(); !errors.Is(err, ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true

	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "zap"

	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "yaml"

	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"
	cfg.Logging.Level = "verbose"

	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresDefaultTitleForFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frames.DefaultTitle = "   "

	if err := cfg.Validate(); !errors.Is(err, ErrDefaultTitleRequired) {
		t.Fatalf("expected ErrDefaultTitleRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeCacheTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.DefaultTTL = -1

	if err := cfg.Validate(); !errors.Is(err, ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}
