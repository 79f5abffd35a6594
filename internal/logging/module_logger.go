package logging

import (
	"context"

	"github.com/devix-tecnologia/go-inframe/pkg/interfaces"
)

const (
	rootModule      = "inframe"
	resolverModule  = "inframe.resolver"
	framesModule    = "inframe.frames"
	provisionModule = "inframe.provision"
	httpModule      = "inframe.http"
	identityModule  = "inframe.identity"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ResolverLogger returns the logger namespace reserved for the URL resolver.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// FramesLogger returns the logger namespace reserved for the frames service.
func FramesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, framesModule)
}

// ProvisionLogger returns the logger namespace reserved for schema provisioning.
func ProvisionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, provisionModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP adapters.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// IdentityLogger returns the logger namespace reserved for host API clients.
func IdentityLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, identityModule)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
