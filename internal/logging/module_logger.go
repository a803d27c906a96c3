package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-slugless/pkg/interfaces"
)

const (
	rootModule       = "slugless"
	postTypesModule  = "slugless.posttypes"
	postsModule      = "slugless.posts"
	permalinksModule = "slugless.permalinks"
	rewriteModule    = "slugless.rewrite"
	resolverModule   = "slugless.resolver"
	markdownModule   = "slugless.markdown"
)

const (
	fieldPostType = "post_type"
	fieldPostName = "post_name"
	fieldPath     = "path"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields a no-op logger. The module name is attached as the
// "module" field.
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

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PostTypesLogger returns the logger used by the post type registry.
func PostTypesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postTypesModule)
}

// PostsLogger returns the logger used by the post service.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postsModule)
}

// PermalinksLogger returns the logger used by link generation and slug removal.
func PermalinksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, permalinksModule)
}

// RewriteLogger returns the logger used by the rule compiler.
func RewriteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rewriteModule)
}

// ResolverLogger returns the logger used when resolving request paths.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// MarkdownLogger returns the logger used by the markdown importer.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithPostContext adds post type, post name and request path fields when set.
func WithPostContext(logger interfaces.Logger, postType, name, path string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(postType); trimmed != "" {
		fields[fieldPostType] = trimmed
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		fields[fieldPostName] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
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
