package markdowncmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-slugless/internal/commands"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// HandlerSet groups the handlers produced by RegisterMarkdownCommands.
type HandlerSet struct {
	Import *ImportDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	importHandlerOpts []commands.HandlerOption[ImportDirectoryCommand]
}

// WithImportHandlerOptions forwards options to the ImportDirectoryHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.importHandlerOpts = append(cfg.importHandlerOpts, opts...)
	}
}

// RegisterMarkdownCommands builds the markdown handlers and registers them
// with reg. The handlers are returned so callers can also wire cron.
func RegisterMarkdownCommands(reg commands.CommandRegistry, service interfaces.MarkdownService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("markdown command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	importHandler := NewImportDirectoryHandler(service, commands.CommandLogger(provider, "markdown"), gates, cfg.importHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(importHandler); err != nil {
			return nil, err
		}
	}
	return &HandlerSet{Import: importHandler}, nil
}

// RegisterMarkdownCron schedules handler with msg under cfg. The handler runs
// with a background context.
func RegisterMarkdownCron(reg commands.CronRegistrar, handler *ImportDirectoryHandler, cfg command.HandlerConfig, msg ImportDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
