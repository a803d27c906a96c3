package bootstrap

import (
	"context"
	"fmt"
	"strings"

	slugless "github.com/goliatone/go-slugless"
	"github.com/goliatone/go-slugless/internal/di"
	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// Options captures configuration for markdown CLI bootstraps.
type Options struct {
	ContentDir string
	Pattern    string
	Recursive  bool
	// Driver and DSN select bun storage. An empty DSN keeps posts in memory.
	Driver         string
	DSN            string
	BaseURL        string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the slugless module and the configured markdown service/logger.
type Module struct {
	Module  *slugless.Module
	Service interfaces.MarkdownService
	Logger  interfaces.Logger
}

// BuildModule constructs and initialises a module configured for markdown operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := slugless.DefaultConfig()
	cfg.Features.Markdown = true
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = strings.TrimSpace(opts.ContentDir)
	if cfg.Markdown.ContentDir == "" {
		cfg.Markdown.ContentDir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}
	cfg.Markdown.Recursive = opts.Recursive
	cfg.Routes.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")

	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		cfg.Storage = slugless.StorageConfig{
			Provider: "bun",
			Driver:   strings.TrimSpace(opts.Driver),
			DSN:      dsn,
		}
		if cfg.Storage.Driver == "" {
			cfg.Storage.Driver = "sqlite3"
		}
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := slugless.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise slugless module: %w", err)
	}
	if err := module.Init(context.Background()); err != nil {
		_ = module.Close()
		return nil, fmt.Errorf("init slugless module: %w", err)
	}

	service := module.Markdown()
	if service == nil {
		_ = module.Close()
		return nil, fmt.Errorf("markdown service not configured; ensure markdown feature is enabled")
	}

	return &Module{
		Module:  module,
		Service: service,
		Logger:  logging.MarkdownLogger(module.Container().LoggerProvider()),
	}, nil
}
