package runtimeconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrStorageProviderUnknown    = errors.New("slugless config: storage provider is invalid")
	ErrStorageDriverUnknown      = errors.New("slugless config: storage driver is invalid")
	ErrStorageDSNRequired        = errors.New("slugless config: storage dsn is required for bun storage")
	ErrStripSlugTypeInvalid      = errors.New("slugless config: strip slug post type must not be blank")
	ErrStaticRuleInvalid         = errors.New("slugless config: static rewrite rule is invalid")
	ErrFallbackPatternInvalid    = errors.New("slugless config: fallback pattern is invalid")
	ErrMarkdownFeatureRequired   = errors.New("slugless config: markdown feature must be enabled to configure markdown")
	ErrMarkdownContentDirMissing = errors.New("slugless config: markdown content directory is required when markdown is enabled")
	ErrLoggingProviderRequired   = errors.New("slugless config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown    = errors.New("slugless config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("slugless config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("slugless config: logging format is invalid")
)

// Storage providers.
const (
	StorageMemory = "memory"
	StorageBun    = "bun"
)

// SQL drivers accepted by the bun storage provider.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DefaultLandingPageType is the only post type stripped of its slug unless
// configured otherwise.
const DefaultLandingPageType = "landing_page"

// DefaultLinkPriority is the order the slug remover runs at among link transformers.
const DefaultLinkPriority = 10

// Config aggregates the settings used by the DI container.
type Config struct {
	Permalinks PermalinksConfig
	Routes     RoutesConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Logging    LoggingConfig
	Markdown   MarkdownConfig
	Features   Features
}

// PermalinksConfig controls slug removal.
type PermalinksConfig struct {
	// StripSlugTypes lists post type keys whose public links drop the type slug.
	StripSlugTypes  []string
	// FallbackPattern replaces the single-segment rewrite pattern. It must
	// capture the post name as its first group.
	FallbackPattern string
	LinkPriority    int
}

// RoutesConfig configures link generation and the base rewrite table.
type RoutesConfig struct {
	// RouteConfig feeds go-urlkit. Route names are post type keys.
	RouteConfig *urlkit.Config
	Group       string
	// BaseURL and Front are used when no go-urlkit route exists for a type.
	BaseURL     string
	Front       string
	StaticRules []RuleConfig
}

// RuleConfig is a static rewrite rule placed ahead of the generated ones.
type RuleConfig struct {
	Pattern string
	Query   string
}

// StorageConfig selects where post types and posts are stored.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig toggles the go-repository-cache wrapper for bun repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures go-logger options.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// MarkdownConfig configures landing page imports from disk.
type MarkdownConfig struct {
	Enabled    bool
	ContentDir string
	Pattern    string
	Recursive  bool
	// Schedule is a cron expression for periodic imports. Empty disables it.
	Schedule   string
	Parser     MarkdownParserConfig
}

// MarkdownParserConfig configures goldmark.
type MarkdownParserConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// Features toggles optional modules.
type Features struct {
	Logger   bool
	Markdown bool
	Commands bool
}

// DefaultConfig strips the slug from landing pages and keeps everything in memory.
func DefaultConfig() Config {
	return Config{
		Permalinks: PermalinksConfig{
			StripSlugTypes: []string{DefaultLandingPageType},
			LinkPriority:   DefaultLinkPriority,
		},
		Routes: RoutesConfig{
			Group: "frontend",
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	for _, key := range cfg.Permalinks.StripSlugTypes {
		if strings.TrimSpace(key) == "" {
			return ErrStripSlugTypeInvalid
		}
	}

	if pattern := strings.TrimSpace(cfg.Permalinks.FallbackPattern); pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFallbackPatternInvalid, err)
		}
		if compiled.NumSubexp() < 1 {
			return fmt.Errorf("%w: pattern must capture the post name", ErrFallbackPatternInvalid)
		}
	}

	for i, rule := range cfg.Routes.StaticRules {
		if strings.TrimSpace(rule.Pattern) == "" || strings.TrimSpace(rule.Query) == "" {
			return fmt.Errorf("%w: rule %d requires pattern and query", ErrStaticRuleInvalid, i)
		}
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("%w: rule %d: %v", ErrStaticRuleInvalid, i, err)
		}
	}

	switch normalize(cfg.Storage.Provider) {
	case "", StorageMemory:
	case StorageBun:
		switch normalize(cfg.Storage.Driver) {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("%w: %q", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Markdown.Enabled {
		if !cfg.Features.Markdown {
			return ErrMarkdownFeatureRequired
		}
		if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
			return ErrMarkdownContentDirMissing
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
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
