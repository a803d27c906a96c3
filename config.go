package slugless

import "github.com/goliatone/go-slugless/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrStripSlugTypeInvalid      = runtimeconfig.ErrStripSlugTypeInvalid
	ErrFallbackPatternInvalid    = runtimeconfig.ErrFallbackPatternInvalid
	ErrStaticRuleInvalid         = runtimeconfig.ErrStaticRuleInvalid
	ErrMarkdownFeatureRequired   = runtimeconfig.ErrMarkdownFeatureRequired
	ErrMarkdownContentDirMissing = runtimeconfig.ErrMarkdownContentDirMissing
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	PermalinksConfig     = runtimeconfig.PermalinksConfig
	RoutesConfig         = runtimeconfig.RoutesConfig
	RuleConfig           = runtimeconfig.RuleConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	Features             = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
