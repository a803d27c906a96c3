package slugless_test

import (
	"errors"
	"testing"

	slugless "github.com/goliatone/go-slugless"
)

func TestDefaultConfigStripsLandingPages(t *testing.T) {
	cfg := slugless.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Permalinks.StripSlugTypes) != 1 || cfg.Permalinks.StripSlugTypes[0] != "landing_page" {
		t.Fatalf("expected landing_page allow-list, got %v", cfg.Permalinks.StripSlugTypes)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*slugless.Config)
		want   error
	}{
		{
			name:   "blank strip type",
			mutate: func(c *slugless.Config) { c.Permalinks.StripSlugTypes = []string{" "} },
			want:   slugless.ErrStripSlugTypeInvalid,
		},
		{
			name:   "bun without dsn",
			mutate: func(c *slugless.Config) { c.Storage = slugless.StorageConfig{Provider: "bun", Driver: "postgres"} },
			want:   slugless.ErrStorageDSNRequired,
		},
		{
			name: "markdown without feature",
			mutate: func(c *slugless.Config) {
				c.Markdown.Enabled = true
				c.Features.Markdown = false
			},
			want: slugless.ErrMarkdownFeatureRequired,
		},
		{
			name: "unknown logging format",
			mutate: func(c *slugless.Config) {
				c.Features.Logger = true
				c.Logging.Format = "xml"
			},
			want: slugless.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := slugless.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
