package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MarkdownParser converts raw Markdown bytes into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService loads Markdown files and imports them as posts.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
}

// Document is a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum is the SHA-256 of the file content.
	Checksum []byte
}

// FrontMatter models the metadata block of a Markdown post.
type FrontMatter struct {
	Title        string         `yaml:"title" json:"title"`
	Slug         string         `yaml:"slug" json:"slug"`
	Status       string         `yaml:"status" json:"status"`
	Thumbnail    string         `yaml:"thumbnail" json:"thumbnail"`
	Draft        bool           `yaml:"draft" json:"draft"`
	CustomFields map[string]any `yaml:"custom_fields" json:"custom_fields"`
	Raw          map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// ImportOptions controls how documents become posts.
type ImportOptions struct {
	// PostType defaults to landing_page.
	PostType string
	// DefaultStatus applies when a document has neither status nor draft set.
	DefaultStatus string
	DryRun        bool
	Load          LoadOptions
}

// ImportResult reports the posts touched by an import.
type ImportResult struct {
	Created []uuid.UUID
	Updated []uuid.UUID
	Skipped []uuid.UUID
	Errors  []error
}
