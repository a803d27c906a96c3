package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// Config controls how the Markdown service discovers and renders files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service implements interfaces.MarkdownService for a directory on disk.
type Service struct {
	cfg      Config
	parser   interfaces.MarkdownParser
	loader   *Loader
	importer *Importer
	logger   interfaces.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithParser replaces the goldmark parser.
func WithParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// NewService builds a service rooted at cfg.BasePath that imports through store.
func NewService(cfg Config, store PostStore, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return NewServiceFS(filesystem, cfg, store, opts...), nil
}

// NewServiceFS builds a service over an existing filesystem.
func NewServiceFS(filesystem fs.FS, cfg Config, store PostStore, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
		loader: NewLoader(filesystem, LoaderConfig{
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.parser == nil {
		s.parser = NewGoldmarkParser(cfg.Parser)
	}
	s.importer = NewImporter(store, s.logger)
	return s
}

// Load reads and renders a single document relative to the base path.
func (s *Service) Load(ctx context.Context, name string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(name))
	if err != nil {
		return nil, err
	}
	if err := s.renderDocument(ctx, result.Document, opts.Parser); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads and renders every matching document under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if err := s.renderDocument(ctx, result.Document, opts.Parser); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}
	return docs, nil
}

// Render converts Markdown into HTML.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// ImportDirectory loads dir and creates or updates one post per document.
func (s *Service) ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	docs, err := s.LoadDirectory(ctx, dir, opts.Load)
	if err != nil {
		return nil, err
	}
	return s.importer.ImportDocuments(ctx, docs, opts)
}

func (s *Service) renderDocument(ctx context.Context, doc *interfaces.Document, overrides interfaces.ParseOptions) error {
	html, err := s.Render(ctx, doc.Body, overrides)
	if err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return nil
}

func (s *Service) normalisePath(name string) string {
	if strings.TrimSpace(name) == "" {
		return "."
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			clean = rel
		}
	}
	return path.Clean(filepath.ToSlash(clean))
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
