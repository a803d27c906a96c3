package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// LoaderConfig configures file discovery.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the glob (defaults to "*.md").
	Pattern   string
	Recursive bool
}

// Loader reads Markdown documents from a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:        filesystem,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// DocumentResult carries the parsed document along with the raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams override the loader configuration for one call.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}

// LoadFile reads and parses one document. name is slash separated and
// relative to the filesystem root.
func (l *Loader) LoadFile(ctx context.Context, name string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = path.Clean(name)
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	doc, err := BuildDocument(name, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", name, err)
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{Document: doc, Source: data}, nil
}

// LoadDirectory parses every matching file under dir, ordered by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, params LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := path.Clean(dir)
	recursive := l.recursive
	if params.Recursive != nil {
		recursive = *params.Recursive
	}

	var results []*DocumentResult
	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if current != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.matchesPattern(current, params.Pattern) {
			return nil
		}

		result, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})
	return results, nil
}

func (l *Loader) matchesPattern(name, override string) bool {
	pattern := strings.TrimSpace(override)
	if pattern == "" {
		pattern = l.pattern
	}
	target := path.Base(name)
	if strings.Contains(pattern, "/") {
		target = name
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}
