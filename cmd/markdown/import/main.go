package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-slugless/cmd/markdown/internal/bootstrap"
	markdowncmd "github.com/goliatone/go-slugless/internal/commands/markdown"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("markdown import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("markdown-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	postType := fs.String("post-type", "landing_page", "Post type assigned to imported documents")
	defaultStatus := fs.String("default-status", "", "Status for documents without status or draft frontmatter")
	driver := fs.String("driver", "sqlite3", "SQL driver used with -dsn (sqlite3 or postgres)")
	dsn := fs.String("dsn", os.Getenv("SLUGLESS_DSN"), "Database DSN; posts stay in memory when empty")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting posts")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
		Driver:     *driver,
		DSN:        *dsn,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Service == nil {
		return fmt.Errorf("markdown service not configured; ensure Features.Markdown is enabled")
	}
	if module.Module != nil {
		defer module.Module.Close()
	}

	handler := markdowncmd.NewImportDirectoryHandler(module.Service, module.Logger, markdowncmd.FeatureGates{
		MarkdownEnabled: func() bool { return true },
	})
	cmd := markdowncmd.ImportDirectoryCommand{
		Directory:     *directory,
		PostType:      *postType,
		DefaultStatus: *defaultStatus,
		DryRun:        *dryRun,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "markdown import command executed successfully")
	return nil
}
