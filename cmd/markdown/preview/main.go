package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-slugless/cmd/markdown/internal/bootstrap"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	var (
		contentDir = flag.String("content-dir", "content", "Path to the markdown content root")
		filePath   = flag.String("file", "", "Markdown file to preview (relative to the content root)")
		baseURL    = flag.String("base-url", "https://example.com", "Base URL used for the permalink preview")
		postType   = flag.String("post-type", "landing_page", "Post type the document would be imported as")
		renderHTML = flag.Bool("render-html", true, "Render markdown body into HTML as part of the preview")
	)

	flag.Parse()

	if *filePath == "" {
		log.Fatalf("--file is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		BaseURL:    *baseURL,
	})
	if err != nil {
		log.Fatalf("bootstrap module: %v", err)
	}
	if module == nil || module.Service == nil {
		log.Fatalf("markdown service not configured; ensure Features.Markdown is enabled")
	}
	defer module.Module.Close()

	ctx := context.Background()

	doc, err := module.Service.Load(ctx, *filePath, interfaces.LoadOptions{})
	if err != nil {
		log.Fatalf("load markdown document: %v", err)
	}

	fmt.Fprintf(os.Stdout, "Path: %s\nChecksum: %x\n", doc.FilePath, doc.Checksum)

	name, err := posts.NormalizeName(doc.FrontMatter.Slug, doc.FrontMatter.Title)
	if err == nil {
		link, err := module.Module.Permalink(ctx, &posts.Post{
			Type:   *postType,
			Name:   name,
			Status: posts.StatusPublish,
		}, false)
		if err == nil {
			fmt.Fprintf(os.Stdout, "Permalink: %s\n", link)
		}
	}
	fmt.Fprintln(os.Stdout)

	if doc.FrontMatter.Raw != nil {
		frontmatter, err := json.MarshalIndent(doc.FrontMatter.Raw, "", "  ")
		if err == nil {
			fmt.Fprintf(os.Stdout, "Frontmatter:\n%s\n\n", frontmatter)
		}
	}

	if *renderHTML {
		fmt.Fprintf(os.Stdout, "Rendered HTML:\n%s\n", strings.TrimSpace(string(doc.BodyHTML)))
	} else {
		fmt.Fprintf(os.Stdout, "Markdown Body:\n%s\n", string(doc.Body))
	}
}
