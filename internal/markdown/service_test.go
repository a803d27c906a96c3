package markdown

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-slugless/internal/landingpages"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

func newTestService(t *testing.T, files fstest.MapFS) (*Service, posts.Service) {
	t.Helper()
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())
	if err := landingpages.NewRegistrar(registry).Init(context.Background()); err != nil {
		t.Fatalf("register landing page: %v", err)
	}
	postSvc := posts.NewService(posts.NewMemoryRepository(), registry)
	return NewServiceFS(files, Config{}, postSvc), postSvc
}

func landingFiles() fstest.MapFS {
	return fstest.MapFS{
		"offer.md":       {Data: []byte("---\ntitle: Spring Offer\nthumbnail: /media/spring.jpg\ncustom_fields:\n  cta_label: Book now\n---\n# Spring\n")},
		"about-us.md":    {Data: []byte("---\ndraft: true\n---\nAbout us\n")},
		"notes.txt":      {Data: []byte("ignored")},
		"nested/deep.md": {Data: []byte("---\ntitle: Deep\n---\nDeep\n")},
	}
}

func TestServiceLoadDirectory(t *testing.T) {
	svc, _ := newTestService(t, landingFiles())

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 top-level documents, got %d", len(docs))
	}
	if docs[0].FilePath != "about-us.md" || docs[1].FilePath != "offer.md" {
		t.Fatalf("unexpected order %s, %s", docs[0].FilePath, docs[1].FilePath)
	}
	for _, doc := range docs {
		if len(doc.BodyHTML) == 0 || len(doc.Checksum) == 0 {
			t.Fatalf("expected rendered body and checksum for %s", doc.FilePath)
		}
	}

	recursive := true
	docs, err = svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{Recursive: &recursive})
	if err != nil {
		t.Fatalf("LoadDirectory recursive: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
}

func TestServiceImportDirectoryCreatesPosts(t *testing.T) {
	ctx := context.Background()
	svc, postSvc := newTestService(t, landingFiles())

	result, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.Created) != 2 || len(result.Updated) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	offer, err := postSvc.GetByName(ctx, "landing_page", "spring-offer")
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if offer.Status != posts.StatusPublish || offer.Thumbnail != "/media/spring.jpg" {
		t.Fatalf("unexpected offer %+v", offer)
	}
	if offer.CustomFields["cta_label"] != "Book now" {
		t.Fatalf("expected custom fields, got %#v", offer.CustomFields)
	}
	if offer.Body == "" {
		t.Fatalf("expected rendered body")
	}

	about, err := postSvc.GetByName(ctx, "landing_page", "about-us")
	if err != nil {
		t.Fatalf("get about: %v", err)
	}
	if about.Status != posts.StatusDraft || about.Title != "About Us" {
		t.Fatalf("unexpected about %+v", about)
	}
}

func TestServiceImportDirectoryUpdatesAndSkips(t *testing.T) {
	ctx := context.Background()
	files := landingFiles()
	svc, postSvc := newTestService(t, files)

	if _, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(result.Skipped) != 2 || len(result.Created) != 0 {
		t.Fatalf("expected unchanged documents to be skipped, got %+v", result)
	}

	files["offer.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Summer Offer\nslug: spring-offer\n---\n# Summer\n")}
	result, err = svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{})
	if err != nil {
		t.Fatalf("third import: %v", err)
	}
	if len(result.Updated) != 1 {
		t.Fatalf("expected one update, got %+v", result)
	}
	offer, err := postSvc.GetByName(ctx, "landing_page", "spring-offer")
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if offer.Title != "Summer Offer" {
		t.Fatalf("expected updated title, got %q", offer.Title)
	}
}

func TestServiceImportDryRun(t *testing.T) {
	ctx := context.Background()
	svc, postSvc := newTestService(t, landingFiles())

	result, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("ImportDirectory: %v", err)
	}
	if len(result.Created) != 2 {
		t.Fatalf("expected planned creations, got %+v", result)
	}
	list, err := postSvc.List(ctx, "landing_page")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("dry run must not write, got %d posts", len(list))
	}
}

func TestServiceImportCollectsDocumentErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fstest.MapFS{
		"bad.md":  {Data: []byte("---\ntitle: Bad\nstatus: archived\n---\nbody\n")},
		"good.md": {Data: []byte("---\ntitle: Good\n---\nbody\n")},
	})

	result, err := svc.ImportDirectory(ctx, ".", interfaces.ImportOptions{})
	if err == nil {
		t.Fatalf("expected an error for the invalid status")
	}
	if len(result.Errors) != 1 || len(result.Created) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}
