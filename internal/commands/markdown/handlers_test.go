package markdowncmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-slugless/pkg/interfaces"
)

type stubMarkdownService struct {
	importCalls []importCall
	importErr   error
	result      *interfaces.ImportResult
}

type importCall struct {
	dir  string
	opts interfaces.ImportOptions
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) ImportDirectory(_ context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls = append(s.importCalls, importCall{dir: dir, opts: opts})
	if s.result == nil {
		s.result = &interfaces.ImportResult{}
	}
	return s.result, s.importErr
}

func TestImportDirectoryHandlerForwardsOptions(t *testing.T) {
	service := &stubMarkdownService{
		result: &interfaces.ImportResult{Created: []uuid.UUID{uuid.New()}},
	}
	recursive := false
	handler := NewImportDirectoryHandler(service, nil, FeatureGates{})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{
		Directory:     "content",
		PostType:      "event",
		DefaultStatus: "draft",
		Recursive:     &recursive,
		Pattern:       "*.markdown",
		DryRun:        true,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(service.importCalls) != 1 {
		t.Fatalf("expected one import call, got %d", len(service.importCalls))
	}
	call := service.importCalls[0]
	if call.dir != "content" {
		t.Fatalf("unexpected directory %q", call.dir)
	}
	opts := call.opts
	if opts.PostType != "event" || opts.DefaultStatus != "draft" || !opts.DryRun {
		t.Fatalf("unexpected import options %+v", opts)
	}
	if opts.Load.Recursive == nil || *opts.Load.Recursive || opts.Load.Pattern != "*.markdown" {
		t.Fatalf("unexpected load options %+v", opts.Load)
	}
}

func TestImportDirectoryHandlerFeatureDisabled(t *testing.T) {
	service := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(service, nil, FeatureGates{
		MarkdownEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"})
	if !errors.Is(err, ErrMarkdownFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
	if len(service.importCalls) != 0 {
		t.Fatal("expected service not called")
	}
}

func TestImportDirectoryHandlerValidation(t *testing.T) {
	service := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(service, nil, FeatureGates{})

	cases := []ImportDirectoryCommand{
		{},
		{Directory: "   "},
		{Directory: "content", DefaultStatus: "archived"},
	}
	for _, cmd := range cases {
		err := handler.Execute(context.Background(), cmd)
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("%+v: expected validation error, got %v", cmd, err)
		}
	}
	if len(service.importCalls) != 0 {
		t.Fatal("expected service not called for invalid commands")
	}
}

func TestImportDirectoryHandlerWrapsServiceError(t *testing.T) {
	service := &stubMarkdownService{importErr: errors.New("disk gone")}
	handler := NewImportDirectoryHandler(service, nil, FeatureGates{})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}
