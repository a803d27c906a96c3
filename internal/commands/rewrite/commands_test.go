package rewritecmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-slugless/internal/commands/fixtures"
	"github.com/goliatone/go-slugless/internal/rewrite"
)

type stubCompiler struct {
	calls int
	err   error
}

func (s *stubCompiler) Compile(context.Context) (*rewrite.Table, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return rewrite.NewTable(rewrite.Rule{Pattern: "a/?$", Query: "index.php?a=1"}), nil
}

func TestFlushRulesHandlerCompiles(t *testing.T) {
	compiler := &stubCompiler{}
	handler := NewFlushRulesHandler(compiler, nil)

	if err := handler.Execute(context.Background(), FlushRulesCommand{Reason: "post type added"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if compiler.calls != 1 {
		t.Fatalf("expected one compile, got %d", compiler.calls)
	}
}

func TestFlushRulesHandlerWrapsCompileError(t *testing.T) {
	handler := NewFlushRulesHandler(&stubCompiler{err: errors.New("list failed")}, nil)

	err := handler.Execute(context.Background(), FlushRulesCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestFlushRulesCommandValidation(t *testing.T) {
	handler := NewFlushRulesHandler(&stubCompiler{}, nil)

	err := handler.Execute(context.Background(), FlushRulesCommand{Reason: strings.Repeat("x", 201)})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestRegisterRewriteCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()

	handler, err := RegisterRewriteCommands(reg, &stubCompiler{}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.Handlers) != 1 || reg.Handlers[0] != handler {
		t.Fatalf("expected handler registered, got %#v", reg.Handlers)
	}

	if _, err := RegisterRewriteCommands(nil, nil, nil); err == nil {
		t.Fatal("expected error when compiler nil")
	}
}
