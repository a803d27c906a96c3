package posttypescmd

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-slugless/internal/commands/fixtures"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/rewrite"
)

func TestRegisterPostTypeHandlerRegistersAndFlushes(t *testing.T) {
	ctx := context.Background()
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())
	compiler := rewrite.NewCompiler(registry)

	handler := NewRegisterPostTypeHandler(registry, compiler, nil)
	err := handler.Execute(ctx, RegisterPostTypeCommand{
		Key:         "event",
		Name:        "Events",
		Public:      true,
		RewriteSlug: "events",
		Supports:    []string{"title", "editor"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	pt, err := registry.Get(ctx, "event")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !pt.HasSupport(posttypes.CapabilityEditor) || pt.Rewrite.Slug != "events" {
		t.Fatalf("unexpected post type %+v", pt)
	}
	if _, ok := compiler.Table().Query(`events/([^/]+)/?$`); !ok {
		t.Fatalf("expected table flushed with the event rule, got %+v", compiler.Table().Rules())
	}
}

func TestRegisterPostTypeHandlerSkipFlush(t *testing.T) {
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())
	compiler := rewrite.NewCompiler(registry)

	handler := NewRegisterPostTypeHandler(registry, compiler, nil)
	if err := handler.Execute(context.Background(), RegisterPostTypeCommand{Key: "event", Public: true, SkipFlush: true}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if compiler.Table().Len() != 0 {
		t.Fatalf("expected table untouched, got %d rules", compiler.Table().Len())
	}
}

func TestRegisterPostTypeCommandValidation(t *testing.T) {
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())
	handler := NewRegisterPostTypeHandler(registry, nil, nil)

	cases := []RegisterPostTypeCommand{
		{},
		{Key: "Bad Key"},
		{Key: "event", Supports: []string{"comments"}},
	}
	for _, cmd := range cases {
		err := handler.Execute(context.Background(), cmd)
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("%+v: expected validation category, got %v", cmd, err)
		}
	}
}

func TestRegisterPostTypeCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())

	handler, err := RegisterPostTypeCommands(reg, registry, nil, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.Handlers) != 1 || reg.Handlers[0] != handler {
		t.Fatalf("expected handler registered, got %#v", reg.Handlers)
	}
	if _, err := RegisterPostTypeCommands(reg, nil, nil, nil); err == nil {
		t.Fatal("expected error when registry nil")
	}
}
