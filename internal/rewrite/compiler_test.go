package rewrite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/rewrite"
)

type staticLister struct {
	types []*posttypes.PostType
	err   error
}

func (s staticLister) List(context.Context) ([]*posttypes.PostType, error) {
	return s.types, s.err
}

type appendExtender struct {
	priority int
	rule     rewrite.Rule
	calls    *[]int
}

func (e appendExtender) ExtendRoutes(_ context.Context, table *rewrite.Table) *rewrite.Table {
	if e.calls != nil {
		*e.calls = append(*e.calls, e.priority)
	}
	return table.Merge(rewrite.NewTable(e.rule))
}

func (e appendExtender) RoutePriority() int { return e.priority }

func landingPage() *posttypes.PostType {
	return &posttypes.PostType{
		Key:     "landing_page",
		Name:    "Landing Pages",
		Public:  true,
		Rewrite: posttypes.Rewrite{Slug: "landing-page"},
	}
}

func TestCompilerBuildsStaticThenPostTypeRules(t *testing.T) {
	hidden := &posttypes.PostType{Key: "internal", Public: false}
	noSlug := &posttypes.PostType{Key: "event", Public: true}

	compiler := rewrite.NewCompiler(
		staticLister{types: []*posttypes.PostType{landingPage(), hidden, noSlug}},
		rewrite.WithStaticRules(rewrite.Rule{Pattern: "feed/?$", Query: "index.php?feed=rss"}),
	)

	table, err := compiler.Compile(context.Background())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	rules := table.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %+v", rules)
	}
	if rules[0].Pattern != "feed/?$" {
		t.Fatalf("expected static rule first, got %+v", rules[0])
	}
	if rules[1].Pattern != `landing-page/([^/]+)/?$` || rules[1].Query != "index.php?post_type=landing_page&name=$matches[1]" {
		t.Fatalf("unexpected landing page rule %+v", rules[1])
	}
	if rules[2].Pattern != `event/([^/]+)/?$` {
		t.Fatalf("expected key fallback for event rule, got %+v", rules[2])
	}
}

func TestCompilerRunsExtendersByPriority(t *testing.T) {
	var calls []int
	compiler := rewrite.NewCompiler(staticLister{types: []*posttypes.PostType{landingPage()}})
	compiler.AddExtender(appendExtender{priority: 50, rule: rewrite.Rule{Pattern: "late/?$", Query: "index.php?late=1"}, calls: &calls})
	compiler.AddExtender(appendExtender{priority: 5, rule: rewrite.Rule{Pattern: "early/?$", Query: "index.php?early=1"}, calls: &calls})

	table, err := compiler.Compile(context.Background())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if len(calls) != 2 || calls[0] != 5 || calls[1] != 50 {
		t.Fatalf("expected extenders in priority order, got %v", calls)
	}
	rules := table.Rules()
	if rules[len(rules)-2].Pattern != "early/?$" || rules[len(rules)-1].Pattern != "late/?$" {
		t.Fatalf("unexpected rule order %+v", rules)
	}
}

func TestCompilerWithFrontPrefixesPattern(t *testing.T) {
	pt := landingPage()
	pt.Rewrite.WithFront = true

	compiler := rewrite.NewCompiler(staticLister{types: []*posttypes.PostType{pt}}, rewrite.WithFront("/blog/"))
	table, err := compiler.Compile(context.Background())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := table.Query(`blog/landing-page/([^/]+)/?$`); !ok {
		t.Fatalf("expected front prefixed rule, got %+v", table.Rules())
	}
}

func TestCompilerQuotesSlug(t *testing.T) {
	pt := landingPage()
	pt.Rewrite.Slug = "offers.v2"

	compiler := rewrite.NewCompiler(staticLister{types: []*posttypes.PostType{pt}})
	table, err := compiler.Compile(context.Background())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := table.Match("offersXv2/page"); ok {
		t.Fatalf("expected slug dot to be literal")
	}
	if _, ok := table.Match("offers.v2/page"); !ok {
		t.Fatalf("expected literal slug to match")
	}
}

func TestCompilerTableReflectsLastCompile(t *testing.T) {
	lister := &staticLister{}
	compiler := rewrite.NewCompiler(lister)

	if compiler.Table().Len() != 0 {
		t.Fatalf("expected empty table before compile")
	}

	lister.types = []*posttypes.PostType{landingPage()}
	if _, err := compiler.Compile(context.Background()); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if compiler.Table().Len() != 1 {
		t.Fatalf("expected compiled table to be current, got %d rules", compiler.Table().Len())
	}
}

func TestCompilerPropagatesListError(t *testing.T) {
	boom := errors.New("boom")
	compiler := rewrite.NewCompiler(staticLister{err: boom})
	if _, err := compiler.Compile(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected list error, got %v", err)
	}
}
