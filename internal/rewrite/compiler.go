package rewrite

import (
	"cmp"
	"context"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// RouteTableExtender adds rules to a compiled table. Extenders run after the
// base rules in ascending RoutePriority order and must not mutate the table
// they receive.
type RouteTableExtender interface {
	ExtendRoutes(ctx context.Context, table *Table) *Table
	RoutePriority() int
}

// PostTypeLister lists the registered post types.
type PostTypeLister interface {
	List(ctx context.Context) ([]*posttypes.PostType, error)
}

// Compiler builds the rewrite table from static rules, public post types and
// registered extenders.
type Compiler struct {
	types  PostTypeLister
	static []Rule
	front  string
	logger interfaces.Logger

	mu        sync.RWMutex
	extenders []RouteTableExtender
	table     *Table
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithStaticRules places rules ahead of the generated post type rules.
func WithStaticRules(rules ...Rule) CompilerOption {
	return func(c *Compiler) {
		c.static = append(c.static, rules...)
	}
}

// WithFront sets the prefix used by post types whose rewrite has WithFront.
func WithFront(front string) CompilerOption {
	return func(c *Compiler) {
		c.front = strings.Trim(strings.TrimSpace(front), "/")
	}
}

// WithLogger sets the compiler logger.
func WithLogger(logger interfaces.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logging.Ensure(logger)
	}
}

// NewCompiler returns a compiler with an empty table.
func NewCompiler(types PostTypeLister, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		types:  types,
		logger: logging.NoOp(),
		table:  NewTable(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// AddExtender registers ext for the next Compile.
func (c *Compiler) AddExtender(ext RouteTableExtender) {
	if ext == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extenders = append(c.extenders, ext)
}

// Compile rebuilds the table and makes it current.
func (c *Compiler) Compile(ctx context.Context) (*Table, error) {
	table := NewTable(c.static...)

	if c.types != nil {
		types, err := c.types.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, pt := range types {
			if pt == nil || !pt.Public {
				continue
			}
			table.Add(c.postTypePattern(pt), PostTypeQuery(pt.Key))
		}
	}

	c.mu.RLock()
	extenders := slices.Clone(c.extenders)
	c.mu.RUnlock()
	slices.SortStableFunc(extenders, func(a, b RouteTableExtender) int {
		return cmp.Compare(a.RoutePriority(), b.RoutePriority())
	})

	for _, ext := range extenders {
		if extended := ext.ExtendRoutes(ctx, table); extended != nil {
			table = extended
		}
	}

	c.mu.Lock()
	c.table = table
	c.mu.Unlock()

	c.logger.Info("rewrite.compiled", "rules", table.Len(), "extenders", len(extenders))
	return table.Clone(), nil
}

// Table returns a copy of the last compiled table.
func (c *Compiler) Table() *Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table.Clone()
}

func (c *Compiler) postTypePattern(pt *posttypes.PostType) string {
	prefix := regexp.QuoteMeta(posttypes.ResolveSlug(pt, pt.Key)) + "/"
	if pt.Rewrite.WithFront && c.front != "" {
		prefix = regexp.QuoteMeta(c.front) + "/" + prefix
	}
	return prefix + SegmentPattern
}

// SegmentPattern matches one non-slash path segment with an optional trailing slash.
const SegmentPattern = `([^/]+)/?$`

// PostTypeQuery is the query template resolving the first capture group to a
// post of one of postTypes. Several types are joined with commas and tried in
// order by the resolver.
func PostTypeQuery(postTypes ...string) string {
	return "index.php?post_type=" + strings.Join(postTypes, ",") + "&name=$matches[1]"
}
