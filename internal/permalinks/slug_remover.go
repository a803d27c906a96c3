package permalinks

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/rewrite"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// DefaultLinkPriority is the order at which the slug remover runs among link transformers.
const DefaultLinkPriority = 10

// SlugRemover drops the post type slug from the permalinks of published posts
// whose type is allow-listed, and adds the matching single-segment routes.
type SlugRemover struct {
	lookup   posttypes.Lookup
	types    []string
	pattern  string
	priority int
	logger   interfaces.Logger
}

// Option configures a SlugRemover.
type Option func(*SlugRemover)

// WithPostTypes replaces the allow-list.
func WithPostTypes(keys ...string) Option {
	return func(s *SlugRemover) {
		s.types = s.types[:0]
		for _, key := range keys {
			key = strings.TrimSpace(key)
			if key != "" && !slices.Contains(s.types, key) {
				s.types = append(s.types, key)
			}
		}
	}
}

// WithRoutePattern replaces the single-segment pattern added by ExtendRoutes.
// The pattern must capture the post name as its first group.
func WithRoutePattern(pattern string) Option {
	return func(s *SlugRemover) {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			s.pattern = trimmed
		}
	}
}

// WithLinkPriority overrides DefaultLinkPriority.
func WithLinkPriority(priority int) Option {
	return func(s *SlugRemover) {
		s.priority = priority
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *SlugRemover) {
		s.logger = logging.Ensure(logger)
	}
}

// NewSlugRemover returns a remover for landing_page unless WithPostTypes says otherwise.
func NewSlugRemover(lookup posttypes.Lookup, opts ...Option) *SlugRemover {
	s := &SlugRemover{
		lookup:   lookup,
		types:    []string{"landing_page"},
		pattern:  rewrite.SegmentPattern,
		priority: DefaultLinkPriority,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PostTypes returns the allow-list.
func (s *SlugRemover) PostTypes() []string {
	return slices.Clone(s.types)
}

// TransformLink removes the first "/<slug>/" segment from link. Links of
// unpublished posts or of types outside the allow-list come back unchanged.
// leaveName does not affect the result.
func (s *SlugRemover) TransformLink(ctx context.Context, link string, post *posts.Post, _ bool) string {
	if post == nil || post.Status != posts.StatusPublish || !slices.Contains(s.types, post.Type) {
		return link
	}

	slug := s.slugFor(ctx, post.Type)
	stripped := strings.Replace(link, "/"+slug+"/", "/", 1)
	if stripped != link {
		logging.WithPostContext(s.logger, post.Type, post.Name, "").Debug("permalinks.slug_removed",
			"slug", slug,
			"link", stripped,
		)
	}
	return stripped
}

// LinkPriority implements LinkTransformer.
func (s *SlugRemover) LinkPriority() int {
	return s.priority
}

// ExtendRoutes returns table followed by a single "([^/]+)/?$" rule whose
// query names every allow-listed type in order. A pattern already in table
// keeps its query.
func (s *SlugRemover) ExtendRoutes(_ context.Context, table *rewrite.Table) *rewrite.Table {
	if len(s.types) == 0 {
		return table.Merge(nil)
	}
	extra := rewrite.NewTable()
	extra.Add(s.pattern, rewrite.PostTypeQuery(s.types...))
	return table.Merge(extra)
}

// RoutePriority places the slugless rules after every other extender.
func (s *SlugRemover) RoutePriority() int {
	return math.MaxInt
}

func (s *SlugRemover) slugFor(ctx context.Context, key string) string {
	if s.lookup == nil {
		return key
	}
	pt, err := s.lookup.Get(ctx, key)
	if err != nil {
		s.logger.Warn("permalinks.post_type_lookup_failed", "post_type", key, "error", err)
		return key
	}
	return posttypes.ResolveSlug(pt, key)
}
