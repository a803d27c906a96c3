package permalinks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// ErrPostRequired is returned when Permalink receives a nil post.
var ErrPostRequired = errors.New("permalinks: post is required")

// LinkTransformer rewrites generated permalinks. Transformers run in
// ascending LinkPriority order; ties keep registration order.
type LinkTransformer interface {
	TransformLink(ctx context.Context, link string, post *posts.Post, leaveName bool) string
	LinkPriority() int
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	// Manager resolves routes named after post type keys inside Group.
	Manager *urlkit.RouteManager
	Group   string
	// NameParam is the route parameter receiving the post name. Defaults to "name".
	NameParam string
	// BaseURL and Front build links for types without a route.
	BaseURL string
	Front   string
	Logger  interfaces.Logger
}

// Generator builds public links for posts.
type Generator struct {
	types     posttypes.Lookup
	manager   *urlkit.RouteManager
	groupPath string
	nameParam string
	baseURL   string
	front     string
	logger    interfaces.Logger

	mu           sync.RWMutex
	transformers []LinkTransformer

	groupOnce sync.Once
	group     *urlkit.Group
	groupErr  error
}

// NewGenerator returns a generator resolving post types through types.
func NewGenerator(types posttypes.Lookup, opts GeneratorOptions) *Generator {
	if strings.TrimSpace(opts.NameParam) == "" {
		opts.NameParam = "name"
	}
	return &Generator{
		types:     types,
		manager:   opts.Manager,
		groupPath: strings.TrimSpace(opts.Group),
		nameParam: strings.TrimSpace(opts.NameParam),
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		front:     strings.Trim(strings.TrimSpace(opts.Front), "/"),
		logger:    logging.Ensure(opts.Logger),
	}
}

// AddTransformer registers t for every later Permalink call.
func (g *Generator) AddTransformer(t LinkTransformer) {
	if t == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transformers = append(g.transformers, t)
}

// Permalink returns the public link of post. Unpublished posts get a query
// link by id; published posts use the go-urlkit route named after their type,
// or "<base>/<slug>/<name>/" when no such route exists.
func (g *Generator) Permalink(ctx context.Context, post *posts.Post) (string, error) {
	return g.Link(ctx, post, false)
}

// Link is Permalink with the leaveName flag forwarded to every transformer.
func (g *Generator) Link(ctx context.Context, post *posts.Post, leaveName bool) (string, error) {
	if post == nil {
		return "", ErrPostRequired
	}
	pt, err := g.types.Get(ctx, post.Type)
	if err != nil {
		return "", err
	}

	var link string
	if post.Status != posts.StatusPublish {
		link = g.queryLink(post)
	} else if routed, ok := g.routeLink(post); ok {
		link = routed
	} else {
		link = g.fallbackLink(pt, post)
	}

	for _, transformer := range g.sortedTransformers() {
		link = transformer.TransformLink(ctx, link, post, leaveName)
	}
	return link, nil
}

func (g *Generator) queryLink(post *posts.Post) string {
	query := url.Values{}
	query.Set("p", post.ID.String())
	query.Set("post_type", post.Type)
	return g.baseURL + "/?" + query.Encode()
}

func (g *Generator) fallbackLink(pt *posttypes.PostType, post *posts.Post) string {
	segments := make([]string, 0, 3)
	if pt.Rewrite.WithFront && g.front != "" {
		segments = append(segments, g.front)
	}
	segments = append(segments, posttypes.ResolveSlug(pt, post.Type), post.Name)
	return g.baseURL + "/" + strings.Join(segments, "/") + "/"
}

func (g *Generator) routeLink(post *posts.Post) (string, bool) {
	group, err := g.routeGroup()
	if err != nil || group == nil {
		return "", false
	}
	link, err := buildRoute(group, post.Type, g.nameParam, post.Name)
	if err != nil {
		g.logger.Debug("permalinks.route_unavailable", "post_type", post.Type, "error", err)
		return "", false
	}
	if strings.TrimSpace(link) == "" {
		return "", false
	}
	return link, true
}

// routeGroup resolves the configured group once. A missing group is logged
// and every later call falls back to base URL links.
func (g *Generator) routeGroup() (*urlkit.Group, error) {
	if g.manager == nil || g.groupPath == "" {
		return nil, nil
	}
	g.groupOnce.Do(func() {
		g.group, g.groupErr = g.lookupGroupPath()
		if g.groupErr != nil {
			g.logger.Warn("permalinks.route_group_missing", "group", g.groupPath, "error", g.groupErr)
		}
	})
	return g.group, g.groupErr
}

func (g *Generator) lookupGroupPath() (*urlkit.Group, error) {
	parts := strings.Split(g.groupPath, ".")
	current, err := lookupGroup(g.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		if current, err = lookupChildGroup(current, part); err != nil {
			return nil, err
		}
	}
	return current, nil
}

func (g *Generator) sortedTransformers() []LinkTransformer {
	g.mu.RLock()
	transformers := slices.Clone(g.transformers)
	g.mu.RUnlock()
	slices.SortStableFunc(transformers, func(a, b LinkTransformer) int {
		return cmp.Compare(a.LinkPriority(), b.LinkPriority())
	})
	return transformers
}

func buildRoute(group *urlkit.Group, route, param, value string) (link string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("permalinks: urlkit route %q: %v", route, rec)
		}
	}()
	builder := group.Builder(route)
	builder.WithParam(param, value)
	return builder.Build()
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("permalinks: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("permalinks: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
