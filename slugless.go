package slugless

import (
	"context"
	"errors"
	nethttp "net/http"

	"github.com/goliatone/go-slugless/internal/di"
	httpapi "github.com/goliatone/go-slugless/internal/http"
	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/resolver"
	"github.com/goliatone/go-slugless/internal/rewrite"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

type (
	// PostType describes a category of posts and its URL conventions.
	PostType = posttypes.PostType
	// RegisterPostTypeRequest declares a post type.
	RegisterPostTypeRequest = posttypes.RegisterRequest
	// PostTypeRegistry declares post types and looks them up by key.
	PostTypeRegistry = posttypes.Registry
	// PostTypeRewrite holds the URL slug of a post type.
	PostTypeRewrite = posttypes.Rewrite

	Post              = posts.Post
	PostStatus        = posts.Status
	CreatePostRequest = posts.CreateRequest
	UpdatePostRequest = posts.UpdateRequest
	PostService       = posts.Service

	// Rule is one entry of the rewrite table.
	Rule = rewrite.Rule
)

const (
	StatusPublish = posts.StatusPublish
	StatusDraft   = posts.StatusDraft
)

var (
	// ErrModuleUnavailable is returned by Module methods called on a nil module.
	ErrModuleUnavailable = errors.New("slugless: module is not initialised")
	// ErrPostNameConflict is returned when a post type already has a post with the name.
	ErrPostNameConflict = posts.ErrNameConflict
)

// Module is the top level runtime facade.
type Module struct {
	container *di.Container
}

// New builds a module from cfg. Call Init before serving links or requests.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}

// Init registers the landing page type, runs the remaining initializers and
// compiles the rewrite table.
func (m *Module) Init(ctx context.Context) error {
	if m == nil || m.container == nil {
		return ErrModuleUnavailable
	}
	return m.container.Init(ctx)
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// PostTypes returns the post type registry.
func (m *Module) PostTypes() PostTypeRegistry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PostTypeRegistry()
}

// Posts returns the post service.
func (m *Module) Posts() PostService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PostService()
}

// Markdown returns the markdown service when configured.
func (m *Module) Markdown() interfaces.MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownService()
}

// Permalink returns the public link of post after every link transformer ran.
func (m *Module) Permalink(ctx context.Context, post *Post, leaveName bool) (string, error) {
	if m == nil || m.container == nil {
		return "", ErrModuleUnavailable
	}
	return m.container.Generator().Link(ctx, post, leaveName)
}

// Resolve returns the published post addressed by path.
func (m *Module) Resolve(ctx context.Context, path string) (*Post, error) {
	if m == nil || m.container == nil {
		return nil, ErrModuleUnavailable
	}
	return m.container.Resolver().Resolve(ctx, path)
}

// FlushRules recompiles the rewrite table and returns its rules in match order.
func (m *Module) FlushRules(ctx context.Context) ([]Rule, error) {
	if m == nil || m.container == nil {
		return nil, ErrModuleUnavailable
	}
	table, err := m.container.RuleCompiler().Compile(ctx)
	if err != nil {
		return nil, err
	}
	return table.Rules(), nil
}

// Rules returns the rules of the last compiled table.
func (m *Module) Rules() []Rule {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.RuleCompiler().Table().Rules()
}

// Handler serves published posts at their public paths as JSON.
func (m *Module) Handler() nethttp.Handler {
	if m == nil || m.container == nil {
		return nethttp.NotFoundHandler()
	}
	return httpapi.NewPermalinkHandler(
		m.container.Resolver(),
		m.container.Generator(),
		logging.ModuleLogger(m.container.LoggerProvider(), "slugless.http"),
	)
}

// RegisterAPI mounts the read API and the rewrite flush endpoint on mux
// under basePath, "/api" when empty.
func (m *Module) RegisterAPI(mux *nethttp.ServeMux, basePath string) error {
	if m == nil || m.container == nil {
		return ErrModuleUnavailable
	}
	api := httpapi.NewAPI(
		httpapi.WithBasePath(basePath),
		httpapi.WithPostTypes(m.container.PostTypeRegistry()),
		httpapi.WithPosts(m.container.PostService()),
		httpapi.WithPermalinks(m.container.Generator()),
		httpapi.WithRules(m.container.RuleCompiler()),
	)
	return api.Register(mux)
}

// IsNotFound reports whether err means the requested post, post type or
// route does not exist.
func IsNotFound(err error) bool {
	return resolver.IsNotFound(err) || posts.IsNotFound(err) || posttypes.IsNotFound(err)
}
