package di

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-slugless/internal/commands"
	markdowncmd "github.com/goliatone/go-slugless/internal/commands/markdown"
	posttypescmd "github.com/goliatone/go-slugless/internal/commands/posttypes"
	rewritecmd "github.com/goliatone/go-slugless/internal/commands/rewrite"
	"github.com/goliatone/go-slugless/internal/landingpages"
	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/logging/gologger"
	"github.com/goliatone/go-slugless/internal/markdown"
	"github.com/goliatone/go-slugless/internal/permalinks"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/resolver"
	"github.com/goliatone/go-slugless/internal/rewrite"
	"github.com/goliatone/go-slugless/internal/runtimeconfig"
	"github.com/goliatone/go-slugless/internal/storage"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	postTypeRepo posttypes.Repository
	postRepo     posts.Repository

	registry posttypes.Registry
	postSvc  posts.Service

	routeManager *urlkit.RouteManager
	remover      *permalinks.SlugRemover
	generator    *permalinks.Generator
	compiler     *rewrite.Compiler
	resolver     *resolver.Resolver
	markdownSvc  interfaces.MarkdownService

	commandRegistry  commands.CommandRegistry
	cronRegistrar    commands.CronRegistrar
	dispatch         bool
	subscriptions    []subscription
	flushHandler     *rewritecmd.FlushRulesHandler
	postTypeHandler  *posttypescmd.RegisterPostTypeHandler
	markdownHandlers *markdowncmd.HandlerSet

	initializers []interfaces.Initializer
	initMu       sync.Mutex
}

type subscription interface {
	Unsubscribe()
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB uses db instead of opening Config.Storage. The caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithPostTypeRepository overrides the post type repository.
func WithPostTypeRepository(repo posttypes.Repository) Option {
	return func(c *Container) {
		c.postTypeRepo = repo
	}
}

// WithPostRepository overrides the post repository.
func WithPostRepository(repo posts.Repository) Option {
	return func(c *Container) {
		c.postRepo = repo
	}
}

// WithMarkdownService overrides the markdown service built from Config.Markdown.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithCommandRegistry registers command handlers with reg.
func WithCommandRegistry(reg commands.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// WithCronRegistrar schedules the markdown import when Config.Markdown.Schedule is set.
func WithCronRegistrar(reg commands.CronRegistrar) Option {
	return func(c *Container) {
		c.cronRegistrar = reg
	}
}

// WithCommandDispatch subscribes command handlers to the go-command dispatcher.
func WithCommandDispatch() Option {
	return func(c *Container) {
		c.dispatch = true
	}
}

// WithInitializer appends an initializer that runs after the built-in ones.
func WithInitializer(init interfaces.Initializer) Option {
	return func(c *Container) {
		if init != nil {
			c.initializers = append(c.initializers, init)
		}
	}
}

// NewContainer validates cfg and builds every service. The rewrite table is
// empty until Init runs.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	extra := c.initializers

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	c.registry = posttypes.NewRegistry(c.postTypeRepo,
		posttypes.WithLogger(logging.PostTypesLogger(c.loggerProvider)),
	)
	c.postSvc = posts.NewService(c.postRepo, c.registry,
		posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
	)

	c.configurePermalinks()
	c.configureRewrite()
	c.resolver = resolver.New(c.compiler, c.postSvc,
		resolver.WithLogger(logging.ResolverLogger(c.loggerProvider)),
	)

	if err := c.configureMarkdown(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		_ = c.Close()
		return nil, err
	}

	registrar := landingpages.NewRegistrar(c.registry,
		landingpages.WithLogger(logging.PostTypesLogger(c.loggerProvider)),
	)
	c.initializers = append([]interfaces.Initializer{registrar}, extra...)

	c.logger.Info("container.configured",
		"storage", c.storageName(),
		"strip_slug_types", c.remover.PostTypes(),
		"markdown", c.markdownSvc != nil,
		"commands", cfg.Features.Commands,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "slugless.di")
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), runtimeconfig.StorageBun) {
		return nil
	}
	db, err := storage.Open(c.Config.Storage)
	if err != nil {
		return err
	}
	if err := storage.EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache.disabled", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.postTypeRepo == nil {
			c.postTypeRepo = posttypes.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.postRepo == nil {
			c.postRepo = posts.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
	}
	if c.postTypeRepo == nil {
		c.postTypeRepo = posttypes.NewMemoryRepository()
	}
	if c.postRepo == nil {
		c.postRepo = posts.NewMemoryRepository()
	}
}

func (c *Container) configurePermalinks() {
	logger := logging.PermalinksLogger(c.loggerProvider)

	removerOpts := []permalinks.Option{
		permalinks.WithLinkPriority(c.Config.Permalinks.LinkPriority),
		permalinks.WithRoutePattern(c.Config.Permalinks.FallbackPattern),
		permalinks.WithLogger(logger),
	}
	if types := c.Config.Permalinks.StripSlugTypes; len(types) > 0 {
		removerOpts = append(removerOpts, permalinks.WithPostTypes(types...))
	}
	c.remover = permalinks.NewSlugRemover(c.registry, removerOpts...)

	routes := c.Config.Routes
	if routes.RouteConfig != nil {
		c.routeManager = urlkit.NewRouteManager(routes.RouteConfig)
	}
	c.generator = permalinks.NewGenerator(c.registry, permalinks.GeneratorOptions{
		Manager: c.routeManager,
		Group:   strings.TrimSpace(routes.Group),
		BaseURL: routes.BaseURL,
		Front:   routes.Front,
		Logger:  logger,
	})
	c.generator.AddTransformer(c.remover)
}

func (c *Container) configureRewrite() {
	static := make([]rewrite.Rule, 0, len(c.Config.Routes.StaticRules))
	for _, rule := range c.Config.Routes.StaticRules {
		static = append(static, rewrite.Rule{
			Pattern: strings.TrimSpace(rule.Pattern),
			Query:   strings.TrimSpace(rule.Query),
		})
	}
	c.compiler = rewrite.NewCompiler(c.registry,
		rewrite.WithStaticRules(static...),
		rewrite.WithFront(c.Config.Routes.Front),
		rewrite.WithLogger(logging.RewriteLogger(c.loggerProvider)),
	)
	c.compiler.AddExtender(c.remover)
}

func (c *Container) configureMarkdown() error {
	if c.markdownSvc != nil || !c.Config.Markdown.Enabled {
		return nil
	}
	mdCfg := c.Config.Markdown
	svc, err := markdown.NewService(markdown.Config{
		BasePath:  mdCfg.ContentDir,
		Pattern:   mdCfg.Pattern,
		Recursive: mdCfg.Recursive,
		Parser: interfaces.ParseOptions{
			Extensions: mdCfg.Parser.Extensions,
			HardWraps:  mdCfg.Parser.HardWraps,
			SafeMode:   mdCfg.Parser.SafeMode,
		},
	}, c.postSvc, markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureCommands() error {
	if !c.Config.Features.Commands {
		return nil
	}

	flush, err := rewritecmd.RegisterRewriteCommands(c.commandRegistry, c.compiler, c.loggerProvider)
	if err != nil {
		return err
	}
	c.flushHandler = flush

	register, err := posttypescmd.RegisterPostTypeCommands(c.commandRegistry, c.registry, c.compiler, c.loggerProvider)
	if err != nil {
		return err
	}
	c.postTypeHandler = register

	if c.dispatch {
		c.subscriptions = append(c.subscriptions,
			dispatcher.SubscribeCommand(flush),
			dispatcher.SubscribeCommand(register),
		)
	}

	if c.markdownSvc == nil {
		return nil
	}
	gates := markdowncmd.FeatureGates{
		MarkdownEnabled: func() bool { return c.Config.Features.Markdown },
	}
	set, err := markdowncmd.RegisterMarkdownCommands(c.commandRegistry, c.markdownSvc, c.loggerProvider, gates)
	if err != nil {
		return err
	}
	c.markdownHandlers = set

	if c.dispatch {
		c.subscriptions = append(c.subscriptions, dispatcher.SubscribeCommand(set.Import))
	}

	if schedule := strings.TrimSpace(c.Config.Markdown.Schedule); schedule != "" {
		msg := markdowncmd.ImportDirectoryCommand{Directory: "."}
		if err := markdowncmd.RegisterMarkdownCron(c.cronRegistrar, set.Import, command.HandlerConfig{Expression: schedule}, msg); err != nil {
			return err
		}
	}
	return nil
}

// Init runs every initializer in registration order, the landing page
// registrar first, then compiles the rewrite table.
func (c *Container) Init(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	for _, init := range c.initializers {
		if err := init.Init(ctx); err != nil {
			c.logger.Error("container.init.failed", "error", err)
			return err
		}
	}
	table, err := c.compiler.Compile(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("container.initialized", "initializers", len(c.initializers), "rules", table.Len())
	return nil
}

// Close drops dispatcher subscriptions and closes a database opened from config.
func (c *Container) Close() error {
	for _, sub := range c.subscriptions {
		sub.Unsubscribe()
	}
	c.subscriptions = nil

	var errs error
	if c.ownsDB && c.bunDB != nil {
		errs = errors.Join(errs, c.bunDB.Close())
		c.bunDB = nil
		c.ownsDB = false
	}
	return errs
}

// LoggerProvider exposes the configured logger provider. It is nil when
// logging is disabled and none was injected.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the database, nil for memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

func (c *Container) PostTypeRegistry() posttypes.Registry {
	return c.registry
}

func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// SlugRemover returns the single remover shared by the generator and the compiler.
func (c *Container) SlugRemover() *permalinks.SlugRemover {
	return c.remover
}

func (c *Container) Generator() *permalinks.Generator {
	return c.generator
}

func (c *Container) RuleCompiler() *rewrite.Compiler {
	return c.compiler
}

func (c *Container) Resolver() *resolver.Resolver {
	return c.resolver
}

// MarkdownService is nil unless markdown is enabled or injected.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// FlushRulesHandler is nil unless Features.Commands is set.
func (c *Container) FlushRulesHandler() *rewritecmd.FlushRulesHandler {
	return c.flushHandler
}

// RegisterPostTypeHandler is nil unless Features.Commands is set.
func (c *Container) RegisterPostTypeHandler() *posttypescmd.RegisterPostTypeHandler {
	return c.postTypeHandler
}

// MarkdownHandlers is nil unless commands and markdown are both enabled.
func (c *Container) MarkdownHandlers() *markdowncmd.HandlerSet {
	return c.markdownHandlers
}

func (c *Container) storageName() string {
	if c.bunDB == nil {
		return runtimeconfig.StorageMemory
	}
	return c.bunDB.Dialect().Name().String()
}
