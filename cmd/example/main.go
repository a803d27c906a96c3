package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	slugless "github.com/goliatone/go-slugless"
	"github.com/goliatone/go-slugless/internal/di"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("slugless example: %v", err)
	}
}

func run(ctx context.Context) error {
	baseURL := envOr("SLUGLESS_BASE_URL", "http://localhost:8080")

	cfg := slugless.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = envOr("SLUGLESS_LOG_LEVEL", "info")
	cfg.Logging.Format = envOr("SLUGLESS_LOG_FORMAT", "console")
	cfg.Routes.BaseURL = baseURL
	cfg.Routes.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: baseURL,
				Paths: map[string]string{
					"landing_page": "/landing-page/:name/",
				},
			},
		},
	}
	cfg.Routes.StaticRules = []slugless.RuleConfig{
		{Pattern: `feed/?$`, Query: "index.php?feed=rss2"},
	}
	if dsn := strings.TrimSpace(os.Getenv("SLUGLESS_DSN")); dsn != "" {
		cfg.Storage = slugless.StorageConfig{
			Provider: "bun",
			Driver:   envOr("SLUGLESS_DRIVER", "sqlite3"),
			DSN:      dsn,
		}
	}

	var module *slugless.Module
	eventType := interfaces.InitializerFunc(func(ctx context.Context) error {
		return registerEventType(ctx, module)
	})

	module, err := slugless.New(cfg, di.WithInitializer(eventType))
	if err != nil {
		return fmt.Errorf("initialise module: %w", err)
	}
	defer module.Close()

	if err := module.Init(ctx); err != nil {
		return fmt.Errorf("init module: %w", err)
	}
	if err := seed(ctx, module); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	for _, rule := range module.Rules() {
		log.Printf("rule %-28s => %s", rule.Pattern, rule.Query)
	}

	mux := http.NewServeMux()
	if err := module.RegisterAPI(mux, "/api"); err != nil {
		return err
	}
	mux.Handle("/", module.Handler())

	server := &http.Server{
		Addr:              envOr("SLUGLESS_ADDR", ":8080"),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func registerEventType(ctx context.Context, m *slugless.Module) error {
	if m == nil {
		return errors.New("module not built")
	}
	_, err := m.PostTypes().Register(ctx, slugless.RegisterPostTypeRequest{
		Key:          "event",
		Name:         "Events",
		SingularName: "Event",
		Public:       true,
		HasArchive:   true,
	})
	return err
}

func seed(ctx context.Context, m *slugless.Module) error {
	requests := []slugless.CreatePostRequest{
		{Type: "landing_page", Title: "Spring Offer", Status: slugless.StatusPublish, Body: "<h1>Spring Offer</h1>"},
		{Type: "landing_page", Title: "Coming Soon", Status: slugless.StatusDraft},
		{Type: "event", Title: "Product Launch", Status: slugless.StatusPublish},
	}
	for _, req := range requests {
		post, err := m.Posts().Create(ctx, req)
		if err != nil {
			if errors.Is(err, slugless.ErrPostNameConflict) {
				continue
			}
			return err
		}
		link, err := m.Permalink(ctx, post, false)
		if err != nil {
			return err
		}
		log.Printf("%s %q (%s) => %s", post.Type, post.Title, post.Status, link)
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
