package resolver

import (
	"context"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/rewrite"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

var (
	ErrNoRouteMatched = errors.New("resolver: no rewrite rule matched")
	ErrPostNotFound   = errors.New("resolver: post not found")
)

const (
	noRouteMatchedCode = "ROUTE_NOT_MATCHED"
	postNotFoundCode   = "POST_NOT_FOUND"
)

// TableSource exposes the current rewrite table.
type TableSource interface {
	Table() *rewrite.Table
}

// PostFinder loads a post by type and name.
type PostFinder interface {
	GetByName(ctx context.Context, postType, name string) (*posts.Post, error)
}

// Resolver maps request paths to published posts.
type Resolver struct {
	rules  TableSource
	posts  PostFinder
	logger interfaces.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.Ensure(logger)
	}
}

func New(rules TableSource, finder PostFinder, opts ...Option) *Resolver {
	r := &Resolver{
		rules:  rules,
		posts:  finder,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the published post addressed by path. The first matching
// rule must yield both post_type and name. A comma separated post_type is
// tried type by type and the first published post wins.
func (r *Resolver) Resolve(ctx context.Context, path string) (*posts.Post, error) {
	logger := logging.WithPostContext(r.logger, "", "", path)

	var table *rewrite.Table
	if r.rules != nil {
		table = r.rules.Table()
	}
	match, ok := table.Match(path)
	if !ok {
		logger.Debug("resolver.no_match")
		return nil, noRouteMatched(path)
	}

	postTypes := splitPostTypes(match.Values.Get("post_type"))
	name := strings.TrimSpace(match.Values.Get("name"))
	if len(postTypes) == 0 || name == "" {
		logger.Debug("resolver.incomplete_query", "query", match.Query)
		return nil, noRouteMatched(path)
	}
	if r.posts == nil {
		return nil, postNotFound(path)
	}

	for _, postType := range postTypes {
		logger = logging.WithPostContext(r.logger, postType, name, path)
		post, err := r.posts.GetByName(ctx, postType, name)
		if err != nil {
			if posts.IsNotFound(err) {
				logger.Debug("resolver.post_missing")
				continue
			}
			logger.Error("resolver.lookup_failed", "error", err)
			return nil, err
		}
		if !post.Published() {
			logger.Debug("resolver.post_unpublished", "status", string(post.Status))
			continue
		}
		return post, nil
	}
	return nil, postNotFound(path)
}

func splitPostTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsNotFound reports whether err means path addresses no visible post.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoRouteMatched) || errors.Is(err, ErrPostNotFound) ||
		goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

func noRouteMatched(path string) error {
	return goerrors.Wrap(ErrNoRouteMatched, goerrors.CategoryNotFound, "no route matched "+path).
		WithTextCode(noRouteMatchedCode)
}

func postNotFound(path string) error {
	return goerrors.Wrap(ErrPostNotFound, goerrors.CategoryNotFound, "no published post at "+path).
		WithTextCode(postNotFoundCode)
}
