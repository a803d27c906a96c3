package http

import (
	"context"
	"net/http"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// PostResolver maps a request path to a published post.
type PostResolver interface {
	Resolve(ctx context.Context, path string) (*posts.Post, error)
}

// PermalinkBuilder returns the public link of a post.
type PermalinkBuilder interface {
	Permalink(ctx context.Context, post *posts.Post) (string, error)
}

type postResponse struct {
	Post      *posts.Post `json:"post"`
	Permalink string      `json:"permalink"`
}

// PermalinkHandler serves posts at their public paths.
type PermalinkHandler struct {
	resolver PostResolver
	links    PermalinkBuilder
	logger   interfaces.Logger
}

// NewPermalinkHandler builds a handler. logger may be nil.
func NewPermalinkHandler(resolver PostResolver, links PermalinkBuilder, logger interfaces.Logger) *PermalinkHandler {
	return &PermalinkHandler{
		resolver: resolver,
		links:    links,
		logger:   logging.Ensure(logger),
	}
}

func (h *PermalinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
		return
	}
	if h == nil || h.resolver == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	post, err := h.resolver.Resolve(r.Context(), r.URL.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := postResponse{Post: post}
	if h.links != nil {
		link, err := h.links.Permalink(r.Context(), post)
		if err != nil {
			logging.WithPostContext(h.logger, post.Type, post.Name, r.URL.Path).Warn("http.permalink_failed", "error", err)
		}
		resp.Permalink = link
	}
	writeJSON(w, http.StatusOK, resp)
}
