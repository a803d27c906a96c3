package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-slugless/internal/openapi"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/rewrite"
)

// RuleCompiler exposes the rewrite table and rebuilds it on demand.
type RuleCompiler interface {
	Table() *rewrite.Table
	Compile(ctx context.Context) (*rewrite.Table, error)
}

// API registers read endpoints for post types, posts and rewrite rules.
type API struct {
	basePath  string
	postTypes posttypes.Registry
	posts     posts.Service
	links     PermalinkBuilder
	rules     RuleCompiler
	routes    []route
}

// APIOption mutates the API configuration.
type APIOption func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...APIOption) *API {
	api := &API{basePath: "/api"}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) APIOption {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithPostTypes wires the post type registry.
func WithPostTypes(registry posttypes.Registry) APIOption {
	return func(api *API) {
		api.postTypes = registry
	}
}

// WithPosts wires the post service.
func WithPosts(service posts.Service) APIOption {
	return func(api *API) {
		api.posts = service
	}
}

// WithPermalinks wires the link generator used in post responses.
func WithPermalinks(links PermalinkBuilder) APIOption {
	return func(api *API) {
		api.links = links
	}
}

// WithRules wires the rewrite compiler.
func WithRules(rules RuleCompiler) APIOption {
	return func(api *API) {
		api.rules = rules
	}
}

// Register attaches the endpoints to mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")
	types := joinPath(base, "post-types")
	items := joinPath(base, "posts")

	api.routes = []route{
		{method: http.MethodGet, path: types, summary: "List registered post types", handler: api.handlePostTypeList},
		{method: http.MethodGet, path: types + "/{key}", summary: "Get a post type by key", handler: api.handlePostTypeGet},
		{method: http.MethodGet, path: items, summary: "List posts, optionally filtered by type", handler: api.handlePostList},
		{method: http.MethodGet, path: items + "/{id}", summary: "Get a post by id", handler: api.handlePostGet},
		{method: http.MethodGet, path: joinPath(base, "rewrite/rules"), summary: "List compiled rewrite rules", handler: api.handleRuleList},
		{method: http.MethodPost, path: joinPath(base, "rewrite/flush"), summary: "Rebuild the rewrite table", handler: api.handleRuleFlush},
	}
	mux.HandleFunc("GET "+joinPath(base, "openapi.json"), api.handleOpenAPI)
	for _, rt := range api.routes {
		mux.HandleFunc(rt.method+" "+rt.path, rt.handler)
	}
	return nil
}

type route struct {
	method  string
	path    string
	summary string
	handler http.HandlerFunc
}

func (api *API) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc := openapi.NewDocument("slugless", "1.0.0")
	for _, rt := range api.routes {
		doc.AddOperation(rt.method, rt.path, rt.summary)
	}
	if api.postTypes != nil {
		records, err := api.postTypes.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		keys := make([]string, 0, len(records))
		for _, record := range records {
			keys = append(keys, record.Key)
			doc.AddSchema(openapi.SchemaName(record.Key), record.FieldSchema)
		}
		doc.SetExtension("x-post-types", keys)
	}
	if api.rules != nil {
		if table := api.rules.Table(); table != nil {
			doc.SetExtension("x-rewrite-rules", table.Len())
		}
	}
	writeJSON(w, http.StatusOK, doc.AsMap())
}

func (api *API) handlePostTypeList(w http.ResponseWriter, r *http.Request) {
	if api.postTypes == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	records, err := api.postTypes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *API) handlePostTypeGet(w http.ResponseWriter, r *http.Request) {
	if api.postTypes == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	record, err := api.postTypes.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handlePostList(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	records, err := api.posts.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]postResponse, 0, len(records))
	for _, record := range records {
		out = append(out, api.postResponse(r.Context(), record))
	}
	writeJSON(w, http.StatusOK, out)
}

func (api *API) handlePostGet(w http.ResponseWriter, r *http.Request) {
	if api.posts == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.postResponse(r.Context(), record))
}

func (api *API) handleRuleList(w http.ResponseWriter, r *http.Request) {
	if api.rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, api.rules.Table().Rules())
}

func (api *API) handleRuleFlush(w http.ResponseWriter, r *http.Request) {
	if api.rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	table, err := api.rules.Compile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table.Rules())
}

func (api *API) postResponse(ctx context.Context, record *posts.Post) postResponse {
	resp := postResponse{Post: record}
	if api.links != nil {
		if link, err := api.links.Permalink(ctx, record); err == nil {
			resp.Permalink = link
		}
	}
	return resp
}
