package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-slugless/internal/landingpages"
	"github.com/goliatone/go-slugless/internal/permalinks"
	"github.com/goliatone/go-slugless/internal/posts"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/resolver"
	"github.com/goliatone/go-slugless/internal/rewrite"
)

type testServices struct {
	posts posts.Service
}

func setupHandlers(t *testing.T) (*http.ServeMux, testServices) {
	t.Helper()
	ctx := context.Background()

	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())
	if err := landingpages.NewRegistrar(registry).Init(ctx); err != nil {
		t.Fatalf("register: %v", err)
	}
	postSvc := posts.NewService(posts.NewMemoryRepository(), registry)

	remover := permalinks.NewSlugRemover(registry)
	generator := permalinks.NewGenerator(registry, permalinks.GeneratorOptions{BaseURL: "https://example.com"})
	generator.AddTransformer(remover)

	compiler := rewrite.NewCompiler(registry)
	compiler.AddExtender(remover)
	if _, err := compiler.Compile(ctx); err != nil {
		t.Fatalf("compile: %v", err)
	}

	mux := http.NewServeMux()
	api := NewAPI(
		WithPostTypes(registry),
		WithPosts(postSvc),
		WithPermalinks(generator),
		WithRules(compiler),
	)
	if err := api.Register(mux); err != nil {
		t.Fatalf("register api: %v", err)
	}
	mux.Handle("/", NewPermalinkHandler(resolver.New(compiler, postSvc), generator, nil))
	return mux, testServices{posts: postSvc}
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, &bytes.Buffer{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d got %d (%s)", wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createPost(t *testing.T, svc posts.Service, title string, status posts.Status) *posts.Post {
	t.Helper()
	post, err := svc.Create(context.Background(), posts.CreateRequest{Type: "landing_page", Title: title, Status: status})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func TestPermalinkHandlerServesPublishedPost(t *testing.T) {
	mux, svc := setupHandlers(t)
	created := createPost(t, svc.posts, "My Page", posts.StatusPublish)

	rec := doRequest(t, mux, http.MethodGet, "/my-page/", http.StatusOK)

	var resp postResponse
	decodeJSONBody(t, rec, &resp)
	if resp.Post == nil || resp.Post.ID != created.ID {
		t.Fatalf("unexpected post %+v", resp.Post)
	}
	if resp.Permalink != "https://example.com/my-page/" {
		t.Fatalf("expected slugless permalink, got %q", resp.Permalink)
	}
}

func TestPermalinkHandlerNotFound(t *testing.T) {
	mux, svc := setupHandlers(t)
	createPost(t, svc.posts, "Hidden", posts.StatusDraft)

	doRequest(t, mux, http.MethodGet, "/hidden/", http.StatusNotFound)
	doRequest(t, mux, http.MethodGet, "/nested/path/here/", http.StatusNotFound)
}

func TestPermalinkHandlerRejectsOtherMethods(t *testing.T) {
	mux, _ := setupHandlers(t)

	rec := doRequest(t, mux, http.MethodPost, "/my-page/", http.StatusMethodNotAllowed)
	if rec.Header().Get("Allow") != "GET, HEAD" {
		t.Fatalf("expected Allow header, got %q", rec.Header().Get("Allow"))
	}
}

func TestAPIListsPostTypesAndRules(t *testing.T) {
	mux, _ := setupHandlers(t)

	var types []*posttypes.PostType
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/post-types", http.StatusOK), &types)
	if len(types) != 1 || types[0].Key != "landing_page" {
		t.Fatalf("unexpected post types %+v", types)
	}

	doRequest(t, mux, http.MethodGet, "/api/post-types/unknown", http.StatusNotFound)

	var rules []rewrite.Rule
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/rewrite/rules", http.StatusOK), &rules)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %+v", rules)
	}
	if rules[1].Pattern != `([^/]+)/?$` {
		t.Fatalf("expected slugless rule last, got %+v", rules[1])
	}

	doRequest(t, mux, http.MethodPost, "/api/rewrite/flush", http.StatusOK)
}

func TestAPIGetPostIncludesPermalink(t *testing.T) {
	mux, svc := setupHandlers(t)
	created := createPost(t, svc.posts, "Offer", posts.StatusPublish)

	var resp postResponse
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/posts/"+created.ID.String(), http.StatusOK), &resp)
	if resp.Permalink != "https://example.com/offer/" {
		t.Fatalf("unexpected permalink %q", resp.Permalink)
	}

	doRequest(t, mux, http.MethodGet, "/api/posts/not-a-uuid", http.StatusBadRequest)

	var list []postResponse
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/posts?type=landing_page", http.StatusOK), &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 post, got %d", len(list))
	}
}

func TestAPIServesOpenAPIDocument(t *testing.T) {
	mux, _ := setupHandlers(t)

	var doc map[string]any
	decodeJSONBody(t, doRequest(t, mux, http.MethodGet, "/api/openapi.json", http.StatusOK), &doc)

	if doc["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", doc["openapi"])
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatalf("expected paths object, got %T", doc["paths"])
	}
	for _, path := range []string{"/api/post-types", "/api/posts/{id}", "/api/rewrite/flush"} {
		if _, ok := paths[path]; !ok {
			t.Fatalf("expected path %s in %v", path, paths)
		}
	}
	types, ok := doc["x-post-types"].([]any)
	if !ok || len(types) != 1 || types[0] != "landing_page" {
		t.Fatalf("unexpected x-post-types %v", doc["x-post-types"])
	}
	if doc["x-rewrite-rules"] != float64(2) {
		t.Fatalf("expected 2 rules, got %v", doc["x-rewrite-rules"])
	}
}
