package posttypes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-slugless/internal/identity"
	"github.com/goliatone/go-slugless/internal/posttypes"
)

func landingPageRequest() posttypes.RegisterRequest {
	return posttypes.RegisterRequest{
		Key:          "landing_page",
		Name:         "Landing Pages",
		SingularName: "Landing Page",
		Public:       true,
		Rewrite:      posttypes.Rewrite{Slug: "landing-page"},
		Supports: []posttypes.Capability{
			posttypes.CapabilityTitle,
			posttypes.CapabilityEditor,
			posttypes.CapabilityThumbnail,
			posttypes.CapabilityCustomFields,
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository(), posttypes.WithClock(func() time.Time { return now }))

	created, err := registry.Register(ctx, landingPageRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID != identity.PostTypeUUID("landing_page") {
		t.Fatalf("expected deterministic id, got %s", created.ID)
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("expected clock to be used, got %s", created.CreatedAt)
	}

	got, err := registry.Get(ctx, "landing_page")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rewrite.Slug != "landing-page" || got.Rewrite.WithFront {
		t.Fatalf("unexpected rewrite %+v", got.Rewrite)
	}
	if !got.HasSupport(posttypes.CapabilityThumbnail) {
		t.Fatalf("expected thumbnail support")
	}
}

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())

	first, err := registry.Register(ctx, landingPageRequest())
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	req := landingPageRequest()
	req.Rewrite.Slug = "promo"
	second, err := registry.Register(ctx, req)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if second.ID != first.ID || second.Rewrite.Slug != "landing-page" {
		t.Fatalf("expected stored descriptor to win, got %+v", second)
	}

	all, err := registry.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one post type, got %d", len(all))
	}
}

func TestRegistryRegisterValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*posttypes.RegisterRequest)
		field  string
	}{
		{"missing key", func(r *posttypes.RegisterRequest) { r.Key = "" }, "Key"},
		{"key too long", func(r *posttypes.RegisterRequest) { r.Key = "a_very_long_post_type_key" }, "Key"},
		{"key with spaces", func(r *posttypes.RegisterRequest) { r.Key = "landing page" }, "Key"},
		{"invalid slug", func(r *posttypes.RegisterRequest) { r.Rewrite.Slug = "Landing Page!" }, "Rewrite"},
		{"unknown capability", func(r *posttypes.RegisterRequest) {
			r.Supports = append(r.Supports, posttypes.Capability("comments"))
		}, "Supports"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())
			req := landingPageRequest()
			tc.mutate(&req)

			_, err := registry.Register(context.Background(), req)
			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected validation errors, got %v", err)
			}
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tc.field, errs)
			}
		})
	}
}

func TestRegistryGetMissing(t *testing.T) {
	registry := posttypes.NewRegistry(posttypes.NewMemoryRepository())

	_, err := registry.Get(context.Background(), "landing_page")
	if !posttypes.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if _, err := registry.Get(context.Background(), " "); !errors.Is(err, posttypes.ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}

func TestServiceResolveSlugPrecedence(t *testing.T) {
	cases := []struct {
		name string
		pt   *posttypes.PostType
		want string
	}{
		{"rewrite slug", &posttypes.PostType{Name: "Landing Page", Rewrite: posttypes.Rewrite{Slug: "landing-page"}}, "landing-page"},
		{"registered name", &posttypes.PostType{Name: "Landing Page"}, "Landing Page"},
		{"raw key", &posttypes.PostType{}, "landing_page"},
		{"missing descriptor", nil, "landing_page"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := posttypes.ResolveSlug(tc.pt, "landing_page"); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
