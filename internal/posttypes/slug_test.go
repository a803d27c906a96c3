package posttypes_test

import (
	"testing"

	"github.com/goliatone/go-slugless/internal/posttypes"
)

func TestResolveSlugPrecedence(t *testing.T) {
	cases := []struct {
		name string
		pt   *posttypes.PostType
		want string
	}{
		{name: "rewrite slug", pt: &posttypes.PostType{Name: "Landing Pages", Rewrite: posttypes.Rewrite{Slug: "landing-page"}}, want: "landing-page"},
		{name: "registered name", pt: &posttypes.PostType{Name: "Landing Page"}, want: "Landing Page"},
		{name: "raw key", pt: &posttypes.PostType{}, want: "landing_page"},
		{name: "nil post type", pt: nil, want: "landing_page"},
		{name: "whitespace slug is non-empty", pt: &posttypes.PostType{Name: "Landing Page", Rewrite: posttypes.Rewrite{Slug: " "}}, want: " "},
	}
	for _, tc := range cases {
		if got := posttypes.ResolveSlug(tc.pt, "landing_page"); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
