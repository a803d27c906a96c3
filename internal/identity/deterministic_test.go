package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPostTypeUUIDIsStable(t *testing.T) {
	first := PostTypeUUID("landing_page")
	second := PostTypeUUID("  Landing_Page ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil id")
	}
	if first != second {
		t.Fatalf("expected normalised keys to share an id, got %s and %s", first, second)
	}
	if PostTypeUUID("post") == first {
		t.Fatal("expected different keys to produce different ids")
	}
}

func TestPostUUIDScopesByType(t *testing.T) {
	a := PostUUID("landing_page", "my-page")
	b := PostUUID("post", "my-page")
	if a == uuid.Nil || b == uuid.Nil {
		t.Fatal("expected non-nil ids")
	}
	if a == b {
		t.Fatal("expected post ids to be scoped by type")
	}
	if PostUUID("", "my-page") != uuid.Nil {
		t.Fatal("expected nil id for blank type")
	}
}
