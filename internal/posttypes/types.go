package posttypes

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Capability names an editing feature a post type supports.
type Capability string

const (
	CapabilityTitle        Capability = "title"
	CapabilityEditor       Capability = "editor"
	CapabilityThumbnail    Capability = "thumbnail"
	CapabilityCustomFields Capability = "custom-fields"
)

var knownCapabilities = []Capability{
	CapabilityTitle,
	CapabilityEditor,
	CapabilityThumbnail,
	CapabilityCustomFields,
}

// Rewrite holds the URL settings for a post type.
type Rewrite struct {
	Slug      string `json:"slug,omitempty"`
	WithFront bool   `json:"with_front"`
}

// PostType describes a category of posts and its URL conventions.
type PostType struct {
	bun.BaseModel `bun:"table:post_types,alias:pt"`

	ID           uuid.UUID      `bun:",pk,type:uuid"                  json:"id"`
	Key          string         `bun:"type_key,notnull,unique"        json:"key"`
	Name         string         `bun:"name"                           json:"name"`
	SingularName string         `bun:"singular_name"                  json:"singular_name"`
	Public       bool           `bun:"public,notnull,default:false"   json:"public"`
	HasArchive   bool           `bun:"has_archive,notnull,default:false" json:"has_archive"`
	Rewrite      Rewrite        `bun:"rewrite,type:jsonb"             json:"rewrite"`
	Supports     []Capability   `bun:"supports,type:jsonb"            json:"supports,omitempty"`
	FieldSchema  map[string]any `bun:"field_schema,type:jsonb"        json:"field_schema,omitempty"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// HasSupport reports whether the post type declares capability.
func (pt *PostType) HasSupport(capability Capability) bool {
	if pt == nil {
		return false
	}
	return slices.Contains(pt.Supports, capability)
}

func clonePostType(src *PostType) *PostType {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Supports = slices.Clone(src.Supports)
	copied.FieldSchema = cloneMap(src.FieldSchema)
	return &copied
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
