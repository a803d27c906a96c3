package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status is the publication state of a post.
type Status string

const (
	StatusPublish Status = "publish"
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusPrivate Status = "private"
	StatusFuture  Status = "future"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPublish, StatusDraft, StatusPending, StatusPrivate, StatusFuture:
		return true
	default:
		return false
	}
}

// Post is a single content item of some post type.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID           uuid.UUID      `bun:",pk,type:uuid"               json:"id"`
	Type         string         `bun:"post_type,notnull"           json:"type"`
	Name         string         `bun:"name,notnull"                json:"name"`
	Title        string         `bun:"title"                       json:"title"`
	Body         string         `bun:"body"                        json:"body,omitempty"`
	Status       Status         `bun:"status,notnull,default:'draft'" json:"status"`
	Thumbnail    string         `bun:"thumbnail"                   json:"thumbnail,omitempty"`
	CustomFields map[string]any `bun:"custom_fields,type:jsonb"    json:"custom_fields,omitempty"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Published reports whether the post is publicly visible.
func (p *Post) Published() bool {
	return p != nil && p.Status == StatusPublish
}

func clonePost(src *Post) *Post {
	if src == nil {
		return nil
	}
	copied := *src
	if src.CustomFields != nil {
		copied.CustomFields = make(map[string]any, len(src.CustomFields))
		for k, v := range src.CustomFields {
			copied.CustomFields[k] = v
		}
	}
	return &copied
}
