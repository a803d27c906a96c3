package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a stable UUID from key with go-hashid, falling back to a SHA1
// name-based UUID if hashing fails. Keys must carry a domain prefix.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostTypeUUID returns the id for a post type key.
func PostTypeUUID(key string) uuid.UUID {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return uuid.Nil
	}
	return UUID("slugless:post_type:" + key)
}

// PostUUID returns the id for a post identified by type and name.
func PostUUID(postType, name string) uuid.UUID {
	postType = strings.ToLower(strings.TrimSpace(postType))
	name = strings.TrimSpace(name)
	if postType == "" || name == "" {
		return uuid.Nil
	}
	return UUID("slugless:post:" + postType + ":" + name)
}
