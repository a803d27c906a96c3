package posts

import (
	"errors"
	"fmt"
)

var (
	ErrServiceUnavailable    = errors.New("posts: service unavailable")
	ErrIDRequired            = errors.New("posts: id is required")
	ErrTypeRequired          = errors.New("posts: post type is required")
	ErrNameRequired          = errors.New("posts: name or title is required")
	ErrStatusInvalid         = errors.New("posts: status is invalid")
	ErrNameConflict          = errors.New("posts: name already used by another post of the same type")
	ErrCapabilityUnsupported = errors.New("posts: post type does not support field")
)

// NotFoundError reports a missing post.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "post not found"
	}
	return fmt.Sprintf("post %q not found", e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func nameKey(postType, name string) string {
	return postType + "/" + name
}
