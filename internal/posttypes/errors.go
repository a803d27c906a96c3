package posttypes

import (
	"errors"
	"fmt"
)

var (
	ErrRegistryUnavailable = errors.New("post types: registry unavailable")
	ErrKeyRequired         = errors.New("post types: key is required")
)

// NotFoundError reports a missing post type.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return "post type not found"
	}
	return fmt.Sprintf("post type %q not found", e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
