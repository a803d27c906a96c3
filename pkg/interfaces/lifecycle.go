package interfaces

import "context"

// Initializer runs once when the module receives its startup signal.
type Initializer interface {
	Init(ctx context.Context) error
}

// InitializerFunc adapts a function into an Initializer.
type InitializerFunc func(ctx context.Context) error

// Init calls f(ctx).
func (f InitializerFunc) Init(ctx context.Context) error {
	if f == nil {
		return nil
	}
	return f(ctx)
}
