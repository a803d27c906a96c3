package landingpages

import (
	"context"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

const (
	// PostTypeKey identifies landing pages.
	PostTypeKey = "landing_page"
	// RewriteSlug is the path segment landing page links carry before slug removal.
	RewriteSlug = "landing-page"
)

// Registrar declares the landing_page post type.
type Registrar struct {
	registry    posttypes.Registry
	fieldSchema map[string]any
	logger      interfaces.Logger
}

// Option configures a Registrar.
type Option func(*Registrar)

// WithFieldSchema attaches a JSON schema for landing page custom fields.
func WithFieldSchema(schema map[string]any) Option {
	return func(r *Registrar) {
		r.fieldSchema = schema
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Registrar) {
		r.logger = logging.Ensure(logger)
	}
}

func NewRegistrar(registry posttypes.Registry, opts ...Option) *Registrar {
	r := &Registrar{
		registry: registry,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Definition returns the landing_page registration request.
func (r *Registrar) Definition() posttypes.RegisterRequest {
	return posttypes.RegisterRequest{
		Key:          PostTypeKey,
		Name:         "Landing Pages",
		SingularName: "Landing Page",
		Public:       true,
		HasArchive:   false,
		Rewrite:      posttypes.Rewrite{Slug: RewriteSlug, WithFront: false},
		Supports: []posttypes.Capability{
			posttypes.CapabilityTitle,
			posttypes.CapabilityEditor,
			posttypes.CapabilityThumbnail,
			posttypes.CapabilityCustomFields,
		},
		FieldSchema: r.fieldSchema,
	}
}

// Init registers landing_page. Calling it again returns the stored type.
func (r *Registrar) Init(ctx context.Context) error {
	if r.registry == nil {
		return posttypes.ErrRegistryUnavailable
	}
	pt, err := r.registry.Register(ctx, r.Definition())
	if err != nil {
		return err
	}
	r.logger.Debug("landingpages.registered", "post_type", pt.Key, "id", pt.ID.String())
	return nil
}
