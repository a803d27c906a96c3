package posttypes

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-slugless/internal/identity"
	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Registry declares post types and looks them up by key.
type Registry interface {
	Register(ctx context.Context, req RegisterRequest) (*PostType, error)
	Get(ctx context.Context, key string) (*PostType, error)
	List(ctx context.Context) ([]*PostType, error)
}

// Lookup is the read side of Registry.
type Lookup interface {
	Get(ctx context.Context, key string) (*PostType, error)
}

// RegisterRequest declares a post type.
type RegisterRequest struct {
	Key          string
	Name         string
	SingularName string
	Public       bool
	HasArchive   bool
	Rewrite      Rewrite
	Supports     []Capability
	FieldSchema  map[string]any
}

// Validate checks the key format, the rewrite slug and the capabilities.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Key,
			validation.Required,
			validation.Length(1, 20),
			validation.Match(keyPattern).Error("must contain lowercase letters, digits, dashes or underscores"),
		),
		validation.Field(&r.Rewrite, validation.By(validateRewrite)),
		validation.Field(&r.Supports, validation.By(validateSupports)),
	)
}

func validateRewrite(value any) error {
	rewrite, _ := value.(Rewrite)
	trimmed := strings.Trim(strings.TrimSpace(rewrite.Slug), "/")
	if trimmed == "" {
		return nil
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if !slug.IsValid(segment) {
			return validation.NewError("posttypes.rewrite.slug_invalid", fmt.Sprintf("rewrite slug segment %q is not a valid slug", segment))
		}
	}
	return nil
}

func validateSupports(value any) error {
	supports, _ := value.([]Capability)
	for _, capability := range supports {
		if !slices.Contains(knownCapabilities, capability) {
			return validation.NewError("posttypes.supports.unknown", fmt.Sprintf("unknown capability %q", capability))
		}
	}
	return nil
}

// Option configures the registry.
type Option func(*registry)

// WithClock overrides the clock.
func WithClock(clock func() time.Time) Option {
	return func(r *registry) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithIDGenerator overrides the deterministic key based id.
func WithIDGenerator(generator func(key string) uuid.UUID) Option {
	return func(r *registry) {
		if generator != nil {
			r.id = generator
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *registry) {
		r.logger = logging.Ensure(logger)
	}
}

// NewRegistry builds a registry over repo.
func NewRegistry(repo Repository, opts ...Option) Registry {
	r := &registry{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		id:     identity.PostTypeUUID,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

type registry struct {
	repo   Repository
	now    func() time.Time
	id     func(key string) uuid.UUID
	logger interfaces.Logger
}

// Register stores a new post type. Registering a key that already exists
// returns the stored descriptor untouched.
func (r *registry) Register(ctx context.Context, req RegisterRequest) (*PostType, error) {
	if r == nil || r.repo == nil {
		return nil, ErrRegistryUnavailable
	}
	req.Key = strings.ToLower(strings.TrimSpace(req.Key))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger := logging.WithPostContext(r.logger, req.Key, "", "")

	existing, err := r.repo.GetByKey(ctx, req.Key)
	if err == nil {
		logger.Debug("posttypes.register.exists")
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	now := r.now()
	record := &PostType{
		ID:           r.id(req.Key),
		Key:          req.Key,
		Name:         strings.TrimSpace(req.Name),
		SingularName: strings.TrimSpace(req.SingularName),
		Public:       req.Public,
		HasArchive:   req.HasArchive,
		Rewrite: Rewrite{
			Slug:      strings.Trim(strings.TrimSpace(req.Rewrite.Slug), "/"),
			WithFront: req.Rewrite.WithFront,
		},
		Supports:    slices.Clone(req.Supports),
		FieldSchema: cloneMap(req.FieldSchema),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := r.repo.Create(ctx, record)
	if err != nil {
		logger.Error("posttypes.register.failed", "error", err)
		return nil, err
	}
	logger.Info("posttypes.registered", "rewrite_slug", created.Rewrite.Slug, "public", created.Public)
	return created, nil
}

func (r *registry) Get(ctx context.Context, key string) (*PostType, error) {
	if r == nil || r.repo == nil {
		return nil, ErrRegistryUnavailable
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, ErrKeyRequired
	}
	return r.repo.GetByKey(ctx, key)
}

func (r *registry) List(ctx context.Context) ([]*PostType, error) {
	if r == nil || r.repo == nil {
		return nil, ErrRegistryUnavailable
	}
	records, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(records, func(a, b *PostType) int {
		return strings.Compare(a.Key, b.Key)
	})
	return records, nil
}
