package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// Service manages posts.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Post, error)
	Update(ctx context.Context, req UpdateRequest) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetByName(ctx context.Context, postType, name string) (*Post, error)
	List(ctx context.Context, postType string) ([]*Post, error)
}

// CreateRequest describes a new post. Name defaults to the slugified title.
type CreateRequest struct {
	Type         string
	Name         string
	Title        string
	Body         string
	Status       Status
	Thumbnail    string
	CustomFields map[string]any
}

// UpdateRequest changes the non-nil fields of a post.
type UpdateRequest struct {
	ID           uuid.UUID
	Title        *string
	Body         *string
	Status       *Status
	Thumbnail    *string
	CustomFields map[string]any
}

// Option configures the service.
type Option func(*service)

// WithClock overrides the clock.
func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides uuid.New.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

// NewService builds a post service. Post types are checked through types.
func NewService(repo Repository, types posttypes.Lookup, opts ...Option) Service {
	s := &service{
		repo:   repo,
		types:  types,
		now:    func() time.Time { return time.Now().UTC() },
		id:     uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type service struct {
	repo   Repository
	types  posttypes.Lookup
	now    func() time.Time
	id     func() uuid.UUID
	logger interfaces.Logger
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Post, error) {
	if s == nil || s.repo == nil || s.types == nil {
		return nil, ErrServiceUnavailable
	}

	postType := strings.ToLower(strings.TrimSpace(req.Type))
	if postType == "" {
		return nil, ErrTypeRequired
	}
	pt, err := s.types.Get(ctx, postType)
	if err != nil {
		return nil, err
	}

	name, err := NormalizeName(req.Name, req.Title)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, status)
	}

	record := &Post{
		ID:           s.id(),
		Type:         postType,
		Name:         name,
		Title:        strings.TrimSpace(req.Title),
		Body:         req.Body,
		Status:       status,
		Thumbnail:    strings.TrimSpace(req.Thumbnail),
		CustomFields: req.CustomFields,
	}
	if err := checkSupport(pt, record); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByName(ctx, postType, name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrNameConflict, nameKey(postType, name))
	} else if !IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	logging.WithPostContext(s.logger, postType, name, "").Info("posts.created", "status", string(created.Status))
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Post, error) {
	if s == nil || s.repo == nil || s.types == nil {
		return nil, ErrServiceUnavailable
	}
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	pt, err := s.types.Get(ctx, record.Type)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		record.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		record.Body = *req.Body
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrStatusInvalid, *req.Status)
		}
		record.Status = *req.Status
	}
	if req.Thumbnail != nil {
		record.Thumbnail = strings.TrimSpace(*req.Thumbnail)
	}
	if req.CustomFields != nil {
		record.CustomFields = req.CustomFields
	}
	if err := checkSupport(pt, record); err != nil {
		return nil, err
	}

	record.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	logging.WithPostContext(s.logger, record.Type, record.Name, "").Info("posts.updated", "status", string(updated.Status))
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	if s == nil || s.repo == nil {
		return nil, ErrServiceUnavailable
	}
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, postType, name string) (*Post, error) {
	if s == nil || s.repo == nil {
		return nil, ErrServiceUnavailable
	}
	postType = strings.ToLower(strings.TrimSpace(postType))
	name = strings.TrimSpace(name)
	if postType == "" {
		return nil, ErrTypeRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.repo.GetByName(ctx, postType, name)
}

func (s *service) List(ctx context.Context, postType string) ([]*Post, error) {
	if s == nil || s.repo == nil {
		return nil, ErrServiceUnavailable
	}
	return s.repo.List(ctx, strings.ToLower(strings.TrimSpace(postType)))
}

// NormalizeName slugifies name, or title when name is blank.
func NormalizeName(name, title string) (string, error) {
	source := strings.TrimSpace(name)
	if source == "" {
		source = strings.TrimSpace(title)
	}
	if source == "" {
		return "", ErrNameRequired
	}
	normalized, err := slug.Normalize(source)
	if err != nil {
		return "", fmt.Errorf("posts: normalize name %q: %w", source, err)
	}
	if normalized == "" {
		return "", ErrNameRequired
	}
	return normalized, nil
}

// checkSupport rejects fields the post type does not declare and validates
// custom fields against the type's schema.
func checkSupport(pt *posttypes.PostType, record *Post) error {
	if record.Body != "" && !pt.HasSupport(posttypes.CapabilityEditor) {
		return fmt.Errorf("%w: body", ErrCapabilityUnsupported)
	}
	if record.Thumbnail != "" && !pt.HasSupport(posttypes.CapabilityThumbnail) {
		return fmt.Errorf("%w: thumbnail", ErrCapabilityUnsupported)
	}
	if len(record.CustomFields) == 0 {
		return nil
	}
	if !pt.HasSupport(posttypes.CapabilityCustomFields) {
		return fmt.Errorf("%w: custom fields", ErrCapabilityUnsupported)
	}
	return validateCustomFields(pt.FieldSchema, record.CustomFields)
}
