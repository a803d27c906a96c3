package posttypescmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-slugless/internal/commands"
	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/posttypes"
	"github.com/goliatone/go-slugless/internal/rewrite"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

const (
	registerMessageType = "slugless.posttypes.register"
	registerOperation   = "posttypes.register"
)

// RegisterPostTypeCommand declares a post type at runtime.
type RegisterPostTypeCommand struct {
	Key          string         `json:"key"`
	Name         string         `json:"name,omitempty"`
	SingularName string         `json:"singular_name,omitempty"`
	Public       bool           `json:"public,omitempty"`
	HasArchive   bool           `json:"has_archive,omitempty"`
	RewriteSlug  string         `json:"rewrite_slug,omitempty"`
	WithFront    bool           `json:"with_front,omitempty"`
	Supports     []string       `json:"supports,omitempty"`
	FieldSchema  map[string]any `json:"field_schema,omitempty"`
	// SkipFlush leaves the rewrite table as is after registration.
	SkipFlush bool `json:"skip_flush,omitempty"`
}

// Type implements command.Message.
func (RegisterPostTypeCommand) Type() string { return registerMessageType }

// Validate applies the registry's request rules.
func (cmd RegisterPostTypeCommand) Validate() error {
	return cmd.request().Validate()
}

func (cmd RegisterPostTypeCommand) request() posttypes.RegisterRequest {
	supports := make([]posttypes.Capability, 0, len(cmd.Supports))
	for _, capability := range cmd.Supports {
		supports = append(supports, posttypes.Capability(capability))
	}
	return posttypes.RegisterRequest{
		Key:          cmd.Key,
		Name:         cmd.Name,
		SingularName: cmd.SingularName,
		Public:       cmd.Public,
		HasArchive:   cmd.HasArchive,
		Rewrite:      posttypes.Rewrite{Slug: cmd.RewriteSlug, WithFront: cmd.WithFront},
		Supports:     supports,
		FieldSchema:  cmd.FieldSchema,
	}
}

// RuleCompiler rebuilds the rewrite table.
type RuleCompiler interface {
	Compile(ctx context.Context) (*rewrite.Table, error)
}

var _ command.Commander[RegisterPostTypeCommand] = (*RegisterPostTypeHandler)(nil)

// RegisterPostTypeHandler registers a post type and, unless told otherwise,
// recompiles the rewrite table so the new type's routes are live.
type RegisterPostTypeHandler struct {
	inner *commands.Handler[RegisterPostTypeCommand]
}

func NewRegisterPostTypeHandler(registry posttypes.Registry, compiler RuleCompiler, logger interfaces.Logger, opts ...commands.HandlerOption[RegisterPostTypeCommand]) *RegisterPostTypeHandler {
	logger = logging.Ensure(logger)

	exec := func(ctx context.Context, msg RegisterPostTypeCommand) error {
		pt, err := registry.Register(ctx, msg.request())
		if err != nil {
			return err
		}
		if msg.SkipFlush || compiler == nil {
			return nil
		}
		if _, err := compiler.Compile(ctx); err != nil {
			return err
		}
		logger.Debug("posttypes.command.register.flushed", "post_type", pt.Key)
		return nil
	}

	handlerOpts := []commands.HandlerOption[RegisterPostTypeCommand]{
		commands.WithLogger[RegisterPostTypeCommand](logger),
		commands.WithOperation[RegisterPostTypeCommand](registerOperation),
		commands.WithMessageFields(func(msg RegisterPostTypeCommand) map[string]any {
			return map[string]any{"post_type": msg.Key}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RegisterPostTypeCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RegisterPostTypeHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RegisterPostTypeCommand].
func (h *RegisterPostTypeHandler) Execute(ctx context.Context, msg RegisterPostTypeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RegisterPostTypeCommands builds the register handler and registers it with reg when reg is non-nil.
func RegisterPostTypeCommands(reg commands.CommandRegistry, registry posttypes.Registry, compiler RuleCompiler, provider interfaces.LoggerProvider, opts ...commands.HandlerOption[RegisterPostTypeCommand]) (*RegisterPostTypeHandler, error) {
	if registry == nil {
		return nil, errors.New("post type command registration: registry is nil")
	}
	handler := NewRegisterPostTypeHandler(registry, compiler, commands.CommandLogger(provider, "posttypes"), opts...)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
