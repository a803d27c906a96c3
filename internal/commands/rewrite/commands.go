package rewritecmd

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-slugless/internal/commands"
	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/internal/rewrite"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

const (
	flushMessageType = "slugless.rewrite.flush"
	flushOperation   = "rewrite.flush"
)

// FlushRulesCommand rebuilds the rewrite table.
type FlushRulesCommand struct {
	// Reason is logged with the flush.
	Reason string `json:"reason,omitempty"`
}

// Type implements command.Message.
func (FlushRulesCommand) Type() string { return flushMessageType }

// Validate bounds the free-form reason.
func (cmd FlushRulesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Reason, validation.Length(0, 200)),
	)
}

// RuleCompiler rebuilds the rewrite table.
type RuleCompiler interface {
	Compile(ctx context.Context) (*rewrite.Table, error)
}

var _ command.Commander[FlushRulesCommand] = (*FlushRulesHandler)(nil)

// FlushRulesHandler recompiles the rewrite table.
type FlushRulesHandler struct {
	inner *commands.Handler[FlushRulesCommand]
}

func NewFlushRulesHandler(compiler RuleCompiler, logger interfaces.Logger, opts ...commands.HandlerOption[FlushRulesCommand]) *FlushRulesHandler {
	logger = logging.Ensure(logger)
	exec := func(ctx context.Context, msg FlushRulesCommand) error {
		table, err := compiler.Compile(ctx)
		if err != nil {
			return err
		}
		logger.Info("rewrite.command.flush.completed", "rules", table.Len())
		return nil
	}

	handlerOpts := []commands.HandlerOption[FlushRulesCommand]{
		commands.WithLogger[FlushRulesCommand](logger),
		commands.WithOperation[FlushRulesCommand](flushOperation),
		commands.WithMessageFields(func(msg FlushRulesCommand) map[string]any {
			if msg.Reason == "" {
				return nil
			}
			return map[string]any{"reason": msg.Reason}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[FlushRulesCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &FlushRulesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[FlushRulesCommand].
func (h *FlushRulesHandler) Execute(ctx context.Context, msg FlushRulesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RegisterRewriteCommands builds the flush handler and registers it with reg when reg is non-nil.
func RegisterRewriteCommands(reg commands.CommandRegistry, compiler RuleCompiler, provider interfaces.LoggerProvider, opts ...commands.HandlerOption[FlushRulesCommand]) (*FlushRulesHandler, error) {
	if compiler == nil {
		return nil, errors.New("rewrite command registration: compiler is nil")
	}
	handler := NewFlushRulesHandler(compiler, commands.CommandLogger(provider, "rewrite"), opts...)
	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return handler, nil
}
