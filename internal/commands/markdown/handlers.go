package markdowncmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-slugless/internal/commands"
	"github.com/goliatone/go-slugless/internal/logging"
	"github.com/goliatone/go-slugless/pkg/interfaces"
)

const importOperation = "markdown.import_directory"

// ErrMarkdownFeatureDisabled is returned when the markdown feature flag is off.
var ErrMarkdownFeatureDisabled = errors.New("markdown command: feature disabled")

var _ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)

// ImportDirectoryHandler runs markdown directory imports through the shared command handler.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

func NewImportDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if !gates.markdownEnabled() {
			return ErrMarkdownFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
			PostType:      msg.PostType,
			DefaultStatus: msg.DefaultStatus,
			DryRun:        msg.DryRun,
			Load: interfaces.LoadOptions{
				Recursive: msg.Recursive,
				Pattern:   msg.Pattern,
			},
		})
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("markdown.command.import_directory.completed")
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.PostType != "" {
				fields["post_type"] = msg.PostType
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
