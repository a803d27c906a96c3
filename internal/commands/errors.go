package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	validationFailedCode = "COMMAND_VALIDATION_FAILED"
	contextCanceledCode  = "COMMAND_CONTEXT_CANCELED"
	contextTimeoutCode   = "COMMAND_CONTEXT_TIMEOUT"
	contextErrorCode     = "COMMAND_CONTEXT_ERROR"
	executeFailedCode    = "COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	return wrap(err, goerrors.CategoryValidation, "command validation failed", validationFailedCode)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, "command execution cancelled", contextCanceledCode)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded", contextTimeoutCode)
	default:
		return wrap(err, goerrors.CategoryCommand, "command context error", contextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "command execution failed", executeFailedCode)
}

// wrap leaves errors that already carry a category untouched.
func wrap(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}
