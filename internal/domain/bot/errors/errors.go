// Package errors contains domain-specific errors for the bot domain
package errors

import (
	pkgerrors "github.com/clipgrab/clipgrab-bot/pkg/errors"
)

// Domain errors for bot operations
var (
	ErrFileNotFound   = pkgerrors.NewGenericError("download completed but file not found")
	ErrSenderNotWired = pkgerrors.NewGenericError("telegram sender is not set")
	ErrEmptyCallback  = pkgerrors.NewGenericError("callback data is empty or malformed")
)
