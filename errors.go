package tableagent

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNoTableLoaded indicates a question arrived before any /load.
	ErrNoTableLoaded = errors.New("no table loaded")

	// ErrUsage indicates a slash command with missing or malformed arguments.
	ErrUsage = errors.New("usage error")

	// ErrUnknownCommand indicates an unrecognized slash command.
	ErrUnknownCommand = errors.New("unknown command")
)
