// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"fmt"

	"emperror.dev/errors"
)

// Op represents an operation that can fail.
type Op string

const (
	// Startup
	OpConfigLoad  Op = "load configuration"
	OpLogOpen     Op = "open log file"
	OpStateOpen   Op = "open state database"
	OpEngineStart Op = "start audio engine"
	OpMPRISStart  Op = "start MPRIS service"

	// Media
	OpMediaLoad Op = "load media"
	OpTagsRead  Op = "read file tags"

	// Persistence
	OpPositionSave Op = "save playback position"
	OpVolumeSave   Op = "save volume"

	// Runtime
	OpRun Op = "run player"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Wrap annotates err with the failed operation. The message reads like
// Format, and errors.Is still sees the cause.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithMessagef(err, "Failed to %s", op)
}
