package session

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNoLoginHosts indicates host resolution produced no candidates
	ErrNoLoginHosts = errors.New("no login hosts could be resolved")

	// ErrEmptyRemoteCommand indicates no proxy command is configured
	ErrEmptyRemoteCommand = errors.New("remote launch command is empty (no proxy command configured)")

	// ErrEmptyAlias indicates the host alias was empty after trimming
	ErrEmptyAlias = errors.New("host alias is empty")
)

// ValidationError reports a malformed or missing negotiation field. In
// interactive mode the field is re-prompted; in batch mode it aborts the flow.
type ValidationError struct {
	Field  string // Field that failed validation
	Value  string // Offending value ("" = not configured)
	Reason string // Why it was rejected
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is allows errors.Is to match ValidationError
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// RemoteQueryError wraps a failed remote command execution.
type RemoteQueryError struct {
	Host      string // Login host the command ran on
	Operation string // What was being queried
	Err       error  // Underlying error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("remote query %s failed on %s: %v", e.Operation, e.Host, e.Err)
}

func (e *RemoteQueryError) Unwrap() error {
	return e.Err
}

// ConfigWriteError wraps a filesystem failure while writing the overlay.
// It always aborts the flow; the underlying message is surfaced verbatim.
type ConfigWriteError struct {
	Path string
	Err  error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("failed to write SSH config overlay %s: %v", e.Path, e.Err)
}

func (e *ConfigWriteError) Unwrap() error {
	return e.Err
}

// ConnectError wraps a failed connect action. It is non-fatal: the overlay
// and host entry remain usable.
type ConnectError struct {
	Alias string
	Err   error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s failed: %v", e.Alias, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
