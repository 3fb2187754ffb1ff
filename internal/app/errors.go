package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrBufferUnavailable indicates the editor could not open or show the
	// buffer a mark points at.
	ErrBufferUnavailable = errors.New("buffer unavailable")

	// ErrNotInitialized indicates Init has not run yet.
	ErrNotInitialized = errors.New("marks not initialized")

	// ErrDisposed indicates the controller was already disposed.
	ErrDisposed = errors.New("marks disposed")

	// ErrNoPrompt indicates the editor cannot prompt for a mark name.
	ErrNoPrompt = errors.New("editor cannot prompt for a key")

	// ErrUnknownCommand indicates Run was given a name Commands does not list.
	ErrUnknownCommand = errors.New("unknown command")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "create", "jump", "delete")
	Target string // Target of the operation, usually the mark name
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %q", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for OperationError.
// Matches both the wrapper itself and the wrapped error.
func (e *OperationError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*OperationError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}
