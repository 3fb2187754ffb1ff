package persist

import (
	"errors"
	"fmt"
)

// ErrCorruptSnapshot indicates the snapshot file exists but cannot be used.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// FileError wraps a failure reading or writing the snapshot file.
type FileError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}
