package mark

import "errors"

// Sentinel errors for mark operations. All of them are soft failures: the
// operation that returns one leaves the tables untouched.
var (
	// ErrInvalidMarkName is returned when a name is not a single ASCII letter.
	ErrInvalidMarkName = errors.New("invalid mark name")

	// ErrNoActiveBuffer is returned when a mark is created without a buffer.
	ErrNoActiveBuffer = errors.New("no active buffer")

	// ErrNotFound is returned when no mark is recorded for a name in scope.
	ErrNotFound = errors.New("mark not found")

	// ErrOverlappingEdits is returned when an edit batch contains edits whose
	// ranges overlap. The batch is still applied in the order given.
	ErrOverlappingEdits = errors.New("overlapping edits in batch")

	// ErrInvalidSnapshot is returned when a snapshot cannot be restored.
	ErrInvalidSnapshot = errors.New("invalid mark snapshot")
)

// MarkError describes a failed operation on a named mark.
type MarkError struct {
	Op     string   // Operation name (e.g., "create", "lookup")
	Name   string   // Mark name as given by the caller
	Buffer BufferID // Buffer context, if any
	Err    error    // Underlying error
}

// Error implements the error interface.
func (e *MarkError) Error() string {
	msg := e.Op + " mark " + quoteName(e.Name)
	if e.Buffer != "" {
		msg += " in " + string(e.Buffer)
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *MarkError) Unwrap() error {
	return e.Err
}

func quoteName(name string) string {
	return "'" + name + "'"
}
