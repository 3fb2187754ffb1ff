// Package watcher turns file system changes into buffer rename and delete
// notifications.
//
// A buffer is identified by the absolute path of its file. The watcher
// observes the directories holding open buffers and publishes:
//
//   - a DeleteEvent when a file is removed
//   - a RenameEvent when a rename is followed by a create in the same
//     directory within the pairing window
//   - a DeleteEvent when a rename has no matching create in that window
//     (the file left the watched directories)
package watcher

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/clock"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrTooManyWatches  = errors.New("maximum watch limit reached")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file or directory was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed away from Path.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a file system change event.
type Event struct {
	// Path is the absolute path of the affected file or directory.
	Path string

	// Op is the operation that occurred.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Stats provides watcher status information.
type Stats struct {
	// WatchedPaths is the number of directories being watched.
	WatchedPaths int

	// TotalEvents is the number of file system events received.
	TotalEvents int64

	// Renames is the number of rename pairs published.
	Renames int64

	// Deletes is the number of deleted buffers published.
	Deletes int64

	// Errors is the total number of errors encountered.
	Errors int64

	// LastError is the most recent error, if any.
	LastError error

	// StartTime is when the watcher was started.
	StartTime time.Time
}

// EventFilter is a function that filters events.
// Return true to keep the event, false to discard it.
type EventFilter func(event Event) bool

// Config holds watcher configuration options.
type Config struct {
	// PairWindow is how long a rename waits for its matching create.
	// Default: 100ms
	PairWindow time.Duration

	// IgnoreHidden ignores files whose name starts with a dot. Editors
	// write swap and backup files there.
	// Default: false
	IgnoreHidden bool

	// MaxWatches is the maximum number of directories to watch.
	// 0 means unlimited.
	MaxWatches int

	// EventFilter is an optional filter for events.
	EventFilter EventFilter

	// Clock drives the pairing window.
	Clock clock.Clock

	// Logger receives debug traces and errors.
	Logger zerolog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PairWindow: 100 * time.Millisecond,
		Clock:      clock.Real(),
		Logger:     zerolog.Nop(),
	}
}

// WatcherOption configures a watcher.
type WatcherOption func(*Config)

// WithPairWindow sets the rename pairing window.
func WithPairWindow(d time.Duration) WatcherOption {
	return func(c *Config) {
		c.PairWindow = d
	}
}

// WithIgnoreHidden enables ignoring hidden files.
func WithIgnoreHidden(ignore bool) WatcherOption {
	return func(c *Config) {
		c.IgnoreHidden = ignore
	}
}

// WithMaxWatches sets the maximum number of watches.
func WithMaxWatches(max int) WatcherOption {
	return func(c *Config) {
		c.MaxWatches = max
	}
}

// WithEventFilter sets the event filter.
func WithEventFilter(filter EventFilter) WatcherOption {
	return func(c *Config) {
		c.EventFilter = filter
	}
}

// WithClock sets the clock driving the pairing window.
func WithClock(c clock.Clock) WatcherOption {
	return func(cfg *Config) {
		cfg.Clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) WatcherOption {
	return func(c *Config) {
		c.Logger = l.With().Str("component", "watcher").Logger()
	}
}
