package app

import (
	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/clock"
	"github.com/dshills/keymarks/internal/persist"
)

// Option configures Marks.
type Option func(*Marks)

// WithLogger sets the logger shared by all components.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Marks) {
		m.log = l
	}
}

// WithClock sets the clock for the pending-key timeout and flush delay.
func WithClock(c clock.Clock) Option {
	return func(m *Marks) {
		m.clock = c
	}
}

// WithPersistence replaces the snapshot file configured in
// persistence.path. Either may be nil.
func WithPersistence(loader persist.Loader, saver persist.Saver) Option {
	return func(m *Marks) {
		m.loader = loader
		m.saver = saver
		m.customPersistence = true
	}
}

// WithBufferWatcher watches the files of buffers that receive marks.
func WithBufferWatcher(w BufferWatcher) Option {
	return func(m *Marks) {
		m.watcher = w
	}
}

// WithErrorHandler receives failures of key gestures, which have no caller
// to return an error to. The default logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(m *Marks) {
		m.onError = fn
	}
}
