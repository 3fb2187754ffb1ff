package mark

import (
	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/engine/buffer"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCasePolicy sets which letter case denotes local marks.
func WithCasePolicy(p CasePolicy) StoreOption {
	return func(s *Store) {
		s.policy = p
	}
}

// WithColumnUnit sets the unit the host editor uses for columns.
func WithColumnUnit(u buffer.ColumnUnit) StoreOption {
	return func(s *Store) {
		s.unit = u
	}
}

// WithLogger sets the logger used for update tracing.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = l.With().Str("component", "marks").Logger()
	}
}
