// Package pending implements the transient "next keystroke" mode used by
// chorded mark gestures: a command arms the machine, and the next key typed
// is routed to the armed gesture instead of the buffer. The mode reverts to
// idle after that key, on Cancel, or when the timeout elapses.
package pending

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/clock"
)

// DefaultTimeout is how long an armed gesture waits for its key.
const DefaultTimeout = time.Second

// Kind identifies the armed gesture.
type Kind uint8

const (
	// KindNone means nothing is armed.
	KindNone Kind = iota
	// KindCreate records a mark named by the next key.
	KindCreate
	// KindJump jumps to the mark named by the next key.
	KindJump
)

// String returns the gesture name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCreate:
		return "create"
	case KindJump:
		return "jump"
	default:
		return "unknown"
	}
}

// State is the machine state.
type State uint8

const (
	// Idle means keys go to the buffer.
	Idle State = iota
	// Armed means the next key is consumed by the armed gesture.
	Armed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	default:
		return "unknown"
	}
}

// KeyFunc receives the key typed while a gesture was armed.
type KeyFunc func(kind Kind, key rune)

// Machine is the two-state pending-key machine. It is safe for concurrent
// use; KeyFunc and the state hook run without the lock held.
type Machine struct {
	mu      sync.Mutex
	clock   clock.Clock
	timeout time.Duration
	log     zerolog.Logger

	state State
	kind  Kind
	onKey KeyFunc
	timer clock.Timer
	// gen increases on every arm so a timer from an older arm is ignored.
	gen uint64

	onState func(State, Kind)
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the clock used for the timeout.
func WithClock(c clock.Clock) Option {
	return func(m *Machine) {
		m.clock = c
	}
}

// WithTimeout sets how long an armed gesture waits.
func WithTimeout(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) {
		m.log = l.With().Str("component", "pending").Logger()
	}
}

// WithStateHook registers fn to observe state transitions, for example to
// toggle a "mark pending" indicator in the host.
func WithStateHook(fn func(State, Kind)) Option {
	return func(m *Machine) {
		m.onState = fn
	}
}

// New creates an idle machine.
func New(opts ...Option) *Machine {
	m := &Machine{
		clock:   clock.Real(),
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state and armed gesture.
func (m *Machine) State() (State, Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.kind
}

// Arm waits for the next key on behalf of kind. Arming while armed replaces
// the previous gesture and restarts the timeout.
func (m *Machine) Arm(kind Kind, onKey KeyFunc) {
	m.mu.Lock()
	m.stopTimerLocked()
	m.gen++
	gen := m.gen
	m.state = Armed
	m.kind = kind
	m.onKey = onKey
	m.timer = m.clock.AfterFunc(m.timeout, func() { m.expire(gen) })
	hook := m.onState
	m.mu.Unlock()

	m.log.Debug().Stringer("kind", kind).Dur("timeout", m.timeout).Msg("armed")
	if hook != nil {
		hook(Armed, kind)
	}
}

// Key offers a typed key. It returns true if the key was consumed by an
// armed gesture; the machine is idle afterwards either way.
func (m *Machine) Key(r rune) bool {
	m.mu.Lock()
	if m.state != Armed {
		m.mu.Unlock()
		return false
	}
	kind, onKey := m.kind, m.onKey
	m.resetLocked()
	hook := m.onState
	m.mu.Unlock()

	if hook != nil {
		hook(Idle, kind)
	}
	if onKey != nil {
		onKey(kind, r)
	}
	return true
}

// Cancel disarms the machine, for example when the user performs an
// unrelated action. It returns true if a gesture was armed.
func (m *Machine) Cancel() bool {
	m.mu.Lock()
	if m.state != Armed {
		m.mu.Unlock()
		return false
	}
	kind := m.kind
	m.resetLocked()
	hook := m.onState
	m.mu.Unlock()

	m.log.Debug().Stringer("kind", kind).Msg("cancelled")
	if hook != nil {
		hook(Idle, kind)
	}
	return true
}

func (m *Machine) expire(gen uint64) {
	m.mu.Lock()
	if m.state != Armed || m.gen != gen {
		m.mu.Unlock()
		return
	}
	kind := m.kind
	m.timer = nil
	m.resetLocked()
	hook := m.onState
	m.mu.Unlock()

	m.log.Debug().Stringer("kind", kind).Msg("timed out")
	if hook != nil {
		hook(Idle, kind)
	}
}

func (m *Machine) resetLocked() {
	m.stopTimerLocked()
	m.state = Idle
	m.kind = KindNone
	m.onKey = nil
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
