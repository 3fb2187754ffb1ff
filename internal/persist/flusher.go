package persist

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/clock"
	"github.com/dshills/keymarks/internal/mark"
)

// FlushStats counts flusher activity.
type FlushStats struct {
	Scheduled int
	Saves     int
	Failures  int
	LastError error
}

// Flusher saves the latest snapshot some time after the tables change.
// Schedule calls within one delay window coalesce into a single save.
type Flusher struct {
	saver  Saver
	source func() mark.Snapshot
	delay  time.Duration
	clock  clock.Clock
	log    zerolog.Logger

	mu      sync.Mutex
	timer   clock.Timer
	pending bool
	closed  bool
	stats   FlushStats

	// saveMu serializes saves so an older snapshot never overwrites a newer one.
	saveMu sync.Mutex
}

// FlusherOption configures a Flusher.
type FlusherOption func(*Flusher)

// WithClock sets the clock driving the flush delay.
func WithClock(c clock.Clock) FlusherOption {
	return func(f *Flusher) {
		f.clock = c
	}
}

// WithFlushLogger sets the logger.
func WithFlushLogger(l zerolog.Logger) FlusherOption {
	return func(f *Flusher) {
		f.log = l.With().Str("component", "flusher").Logger()
	}
}

// NewFlusher creates a flusher that saves source() through saver.
func NewFlusher(saver Saver, source func() mark.Snapshot, delay time.Duration, opts ...FlusherOption) *Flusher {
	f := &Flusher{
		saver:  saver,
		source: source,
		delay:  delay,
		clock:  clock.Real(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Schedule requests a save. With a zero delay the save happens immediately.
func (f *Flusher) Schedule() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.stats.Scheduled++
	f.pending = true
	if f.delay <= 0 {
		f.mu.Unlock()
		_ = f.Flush()
		return
	}
	if f.timer == nil {
		f.timer = f.clock.AfterFunc(f.delay, f.fire)
	}
	f.mu.Unlock()
}

func (f *Flusher) fire() {
	f.mu.Lock()
	f.timer = nil
	f.mu.Unlock()
	_ = f.Flush()
}

// Flush saves now if a save is pending. The error is also logged and counted.
func (f *Flusher) Flush() error {
	f.saveMu.Lock()
	defer f.saveMu.Unlock()

	f.mu.Lock()
	if !f.pending {
		f.mu.Unlock()
		return nil
	}
	f.pending = false
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	err := f.saver.Save(f.source())

	f.mu.Lock()
	if err != nil {
		f.stats.Failures++
		f.stats.LastError = err
	} else {
		f.stats.Saves++
	}
	f.mu.Unlock()

	if err != nil {
		f.log.Error().Err(err).Msg("saving marks failed")
	}
	return err
}

// Pending reports whether a save is waiting.
func (f *Flusher) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Close flushes pending work and stops accepting new requests.
func (f *Flusher) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()
	return f.Flush()
}

// Stats returns a copy of the counters.
func (f *Flusher) Stats() FlushStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}
