package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// FeedOption configures a feed.
type FeedOption func(*feedConfig)

type feedConfig struct {
	log     zerolog.Logger
	onPanic func(*PanicError)
}

// WithLogger sets the logger used to report handler panics.
func WithLogger(l zerolog.Logger) FeedOption {
	return func(c *feedConfig) {
		c.log = l
	}
}

// WithPanicHandler sets a callback invoked when a handler panics.
func WithPanicHandler(fn func(*PanicError)) FeedOption {
	return func(c *feedConfig) {
		c.onPanic = fn
	}
}

// Feed is a typed, synchronous notification stream.
type Feed[T any] struct {
	name   string
	config feedConfig

	mu     sync.Mutex
	subs   []*subscription[T]
	closed bool

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// NewFeed creates a feed. name identifies it in logs and errors.
func NewFeed[T any](name string, opts ...FeedOption) *Feed[T] {
	cfg := feedConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Feed[T]{name: name, config: cfg}
}

// Name returns the feed name.
func (f *Feed[T]) Name() string {
	return f.name
}

// Subscribe registers h for every subsequent event.
func (f *Feed[T]) Subscribe(h func(T)) (Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrFeedClosed
	}

	sub := newSubscription(f.name, h)
	f.subs = append(f.subs, sub)
	return sub, nil
}

// Publish delivers ev to every active subscription in subscription order and
// returns the number of handlers that received it. Cancelled subscriptions
// are pruned.
func (f *Feed[T]) Publish(ev T) int {
	f.published.Add(1)

	f.mu.Lock()
	live := f.subs[:0]
	for _, s := range f.subs {
		if !s.isCancelled() {
			live = append(live, s)
		}
	}
	// Clear the pruned tail so cancelled handlers can be collected.
	for i := len(live); i < len(f.subs); i++ {
		f.subs[i] = nil
	}
	f.subs = live
	targets := make([]*subscription[T], len(live))
	copy(targets, live)
	f.mu.Unlock()

	n := 0
	for _, s := range targets {
		// A handler may cancel a later subscription during delivery.
		if !s.IsActive() {
			continue
		}
		if f.deliver(s, ev) {
			n++
		}
	}
	f.delivered.Add(uint64(n))
	return n
}

func (f *Feed[T]) deliver(s *subscription[T], ev T) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			f.panics.Add(1)
			f.config.log.Error().
				Str("feed", f.name).
				Str("subscription", s.id).
				Str("panic", fmt.Sprint(r)).
				Msg("event handler panicked")
			if f.config.onPanic != nil {
				f.config.onPanic(&PanicError{SubscriptionID: s.id, Feed: f.name, Value: r})
			}
		}
	}()
	s.handler(ev)
	return true
}

// Len returns the number of subscriptions that have not been cancelled.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, s := range f.subs {
		if !s.isCancelled() {
			n++
		}
	}
	return n
}

// Close cancels every subscription and rejects new ones.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.subs {
		s.Cancel()
	}
	f.subs = nil
	f.closed = true
}

// Stats holds feed delivery counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Panics    uint64
}

// Stats returns delivery counters.
func (f *Feed[T]) Stats() Stats {
	return Stats{
		Published: f.published.Load(),
		Delivered: f.delivered.Load(),
		Panics:    f.panics.Load(),
	}
}
