package watcher

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/clock"
	"github.com/dshills/keymarks/internal/event"
	"github.com/dshills/keymarks/internal/mark"
)

// Translator converts raw file system events into buffer rename and delete
// notifications on a set of feeds.
//
// A rename is reported by the kernel as a Rename of the old path followed by
// a Create of the new one, possibly in another watched directory. Each
// rename is held for one pairing window before anything is published:
//
//   - a Create of the old path inside the window cancels it (the file was
//     replaced in place, as editors do when they save through a backup)
//   - a Create elsewhere pairs with it and restarts the window
//   - when the window closes a paired rename is published as a rename and
//     an unpaired one as a delete
type Translator struct {
	feeds  *event.Feeds
	window time.Duration
	clock  clock.Clock
	log    zerolog.Logger

	mu sync.Mutex
	// held lists renames whose window is still open, oldest first.
	held    []*heldRename
	renames int64
	deletes int64
}

// heldRename is a rename waiting for its window to close.
type heldRename struct {
	old   string
	new   string // empty until a create pairs with it
	gone  bool   // the paired file was removed again; never re-pair
	timer clock.Timer
	gen   uint64 // bumped whenever the window restarts
}

func (h *heldRename) pairable() bool {
	return h.new == "" && !h.gone
}

// NewTranslator creates a translator publishing to feeds.
func NewTranslator(feeds *event.Feeds, opts ...WatcherOption) *Translator {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newTranslator(feeds, cfg)
}

func newTranslator(feeds *event.Feeds, cfg Config) *Translator {
	return &Translator{
		feeds:  feeds,
		window: cfg.PairWindow,
		clock:  cfg.Clock,
		log:    cfg.Logger,
	}
}

// Handle processes one event.
func (t *Translator) Handle(ev Event) {
	path := filepath.Clean(ev.Path)

	switch {
	case ev.Op.Has(OpRemove):
		t.handleRemove(path)
	case ev.Op.Has(OpRename):
		t.handleRename(path)
	case ev.Op.Has(OpCreate):
		t.handleCreate(path)
	}
}

func (t *Translator) handleRemove(path string) {
	t.mu.Lock()
	if h := t.findLocked(func(h *heldRename) bool { return h.new == path }); h != nil {
		// Renamed and then removed: the old path is deleted unless it is
		// created again before the window closes.
		h.new = ""
		h.gone = true
		t.mu.Unlock()
		return
	}
	// A removed path that was also held as renamed is reported once.
	t.dropLocked(path)
	t.mu.Unlock()

	t.publishDelete(path)
}

func (t *Translator) handleRename(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h := t.findLocked(func(h *heldRename) bool { return h.new == path }); h != nil {
		// Moved again before the first move was published: wait for the
		// final destination.
		h.new = ""
		t.restartLocked(h)
		return
	}

	t.dropLocked(path)
	h := &heldRename{old: path}
	t.held = append(t.held, h)
	t.restartLocked(h)
}

func (t *Translator) handleCreate(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dropLocked(path) {
		t.log.Debug().Str("path", path).Msg("renamed path created again, keeping buffer")
		return
	}

	h := t.pairLocked(path)
	if h == nil {
		return
	}
	h.new = path
	t.restartLocked(h)
}

// pairLocked picks the held rename a create of path belongs to: one with
// the same base name, else one from the same directory, else the oldest.
func (t *Translator) pairLocked(path string) *heldRename {
	base, dir := filepath.Base(path), filepath.Dir(path)
	if h := t.findLocked(func(h *heldRename) bool {
		return h.pairable() && filepath.Base(h.old) == base
	}); h != nil {
		return h
	}
	if h := t.findLocked(func(h *heldRename) bool {
		return h.pairable() && filepath.Dir(h.old) == dir
	}); h != nil {
		return h
	}
	return t.findLocked((*heldRename).pairable)
}

func (t *Translator) findLocked(match func(*heldRename) bool) *heldRename {
	for _, h := range t.held {
		if match(h) {
			return h
		}
	}
	return nil
}

// dropLocked forgets the held rename of path and reports whether there was one.
func (t *Translator) dropLocked(path string) bool {
	for i, h := range t.held {
		if h.old == path {
			h.timer.Stop()
			t.held = append(t.held[:i:i], t.held[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Translator) restartLocked(h *heldRename) {
	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen
	h.timer = t.clock.AfterFunc(t.window, func() { t.expire(h, gen) })
}

// expire publishes a held rename once its window closes.
func (t *Translator) expire(h *heldRename, gen uint64) {
	t.mu.Lock()
	idx := -1
	for i, q := range t.held {
		if q == h {
			idx = i
			break
		}
	}
	// A restarted window leaves the old timer behind.
	if idx < 0 || h.gen != gen {
		t.mu.Unlock()
		return
	}
	t.held = append(t.held[:idx:idx], t.held[idx+1:]...)
	oldPath, newPath := h.old, h.new
	t.mu.Unlock()

	if newPath == "" {
		t.log.Debug().Str("path", oldPath).Msg("rename without create, treating as delete")
		t.publishDelete(oldPath)
		return
	}
	t.publishRename(oldPath, newPath)
}

func (t *Translator) publishRename(oldPath, newPath string) {
	t.mu.Lock()
	t.renames++
	t.mu.Unlock()

	t.log.Debug().Str("old", oldPath).Str("new", newPath).Msg("buffer renamed")
	t.feeds.Renames.Publish(event.RenameEvent{
		Renames: []mark.Rename{{Old: mark.BufferID(oldPath), New: mark.BufferID(newPath)}},
	})
}

func (t *Translator) publishDelete(path string) {
	t.mu.Lock()
	t.deletes++
	t.mu.Unlock()

	t.log.Debug().Str("path", path).Msg("buffer deleted")
	t.feeds.Deletes.Publish(event.DeleteEvent{
		Buffers: []mark.BufferID{mark.BufferID(path)},
	})
}

// Pending returns the number of renames whose window is still open.
func (t *Translator) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.held)
}

// Close publishes every held rename immediately, ordered by old path:
// paired ones as renames, the rest as deletes.
func (t *Translator) Close() {
	t.mu.Lock()
	held := t.held
	t.held = nil
	for _, h := range held {
		h.timer.Stop()
	}
	t.mu.Unlock()

	sort.Slice(held, func(i, j int) bool { return held[i].old < held[j].old })
	for _, h := range held {
		if h.new != "" {
			t.publishRename(h.old, h.new)
		} else {
			t.publishDelete(h.old)
		}
	}
}

func (t *Translator) counts() (renames, deletes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renames, t.deletes
}
