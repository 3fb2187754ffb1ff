package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/clock"
	"github.com/dshills/keymarks/internal/config"
	"github.com/dshills/keymarks/internal/engine/buffer"
	"github.com/dshills/keymarks/internal/event"
	"github.com/dshills/keymarks/internal/input/pending"
	"github.com/dshills/keymarks/internal/mark"
	"github.com/dshills/keymarks/internal/persist"
	"github.com/dshills/keymarks/internal/plugin/api"
)

// lifecycle is the controller state.
type lifecycle uint8

const (
	stateNew lifecycle = iota
	stateReady
	stateDisposed
)

// Marks is the mark controller for one editor session.
type Marks struct {
	cfg    config.Config
	editor Editor
	log    zerolog.Logger
	clock  clock.Clock

	store   *mark.Store
	pending *pending.Machine
	flusher *persist.Flusher
	watcher BufferWatcher
	onError func(error)

	loader            persist.Loader
	saver             persist.Saver
	customPersistence bool

	mu    sync.Mutex
	state lifecycle
	subs  []event.Subscription
}

// New creates a controller. It performs no I/O; call Init before use.
func New(cfg config.Config, editor Editor, opts ...Option) (*Marks, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if editor == nil {
		return nil, errors.New("app: nil editor")
	}

	m := &Marks{
		cfg:    cfg,
		editor: editor,
		log:    zerolog.Nop(),
		clock:  clock.Real(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if !m.customPersistence && cfg.PersistenceEnabled() {
		fs := persist.NewFileStore(cfg.Persistence.Path, persist.WithLogger(m.log))
		m.loader, m.saver = fs, fs
	}
	if m.onError == nil {
		m.onError = func(err error) {
			m.log.Warn().Err(err).Msg("mark gesture failed")
		}
	}

	m.store = mark.NewStore(
		mark.WithCasePolicy(cfg.CasePolicy()),
		mark.WithColumnUnit(cfg.ColumnUnit()),
		mark.WithLogger(m.log),
	)
	m.pending = pending.New(
		pending.WithClock(m.clock),
		pending.WithTimeout(cfg.Pending.Timeout.Duration),
		pending.WithLogger(m.log),
	)
	if m.saver != nil {
		m.flusher = persist.NewFlusher(m.saver, m.store.Snapshot, cfg.Persistence.FlushDelay.Duration,
			persist.WithClock(m.clock),
			persist.WithFlushLogger(m.log),
		)
	}
	return m, nil
}

// Init restores persisted marks and starts deferred saving. A snapshot that
// cannot be read is logged and the session starts empty. Calling Init again
// is a no-op.
func (m *Marks) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateDisposed:
		return ErrDisposed
	case stateReady:
		return nil
	}

	if m.loader != nil {
		m.restore()
	}
	if m.flusher != nil {
		m.store.OnMutate(m.flusher.Schedule)
	}
	if m.watcher != nil {
		for _, id := range m.markedBuffers() {
			m.watch(id)
		}
	}

	m.state = stateReady
	m.log.Info().
		Int("marks", m.store.Len()).
		Bool("persistence", m.saver != nil).
		Msg("marks initialized")
	return nil
}

func (m *Marks) restore() {
	sn, ok, err := m.loader.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("could not load marks, starting empty")
		return
	}
	if !ok {
		return
	}
	if err := m.store.Restore(sn); err != nil {
		m.log.Warn().Err(err).Msg("could not restore marks, starting empty")
	}
}

// markedBuffers lists every buffer referenced by a mark.
func (m *Marks) markedBuffers() []mark.BufferID {
	seen := make(map[mark.BufferID]bool)
	var ids []mark.BufferID
	add := func(id mark.BufferID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	sn := m.store.Snapshot()
	for _, g := range sn.Global {
		add(g.Buffer)
	}
	for _, l := range sn.Local {
		add(l.Buffer)
	}
	return ids
}

// DisposeAndFlush cancels every subscription, disarms any pending gesture and
// writes the final snapshot. The returned error is the final save failure,
// if any. Calling it again is a no-op.
func (m *Marks) DisposeAndFlush() error {
	m.mu.Lock()
	if m.state == stateDisposed {
		m.mu.Unlock()
		return nil
	}
	m.state = stateDisposed
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
	m.pending.Cancel()

	if m.flusher == nil {
		return nil
	}
	err := m.flusher.Close()
	if err == nil {
		m.log.Info().Int("marks", m.store.Len()).Msg("marks flushed")
	}
	return err
}

// Attach subscribes the store to the host's change, rename and delete
// feeds. Nil feeds are skipped. On error no subscription is kept.
func (m *Marks) Attach(
	changes *event.Feed[event.ChangeEvent],
	renames *event.Feed[event.RenameEvent],
	deletes *event.Feed[event.DeleteEvent],
) error {
	if err := m.requireReady(); err != nil {
		return NewOperationError("attach", "", err)
	}

	var subs []event.Subscription
	fail := func(feed string, err error) error {
		for _, s := range subs {
			s.Cancel()
		}
		return NewOperationError("attach", feed, err)
	}

	if changes != nil {
		s, err := changes.Subscribe(func(ev event.ChangeEvent) {
			// overlapping batches are logged by the store
			_ = m.store.OnChange(ev.Buffer, ev.Edits)
		})
		if err != nil {
			return fail(changes.Name(), err)
		}
		subs = append(subs, s)
	}
	if renames != nil {
		s, err := renames.Subscribe(func(ev event.RenameEvent) {
			m.store.OnRename(ev.Renames)
			for _, r := range ev.Renames {
				m.watch(r.New)
			}
		})
		if err != nil {
			return fail(renames.Name(), err)
		}
		subs = append(subs, s)
	}
	if deletes != nil {
		s, err := deletes.Subscribe(func(ev event.DeleteEvent) {
			m.store.OnDelete(ev.Buffers)
		})
		if err != nil {
			return fail(deletes.Name(), err)
		}
		subs = append(subs, s)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == stateDisposed {
		for _, s := range subs {
			s.Cancel()
		}
		return NewOperationError("attach", "", ErrDisposed)
	}
	m.subs = append(m.subs, subs...)
	return nil
}

// AttachFeeds is Attach for a Feeds group.
func (m *Marks) AttachFeeds(fs *event.Feeds) error {
	return m.Attach(fs.Changes, fs.Renames, fs.Deletes)
}

// CreateMark records a mark named name at the cursor of the active buffer.
func (m *Marks) CreateMark(name string) error {
	if err := m.requireReady(); err != nil {
		return opError("create", name, err)
	}

	buf := m.editor.CurrentBuffer()
	pos, ok := m.editor.CurrentPosition()
	if buf == "" || !ok {
		return opError("create", name, mark.ErrNoActiveBuffer)
	}
	if _, err := m.store.Create(name, buf, pos); err != nil {
		return opError("create", name, err)
	}
	m.watch(buf)
	return nil
}

// JumpToMark moves the cursor to the mark named name. Local names resolve
// in the active buffer. Marks that drifted past the end of their buffer are
// clamped when the editor reports buffer bounds.
func (m *Marks) JumpToMark(name string) error {
	if err := m.requireReady(); err != nil {
		return opError("jump", name, err)
	}

	mk, err := m.store.Lookup(name, m.editor.CurrentBuffer())
	if err != nil {
		return opError("jump", name, err)
	}

	pos := m.clamp(mk)
	if err := m.editor.Reveal(mk.Buffer, pos); err != nil {
		return opError("jump", name, fmt.Errorf("%w: %s: %v", ErrBufferUnavailable, mk.Buffer, err))
	}
	return nil
}

// clamp returns the position to reveal for mk.
func (m *Marks) clamp(mk mark.Mark) buffer.Point {
	b, ok := m.editor.(Bounds)
	if !ok {
		return mk.Pos
	}
	lines, loaded := b.LineCount(mk.Buffer)
	if !loaded {
		return mk.Pos
	}

	pos := mk.Pos.Clamp(lines, func(line uint32) uint32 {
		return b.LineLength(mk.Buffer, line)
	})
	if pos != mk.Pos {
		m.log.Debug().
			Str("buffer", string(mk.Buffer)).
			Stringer("stored", mk.Pos).
			Stringer("clamped", pos).
			Msg("mark past end of buffer")
	}
	return pos
}

// DeleteMark removes the mark named name.
func (m *Marks) DeleteMark(name string) error {
	if err := m.requireReady(); err != nil {
		return opError("delete", name, err)
	}
	if err := m.store.Delete(name, m.editor.CurrentBuffer()); err != nil {
		return opError("delete", name, err)
	}
	return nil
}

// DeleteAll removes every mark.
func (m *Marks) DeleteAll() {
	if m.requireReady() != nil {
		return
	}
	m.store.DeleteAll()
}

// GetMark returns the mark named name as seen from the active buffer.
func (m *Marks) GetMark(name string) (mark.Mark, error) {
	mk, err := m.store.Lookup(name, m.editor.CurrentBuffer())
	if err != nil {
		return mark.Mark{}, opError("get", name, err)
	}
	return mk, nil
}

// List returns the marks reachable from the active buffer: globals first,
// then locals, each in creation order.
func (m *Marks) List() []mark.Entry {
	return m.store.Entries(m.editor.CurrentBuffer())
}

// ListAll returns every mark of every buffer: globals by name, then locals
// by buffer and name.
func (m *Marks) ListAll() []mark.Entry {
	return m.store.All()
}

// SetCasePolicy changes which letter case denotes local marks.
func (m *Marks) SetCasePolicy(p mark.CasePolicy) {
	m.store.SetPolicy(p)
}

// Store returns the underlying mark store.
func (m *Marks) Store() *mark.Store {
	return m.store
}

// Flush saves pending changes now.
func (m *Marks) Flush() error {
	if m.flusher == nil {
		return nil
	}
	return m.flusher.Flush()
}

// FlushStats reports persistence activity. It is zero without persistence.
func (m *Marks) FlushStats() persist.FlushStats {
	if m.flusher == nil {
		return persist.FlushStats{}
	}
	return m.flusher.Stats()
}

// LuaModule returns the ks.marks plugin module bound to this controller.
func (m *Marks) LuaModule() *api.MarksModule {
	return api.NewMarksModule(m)
}

func (m *Marks) requireReady() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateNew:
		return ErrNotInitialized
	case stateDisposed:
		return ErrDisposed
	}
	return nil
}

func (m *Marks) watch(id mark.BufferID) {
	if m.watcher == nil || id == "" {
		return
	}
	if err := m.watcher.WatchBuffer(string(id)); err != nil {
		m.log.Debug().Err(err).Str("buffer", string(id)).Msg("not watching buffer")
	}
}

// opError wraps err for op, dropping the store's own wrapper so the message
// names the mark once.
func opError(op, name string, err error) error {
	var me *mark.MarkError
	if errors.As(err, &me) {
		err = me.Err
	}
	return NewOperationError(op, name, err)
}
