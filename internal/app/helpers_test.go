package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dshills/keymarks/internal/clock"
	"github.com/dshills/keymarks/internal/config"
	"github.com/dshills/keymarks/internal/engine/buffer"
	"github.com/dshills/keymarks/internal/mark"
)

type reveal struct {
	Buffer mark.BufferID
	Pos    buffer.Point
}

// fakeEditor is an in-memory editor session.
type fakeEditor struct {
	mu      sync.Mutex
	current mark.BufferID
	cursor  buffer.Point
	reveals []reveal
	missing map[mark.BufferID]bool
	// noCursor makes CurrentPosition report no cursor.
	noCursor bool
}

func newFakeEditor(buf mark.BufferID) *fakeEditor {
	return &fakeEditor{current: buf, missing: make(map[mark.BufferID]bool)}
}

func (e *fakeEditor) CurrentBuffer() mark.BufferID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *fakeEditor) CurrentPosition() (buffer.Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor, !e.noCursor
}

func (e *fakeEditor) Reveal(buf mark.BufferID, pos buffer.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.missing[buf] {
		return errors.New("no such file")
	}
	e.current = buf
	e.cursor = pos
	e.reveals = append(e.reveals, reveal{buf, pos})
	return nil
}

func (e *fakeEditor) moveTo(buf mark.BufferID, line, col uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = buf
	e.cursor = buffer.Point{Line: line, Column: col}
}

func (e *fakeEditor) lastReveal() (reveal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.reveals) == 0 {
		return reveal{}, false
	}
	return e.reveals[len(e.reveals)-1], true
}

// boundedEditor also reports buffer dimensions.
type boundedEditor struct {
	*fakeEditor
	lines map[mark.BufferID][]uint32
}

func (e *boundedEditor) LineCount(buf mark.BufferID) (uint32, bool) {
	l, ok := e.lines[buf]
	return uint32(len(l)), ok
}

func (e *boundedEditor) LineLength(buf mark.BufferID, line uint32) uint32 {
	return e.lines[buf][line]
}

// promptEditor answers prompts from a queue.
type promptEditor struct {
	*fakeEditor
	answers []rune
	asked   []string
}

func (e *promptEditor) PromptKey(placeholder string) (rune, bool) {
	e.asked = append(e.asked, placeholder)
	if len(e.answers) == 0 {
		return 0, false
	}
	r := e.answers[0]
	e.answers = e.answers[1:]
	return r, true
}

// fakeWatcher records watched buffers.
type fakeWatcher struct {
	mu      sync.Mutex
	watched []string
}

func (w *fakeWatcher) WatchBuffer(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watched = append(w.watched, path)
	return nil
}

func (w *fakeWatcher) paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.watched...)
}

func newTestMarks(t *testing.T, cfg config.Config, editor Editor, opts ...Option) (*Marks, *clock.Fake) {
	t.Helper()
	c := clock.NewFake(time.Unix(0, 0))
	m, err := New(cfg, editor, append([]Option{WithClock(c)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, m.Init())
	t.Cleanup(func() { _ = m.DisposeAndFlush() })
	return m, c
}

func pt(line, col uint32) buffer.Point {
	return buffer.Point{Line: line, Column: col}
}
