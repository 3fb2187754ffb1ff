package persist

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymarks/internal/clock"
	"github.com/dshills/keymarks/internal/engine/buffer"
	"github.com/dshills/keymarks/internal/mark"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved []mark.Snapshot
	err   error
}

func (r *recordingSaver) Save(sn mark.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, sn)
	return nil
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func counterSource() (func() mark.Snapshot, *int) {
	n := 0
	return func() mark.Snapshot {
		n++
		return mark.Snapshot{Global: []mark.GlobalMark{{Name: "a", Line: uint32(n), Buffer: "/x"}}}
	}, &n
}

func TestFlusher_Coalesces(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	saver := &recordingSaver{}
	source, calls := counterSource()
	f := NewFlusher(saver, source, 250*time.Millisecond, WithClock(c))

	f.Schedule()
	f.Schedule()
	c.Advance(100 * time.Millisecond)
	f.Schedule()
	assert.Equal(t, 0, saver.count())
	assert.True(t, f.Pending())

	c.Advance(150 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
	assert.Equal(t, 1, *calls, "snapshot should be taken at save time")
	assert.False(t, f.Pending())

	stats := f.Stats()
	assert.Equal(t, 3, stats.Scheduled)
	assert.Equal(t, 1, stats.Saves)
}

func TestFlusher_FlushNow(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	saver := &recordingSaver{}
	source, _ := counterSource()
	f := NewFlusher(saver, source, time.Second, WithClock(c))

	require.NoError(t, f.Flush(), "flush with nothing pending")
	assert.Equal(t, 0, saver.count())

	f.Schedule()
	require.NoError(t, f.Flush())
	assert.Equal(t, 1, saver.count())
	assert.Equal(t, 0, c.Pending(), "flush should stop the timer")

	c.Advance(time.Second)
	assert.Equal(t, 1, saver.count())
}

func TestFlusher_ZeroDelay(t *testing.T) {
	saver := &recordingSaver{}
	source, _ := counterSource()
	f := NewFlusher(saver, source, 0)

	f.Schedule()
	f.Schedule()
	assert.Equal(t, 2, saver.count())
}

func TestFlusher_Close(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	saver := &recordingSaver{}
	source, _ := counterSource()
	f := NewFlusher(saver, source, time.Second, WithClock(c))

	f.Schedule()
	require.NoError(t, f.Close())
	assert.Equal(t, 1, saver.count())

	f.Schedule()
	c.Advance(2 * time.Second)
	assert.Equal(t, 1, saver.count(), "closed flusher should ignore schedules")
	assert.NoError(t, f.Close())
}

func TestFlusher_SaveErrorIsCounted(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	boom := errors.New("disk full")
	saver := &recordingSaver{err: boom}
	source, _ := counterSource()
	f := NewFlusher(saver, source, time.Millisecond, WithClock(c))

	f.Schedule()
	c.Advance(time.Millisecond)

	stats := f.Stats()
	assert.Equal(t, 0, stats.Saves)
	assert.Equal(t, 1, stats.Failures)
	assert.ErrorIs(t, stats.LastError, boom)

	f.Schedule()
	assert.ErrorIs(t, f.Flush(), boom)
}

func TestFlusher_StoreHook(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	saver := &recordingSaver{}
	store := mark.NewStore()
	f := NewFlusher(saver, store.Snapshot, 50*time.Millisecond, WithClock(c))
	store.OnMutate(f.Schedule)

	_, err := store.Create("a", "/x", buffer.Point{Line: 2, Column: 5})
	require.NoError(t, err)
	_, err = store.Create("b", "/x", buffer.Point{Line: 3})
	require.NoError(t, err)
	c.Advance(50 * time.Millisecond)

	require.Equal(t, 1, saver.count())
	saved := saver.saved[0]
	require.Len(t, saved.Local, 1)
	assert.Len(t, saved.Local[0].Marks, 2)
}
