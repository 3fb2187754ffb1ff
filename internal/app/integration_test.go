package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymarks/internal/config"
	"github.com/dshills/keymarks/internal/engine/buffer"
	"github.com/dshills/keymarks/internal/event"
	"github.com/dshills/keymarks/internal/mark"
	"github.com/dshills/keymarks/internal/project/watcher"
)

func TestIntegration_FileRenameAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("uses the filesystem watcher")
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	oldPath := filepath.Join(dir, "notes.txt")
	newPath := filepath.Join(dir, "renamed.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("hello\n"), 0o644))

	feeds := event.NewFeeds()
	t.Cleanup(feeds.Close)

	w, err := watcher.NewFSNotifyWatcher(feeds, watcher.WithPairWindow(200*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ed := newFakeEditor(mark.BufferID(oldPath))
	m, _ := newTestMarks(t, config.Default(), ed, WithBufferWatcher(w))
	require.NoError(t, m.AttachFeeds(feeds))

	ed.moveTo(mark.BufferID(oldPath), 0, 3)
	require.NoError(t, m.CreateMark("a"))
	require.NoError(t, m.CreateMark("G"))
	assert.True(t, w.IsWatching(dir))

	require.NoError(t, os.Rename(oldPath, newPath))
	require.Eventually(t, func() bool {
		mk, err := m.GetMark("G")
		return err == nil && mk.Buffer == mark.BufferID(newPath)
	}, 5*time.Second, 10*time.Millisecond, "global mark follows the rename")

	ed.moveTo(mark.BufferID(newPath), 0, 0)
	mk, err := m.GetMark("a")
	require.NoError(t, err, "local table moves with the buffer")
	assert.Equal(t, pt(0, 3), mk.Pos)

	require.NoError(t, os.Remove(newPath))
	require.Eventually(t, func() bool {
		return m.Store().Len() == 0
	}, 5*time.Second, 10*time.Millisecond, "marks dropped with the file")
}

func TestIntegration_ChangeFeed(t *testing.T) {
	feeds := event.NewFeeds()
	t.Cleanup(feeds.Close)

	ed := newFakeEditor("/a")
	m, _ := newTestMarks(t, config.Default(), ed)
	require.NoError(t, m.AttachFeeds(feeds))

	ed.moveTo("/a", 5, 4)
	require.NoError(t, m.CreateMark("a"))

	// two lines inserted above the mark
	feeds.Changes.Publish(event.ChangeEvent{
		Buffer: "/a",
		Edits: []buffer.Edit{{
			Range:   buffer.PointRange{Start: pt(1, 0), End: pt(1, 0)},
			NewText: "x\ny\n",
		}},
	})

	mk, err := m.GetMark("a")
	require.NoError(t, err)
	assert.Equal(t, pt(7, 4), mk.Pos)

	// the marked character is replaced
	feeds.Changes.Publish(event.ChangeEvent{
		Buffer: "/a",
		Edits: []buffer.Edit{{
			Range:   buffer.PointRange{Start: pt(7, 2), End: pt(7, 6)},
			NewText: "",
		}},
	})
	mk, err = m.GetMark("a")
	require.NoError(t, err)
	assert.Equal(t, pt(7, 2), mk.Pos)
}
