package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymarks/internal/config"
	"github.com/dshills/keymarks/internal/input/pending"
)

func TestCommands_List(t *testing.T) {
	m, _ := newTestMarks(t, config.Default(), newFakeEditor("/a"))

	cmds := m.Commands()
	assert.Len(t, cmds, 6+2*52)

	seen := make(map[string]bool)
	for _, c := range cmds {
		assert.False(t, seen[c.Name], "duplicate command %s", c.Name)
		seen[c.Name] = true
	}
	for _, name := range []string{
		"keymarks.create_mark",
		"keymarks.jump_to_mark",
		"keymarks.mark_mode",
		"keymarks.jump_mode",
		"keymarks.create_mark_A",
		"keymarks.create_mark_z",
		"keymarks.jump_to_mark_Q",
	} {
		assert.True(t, seen[name], "missing %s", name)
	}
}

func TestCommands_PerLetter(t *testing.T) {
	ed := newFakeEditor("/a")
	m, _ := newTestMarks(t, config.Default(), ed)

	ed.moveTo("/a", 8, 2)
	require.NoError(t, m.Run("keymarks.create_mark_x"))
	ed.moveTo("/a", 0, 0)
	require.NoError(t, m.Run("keymarks.jump_to_mark_x"))

	rv, _ := ed.lastReveal()
	assert.Equal(t, pt(8, 2), rv.Pos)

	assert.ErrorIs(t, m.Run("keymarks.fly"), ErrUnknownCommand)
}

func TestCommands_Modes(t *testing.T) {
	m, _ := newTestMarks(t, config.Default(), newFakeEditor("/a"))

	require.NoError(t, m.Run("keymarks.jump_mode"))
	_, kind := m.PendingState()
	assert.Equal(t, pending.KindJump, kind)

	require.NoError(t, m.Run("keymarks.mark_mode"))
	_, kind = m.PendingState()
	assert.Equal(t, pending.KindCreate, kind)
}

func TestCommands_Prompt(t *testing.T) {
	ed := &promptEditor{fakeEditor: newFakeEditor("/a"), answers: []rune{'m', 'm'}}
	m, _ := newTestMarks(t, config.Default(), ed)

	ed.moveTo("/a", 4, 4)
	require.NoError(t, m.Run("keymarks.create_mark"))
	require.NoError(t, m.Run("keymarks.delete_mark"))
	assert.Equal(t, 0, m.Store().Len())

	// dismissed prompt does nothing
	require.NoError(t, m.Run("keymarks.jump_to_mark"))
	assert.Len(t, ed.asked, 3)
	assert.Equal(t, promptPlaceholder, ed.asked[0])
}

func TestCommands_PromptUnsupported(t *testing.T) {
	m, _ := newTestMarks(t, config.Default(), newFakeEditor("/a"))
	assert.ErrorIs(t, m.Run("keymarks.create_mark"), ErrNoPrompt)
}

func TestCommands_DeleteAll(t *testing.T) {
	m, _ := newTestMarks(t, config.Default(), newFakeEditor("/a"))
	require.NoError(t, m.CreateMark("a"))
	require.NoError(t, m.CreateMark("B"))

	require.NoError(t, m.Run("keymarks.delete_all_marks"))
	assert.Equal(t, 0, m.Store().Len())
}
