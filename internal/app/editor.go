package app

import (
	"github.com/dshills/keymarks/internal/engine/buffer"
	"github.com/dshills/keymarks/internal/mark"
)

// Editor is the host editor session.
type Editor interface {
	// CurrentBuffer returns the active buffer, or "" if none is active.
	CurrentBuffer() mark.BufferID

	// CurrentPosition returns the primary cursor of the active buffer, and
	// false if there is no cursor.
	CurrentPosition() (buffer.Point, bool)

	// Reveal opens buf if needed, places the cursor at pos with an empty
	// selection and scrolls pos to the middle of the view.
	Reveal(buf mark.BufferID, pos buffer.Point) error
}

// Bounds is implemented by editors that know buffer dimensions. Jumps clamp
// marks that drifted past the end of their buffer.
type Bounds interface {
	// LineCount returns the number of lines in buf, and false if the
	// buffer is not loaded.
	LineCount(buf mark.BufferID) (uint32, bool)

	// LineLength returns the length of a line in the configured column unit.
	LineLength(buf mark.BufferID, line uint32) uint32
}

// Prompter is implemented by editors that can ask the user for one key.
type Prompter interface {
	// PromptKey returns the first character entered, and false if the
	// prompt was dismissed or left empty.
	PromptKey(placeholder string) (rune, bool)
}

// BufferWatcher observes the files behind buffers that hold marks, so
// external renames and deletes reach the store.
type BufferWatcher interface {
	WatchBuffer(path string) error
}
