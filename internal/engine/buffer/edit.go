package buffer

import (
	"fmt"
	"strings"
)

// Edit represents a text edit operation.
// It specifies a range of the original text to replace and the new text.
type Edit struct {
	Range   PointRange // The range to replace
	NewText string     // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r PointRange, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(at Point, text string) Edit {
	return Edit{
		Range:   PointRange{Start: at, End: at},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end Point) Edit {
	return Edit{
		Range:   PointRange{Start: start, End: end},
		NewText: "",
	}
}

// NewReplace creates an Edit that replaces a range with text.
func NewReplace(start, end Point, text string) Edit {
	return Edit{
		Range:   PointRange{Start: start, End: end},
		NewText: text,
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.IsNoOp():
		return fmt.Sprintf("NoOp(%s)", e.Range.Start)
	case e.IsInsert():
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.NewText)
	case e.IsDelete():
		return fmt.Sprintf("Delete%s", e.Range.String())
	default:
		return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
	}
}

// IsInsert returns true if this is a pure insertion (empty range).
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// IsDelete returns true if this is a pure deletion (empty replacement).
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewText == ""
}

// IsReplace returns true if this replaces existing text with new text.
func (e Edit) IsReplace() bool {
	return !e.Range.IsEmpty() && e.NewText != ""
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Lines splits the replacement text on line feeds.
// The result always has at least one element. A "\r\n" pair counts as a
// single break; the carriage return stays on the preceding segment.
func (e Edit) Lines() []string {
	return strings.Split(e.NewText, "\n")
}

// LineDelta returns the net number of lines the edit adds (negative if it
// removes lines).
func (e Edit) LineDelta() int64 {
	added := int64(strings.Count(e.NewText, "\n"))
	return added - int64(e.Range.LineSpan())
}

// EditsOverlap returns true if any two edits in the batch touch the same
// region of the original text.
func EditsOverlap(edits []Edit) bool {
	for i := 0; i < len(edits); i++ {
		for j := i + 1; j < len(edits); j++ {
			if edits[i].Range.Overlaps(edits[j].Range) {
				return true
			}
		}
	}
	return false
}
