package mark

import (
	"fmt"

	"github.com/dshills/keymarks/internal/engine/buffer"
)

// BufferID identifies a buffer across renames, typically its absolute path.
// The empty BufferID means "no buffer".
type BufferID string

// Mark is a position in a buffer. It denotes the character immediately after
// Pos in the buffer's current content.
type Mark struct {
	Buffer BufferID
	Pos    buffer.Point
}

// New creates a Mark.
func New(buf BufferID, line, column uint32) Mark {
	return Mark{Buffer: buf, Pos: buffer.Point{Line: line, Column: column}}
}

// String returns a human-readable representation of the mark.
func (m Mark) String() string {
	return fmt.Sprintf("%s:%d:%d", m.Buffer, m.Pos.Line, m.Pos.Column)
}

// Scope decides where a mark is filed and how it is looked up.
type Scope uint8

const (
	// ScopeLocal marks are visible only while their buffer is current.
	ScopeLocal Scope = iota

	// ScopeGlobal marks are visible from any buffer.
	ScopeGlobal
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// CasePolicy decides which letter case denotes local marks.
type CasePolicy uint8

const (
	// LowerLocal files a-z as local and A-Z as global.
	LowerLocal CasePolicy = iota

	// UpperLocal files A-Z as local and a-z as global.
	UpperLocal
)

// String returns the policy name.
func (p CasePolicy) String() string {
	if p == UpperLocal {
		return "upper-local"
	}
	return "lower-local"
}

// PolicyFor returns the policy selected by the configuration flag.
func PolicyFor(upperCaseForLocal bool) CasePolicy {
	if upperCaseForLocal {
		return UpperLocal
	}
	return LowerLocal
}

// Name is the normalized table key of a mark: a lower-case ASCII letter.
type Name byte

// String returns the key as a one-letter string.
func (n Name) String() string {
	return string(rune(n))
}

// Display returns the letter the user types for this name in scope under policy.
func (n Name) Display(scope Scope, policy CasePolicy) string {
	upper := (scope == ScopeLocal) == (policy == UpperLocal)
	if upper {
		return string(rune(n - 'a' + 'A'))
	}
	return n.String()
}

// ParseName validates a user-supplied name and classifies it under policy.
// Exactly one ASCII letter is accepted.
func ParseName(s string, policy CasePolicy) (Name, Scope, error) {
	if len(s) != 1 {
		return 0, 0, ErrInvalidMarkName
	}
	c := s[0]
	var upper bool
	switch {
	case c >= 'a' && c <= 'z':
		upper = false
	case c >= 'A' && c <= 'Z':
		upper = true
		c = c - 'A' + 'a'
	default:
		return 0, 0, ErrInvalidMarkName
	}

	scope := ScopeGlobal
	if upper == (policy == UpperLocal) {
		scope = ScopeLocal
	}
	return Name(c), scope, nil
}

// keyFromString normalizes a stored key, accepting either case.
func keyFromString(s string) (Name, bool) {
	n, _, err := ParseName(s, LowerLocal)
	return n, err == nil
}

// Ref identifies a mark by scope and name. Local refs also carry the buffer
// whose table holds them. Marks are compared by Ref, never by position.
type Ref struct {
	Scope  Scope
	Name   Name
	Buffer BufferID // set for local refs only
}

// Compare orders refs: globals first, then locals by buffer, then by name.
func (r Ref) Compare(other Ref) int {
	if r.Scope != other.Scope {
		if r.Scope == ScopeGlobal {
			return -1
		}
		return 1
	}
	if r.Buffer != other.Buffer {
		if r.Buffer < other.Buffer {
			return -1
		}
		return 1
	}
	switch {
	case r.Name < other.Name:
		return -1
	case r.Name > other.Name:
		return 1
	default:
		return 0
	}
}

// Rename records that a buffer identity changed from Old to New.
type Rename struct {
	Old BufferID
	New BufferID
}
