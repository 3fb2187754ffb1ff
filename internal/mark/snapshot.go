package mark

import (
	"fmt"

	"github.com/dshills/keymarks/internal/engine/buffer"
)

// Snapshot is the serializable form of both mark tables. Lists keep table
// insertion order; local buffers are sorted by identity.
type Snapshot struct {
	Global []GlobalMark `json:"global"`
	Local  []LocalMarks `json:"local"`
}

// GlobalMark is one global table entry.
type GlobalMark struct {
	Name   string   `json:"name"`
	Line   uint32   `json:"line"`
	Column uint32   `json:"column"`
	Buffer BufferID `json:"buffer"`
}

// LocalMarks is the local table of one buffer.
type LocalMarks struct {
	Buffer BufferID    `json:"buffer"`
	Marks  []LocalMark `json:"marks"`
}

// LocalMark is one local table entry; its buffer is the enclosing LocalMarks.
type LocalMark struct {
	Name   string `json:"name"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// IsEmpty returns true if the snapshot holds no marks.
func (sn Snapshot) IsEmpty() bool {
	if len(sn.Global) > 0 {
		return false
	}
	for _, l := range sn.Local {
		if len(l.Marks) > 0 {
			return false
		}
	}
	return true
}

// Snapshot captures the current tables. Names are stored as table keys
// (lower case); the section a mark appears in records its scope.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sn := Snapshot{
		Global: make([]GlobalMark, 0, s.tables.global.len()),
		Local:  make([]LocalMarks, 0, len(s.tables.locals)),
	}
	s.tables.global.each(func(n Name, m *Mark) {
		sn.Global = append(sn.Global, GlobalMark{
			Name:   n.String(),
			Line:   m.Pos.Line,
			Column: m.Pos.Column,
			Buffer: m.Buffer,
		})
	})
	for _, id := range s.sortedBuffersLocked() {
		local := s.tables.locals[id]
		lm := LocalMarks{Buffer: id, Marks: make([]LocalMark, 0, local.len())}
		local.each(func(n Name, m *Mark) {
			lm.Marks = append(lm.Marks, LocalMark{
				Name:   n.String(),
				Line:   m.Pos.Line,
				Column: m.Pos.Column,
			})
		})
		sn.Local = append(sn.Local, lm)
	}
	return sn
}

// Restore replaces both tables with the snapshot contents. The snapshot is
// validated first; on error the store is left unchanged.
func (s *Store) Restore(sn Snapshot) error {
	ts, err := buildTables(sn)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tables = ts
	s.mu.Unlock()

	s.notifyMutated()
	return nil
}

// Validate reports whether Restore would accept the snapshot.
func (sn Snapshot) Validate() error {
	_, err := buildTables(sn)
	return err
}

func buildTables(sn Snapshot) (tables, error) {
	ts := newTables()
	for i, g := range sn.Global {
		n, ok := keyFromString(g.Name)
		if !ok {
			return tables{}, fmt.Errorf("%w: global entry %d has name %q", ErrInvalidSnapshot, i, g.Name)
		}
		if g.Buffer == "" {
			return tables{}, fmt.Errorf("%w: global mark %q has no buffer", ErrInvalidSnapshot, g.Name)
		}
		ts.global.set(n, Mark{Buffer: g.Buffer, Pos: buffer.Point{Line: g.Line, Column: g.Column}})
	}
	for _, l := range sn.Local {
		if l.Buffer == "" {
			return tables{}, fmt.Errorf("%w: local table without buffer", ErrInvalidSnapshot)
		}
		if len(l.Marks) == 0 {
			continue
		}
		local, ok := ts.locals[l.Buffer]
		if !ok {
			local = newTable()
			ts.locals[l.Buffer] = local
		}
		for _, lm := range l.Marks {
			n, ok := keyFromString(lm.Name)
			if !ok {
				return tables{}, fmt.Errorf("%w: local mark in %s has name %q", ErrInvalidSnapshot, l.Buffer, lm.Name)
			}
			local.set(n, Mark{Buffer: l.Buffer, Pos: buffer.Point{Line: lm.Line, Column: lm.Column}})
		}
	}
	return ts, nil
}
