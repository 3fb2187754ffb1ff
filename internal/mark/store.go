package mark

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/keymarks/internal/engine/buffer"
)

// Store owns the global and local mark tables. It is the only component that
// mutates marks, either through explicit commands or in response to buffer
// change, rename and delete notifications.
type Store struct {
	mu sync.RWMutex

	tables tables
	policy CasePolicy
	unit   buffer.ColumnUnit
	log    zerolog.Logger

	// mutated hooks run after every change to table contents.
	hooksMu sync.RWMutex
	mutated []func()
}

// Entry is a mark together with its identity, as listed for pickers and
// snapshots.
type Entry struct {
	Ref     Ref
	Mark    Mark
	Display string // Letter the user types to reach the mark
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		tables: newTables(),
		policy: LowerLocal,
		unit:   buffer.ColumnUTF16,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the current case policy.
func (s *Store) Policy() CasePolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy changes the case policy for future creates and lookups.
// Existing table entries are not touched.
func (s *Store) SetPolicy(p CasePolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
}

// Unit returns the column unit used when adjusting marks.
func (s *Store) Unit() buffer.ColumnUnit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unit
}

// OnMutate registers fn to run after every change to the tables.
// fn runs without the store lock held.
func (s *Store) OnMutate(fn func()) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.mutated = append(s.mutated, fn)
}

func (s *Store) notifyMutated() {
	s.hooksMu.RLock()
	hooks := make([]func(), len(s.mutated))
	copy(hooks, s.mutated)
	s.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}

// Create records a mark named name at pos in buf. The name's case decides
// its scope; an existing mark with the same name in that scope is replaced.
func (s *Store) Create(name string, buf BufferID, pos buffer.Point) (Ref, error) {
	s.mu.Lock()
	n, scope, err := ParseName(name, s.policy)
	if err != nil {
		s.mu.Unlock()
		return Ref{}, &MarkError{Op: "create", Name: name, Buffer: buf, Err: err}
	}
	if buf == "" {
		s.mu.Unlock()
		return Ref{}, &MarkError{Op: "create", Name: name, Err: ErrNoActiveBuffer}
	}

	m := Mark{Buffer: buf, Pos: pos}
	ref := Ref{Scope: scope, Name: n}
	if scope == ScopeGlobal {
		s.tables.global.set(n, m)
	} else {
		local, ok := s.tables.locals[buf]
		if !ok {
			local = newTable()
			s.tables.locals[buf] = local
		}
		local.set(n, m)
		ref.Buffer = buf
	}
	s.mu.Unlock()

	s.log.Debug().
		Str("name", name).
		Stringer("scope", scope).
		Str("buffer", string(buf)).
		Uint32("line", pos.Line).
		Uint32("column", pos.Column).
		Msg("mark created")
	s.notifyMutated()
	return ref, nil
}

// Lookup returns the mark for name. Local names resolve in the table of
// current; with no current buffer they are not found.
func (s *Store) Lookup(name string, current BufferID) (Mark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, scope, err := ParseName(name, s.policy)
	if err != nil {
		return Mark{}, &MarkError{Op: "lookup", Name: name, Buffer: current, Err: err}
	}
	if m, ok := s.lookupLocked(n, scope, current); ok {
		return m, nil
	}
	return Mark{}, &MarkError{Op: "lookup", Name: name, Buffer: current, Err: ErrNotFound}
}

func (s *Store) lookupLocked(n Name, scope Scope, current BufferID) (Mark, bool) {
	if scope == ScopeGlobal {
		return s.tables.global.get(n)
	}
	if current == "" {
		return Mark{}, false
	}
	local, ok := s.tables.locals[current]
	if !ok {
		return Mark{}, false
	}
	return local.get(n)
}

// Delete removes the mark for name in its scope. Local names are resolved
// against current like Lookup.
func (s *Store) Delete(name string, current BufferID) error {
	s.mu.Lock()
	n, scope, err := ParseName(name, s.policy)
	if err != nil {
		s.mu.Unlock()
		return &MarkError{Op: "delete", Name: name, Buffer: current, Err: err}
	}

	removed := false
	if scope == ScopeGlobal {
		removed = s.tables.global.remove(n)
	} else if local, ok := s.tables.locals[current]; ok && current != "" {
		removed = local.remove(n)
		if local.len() == 0 {
			delete(s.tables.locals, current)
		}
	}
	s.mu.Unlock()

	if !removed {
		return &MarkError{Op: "delete", Name: name, Buffer: current, Err: ErrNotFound}
	}
	s.notifyMutated()
	return nil
}

// DeleteAll removes every mark from both tables.
func (s *Store) DeleteAll() {
	s.mu.Lock()
	empty := s.tables.global.len() == 0 && len(s.tables.locals) == 0
	s.tables = newTables()
	s.mu.Unlock()

	if !empty {
		s.notifyMutated()
	}
}

// Len returns the total number of marks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.tables.global.len()
	for _, local := range s.tables.locals {
		n += local.len()
	}
	return n
}

// OnChange applies an edit batch reported for buf. The edits are applied in
// the order given; edits that change nothing are skipped. If the batch
// contains overlapping edits the result is best-effort and
// ErrOverlappingEdits is returned.
func (s *Store) OnChange(buf BufferID, edits []buffer.Edit) error {
	edits = dropNoOps(edits)
	if buf == "" || len(edits) == 0 {
		return nil
	}

	s.mu.Lock()
	routed := s.tables.routeChange(buf, edits, s.unit)
	s.mu.Unlock()

	var err error
	if buffer.EditsOverlap(edits) {
		err = &MarkError{Op: "update", Buffer: buf, Err: ErrOverlappingEdits}
		batch := make([]string, len(edits))
		for i, e := range edits {
			batch[i] = e.String()
		}
		s.log.Warn().
			Str("buffer", string(buf)).
			Strs("edits", batch).
			Msg("overlapping edits applied in reported order")
	}

	if routed > 0 {
		var delta int64
		for _, e := range edits {
			delta += e.LineDelta()
		}
		s.log.Debug().
			Str("buffer", string(buf)).
			Int("edits", len(edits)).
			Int64("line_delta", delta).
			Int("marks", routed).
			Msg("marks updated")
		s.notifyMutated()
	}
	return err
}

// dropNoOps returns edits without the ones that change nothing. The input
// is returned as is when it has none.
func dropNoOps(edits []buffer.Edit) []buffer.Edit {
	for i, e := range edits {
		if !e.IsNoOp() {
			continue
		}
		kept := append([]buffer.Edit(nil), edits[:i]...)
		for _, e := range edits[i+1:] {
			if !e.IsNoOp() {
				kept = append(kept, e)
			}
		}
		return kept
	}
	return edits
}

// OnRename retargets marks of renamed buffers, in the order given.
func (s *Store) OnRename(pairs []Rename) {
	if len(pairs) == 0 {
		return
	}

	s.mu.Lock()
	moved := s.tables.routeRename(pairs)
	s.mu.Unlock()

	if moved > 0 {
		s.log.Debug().Int("renames", len(pairs)).Int("marks", moved).Msg("marks renamed")
		s.notifyMutated()
	}
}

// OnDelete drops marks of deleted buffers: global marks pointing at them
// and their entire local tables.
func (s *Store) OnDelete(ids []BufferID) {
	s.mu.Lock()
	removed := s.tables.routeDelete(ids)
	s.mu.Unlock()

	if removed > 0 {
		s.log.Debug().Int("buffers", len(ids)).Int("marks", removed).Msg("marks dropped")
		s.notifyMutated()
	}
}

// DeleteBuffer is OnDelete for a single buffer.
func (s *Store) DeleteBuffer(id BufferID) {
	s.OnDelete([]BufferID{id})
}

// Entries lists the marks reachable from current: globals first, then the
// locals of current, each in creation order.
func (s *Store) Entries(current BufferID) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	s.tables.global.each(func(n Name, m *Mark) {
		out = append(out, Entry{
			Ref:     Ref{Scope: ScopeGlobal, Name: n},
			Mark:    *m,
			Display: n.Display(ScopeGlobal, s.policy),
		})
	})
	if local, ok := s.tables.locals[current]; ok && current != "" {
		local.each(func(n Name, m *Mark) {
			out = append(out, Entry{
				Ref:     Ref{Scope: ScopeLocal, Name: n, Buffer: current},
				Mark:    *m,
				Display: n.Display(ScopeLocal, s.policy),
			})
		})
	}
	return out
}

// All lists every mark in both tables in Ref order: globals by name, then
// locals by buffer and name.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	s.tables.global.each(func(n Name, m *Mark) {
		out = append(out, Entry{
			Ref:     Ref{Scope: ScopeGlobal, Name: n},
			Mark:    *m,
			Display: n.Display(ScopeGlobal, s.policy),
		})
	})
	for id, local := range s.tables.locals {
		local.each(func(n Name, m *Mark) {
			out = append(out, Entry{
				Ref:     Ref{Scope: ScopeLocal, Name: n, Buffer: id},
				Mark:    *m,
				Display: n.Display(ScopeLocal, s.policy),
			})
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref.Compare(out[j].Ref) < 0 })
	return out
}

// Buffers returns the buffers that own local marks, sorted.
func (s *Store) Buffers() []BufferID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedBuffersLocked()
}

func (s *Store) sortedBuffersLocked() []BufferID {
	ids := make([]BufferID, 0, len(s.tables.locals))
	for id := range s.tables.locals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
