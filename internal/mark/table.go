package mark

// table maps names to marks and remembers insertion order for display.
// The table owns its marks; callers receive copies.
type table struct {
	names []Name
	marks map[Name]*Mark
}

func newTable() *table {
	return &table{marks: make(map[Name]*Mark)}
}

// set stores a copy of m under n, overwriting any previous mark in place.
func (t *table) set(n Name, m Mark) {
	if existing, ok := t.marks[n]; ok {
		*existing = m
		return
	}
	copied := m
	t.marks[n] = &copied
	t.names = append(t.names, n)
}

func (t *table) get(n Name) (Mark, bool) {
	m, ok := t.marks[n]
	if !ok {
		return Mark{}, false
	}
	return *m, true
}

func (t *table) remove(n Name) bool {
	if _, ok := t.marks[n]; !ok {
		return false
	}
	delete(t.marks, n)
	for i, name := range t.names {
		if name == n {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
	return true
}

// removeIf drops every mark for which drop returns true and reports how many
// were removed.
func (t *table) removeIf(drop func(*Mark) bool) int {
	kept := t.names[:0]
	removed := 0
	for _, n := range t.names {
		if drop(t.marks[n]) {
			delete(t.marks, n)
			removed++
			continue
		}
		kept = append(kept, n)
	}
	t.names = kept
	return removed
}

func (t *table) len() int {
	return len(t.names)
}

// each visits marks in insertion order. fn may mutate the mark.
func (t *table) each(fn func(Name, *Mark)) {
	for _, n := range t.names {
		fn(n, t.marks[n])
	}
}

// ptrs returns the owned marks in insertion order for in-place routing.
func (t *table) ptrs() []*Mark {
	out := make([]*Mark, 0, len(t.names))
	for _, n := range t.names {
		out = append(out, t.marks[n])
	}
	return out
}
