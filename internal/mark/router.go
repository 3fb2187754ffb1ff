package mark

import "github.com/dshills/keymarks/internal/engine/buffer"

// RouteChange applies every edit, in order, to each mark whose buffer is buf.
// Marks of other buffers are left alone. It returns the number of marks
// that were routed through the edits.
func RouteChange(marks []*Mark, buf BufferID, edits []buffer.Edit, unit buffer.ColumnUnit) int {
	routed := 0
	for _, m := range marks {
		if m.Buffer != buf {
			continue
		}
		for _, edit := range edits {
			m.Apply(edit, unit)
		}
		routed++
	}
	return routed
}

// tables is the pair of mark tables a Store owns.
type tables struct {
	global *table
	locals map[BufferID]*table
}

func newTables() tables {
	return tables{
		global: newTable(),
		locals: make(map[BufferID]*table),
	}
}

// routeChange updates the global table and the local table of buf.
func (ts tables) routeChange(buf BufferID, edits []buffer.Edit, unit buffer.ColumnUnit) int {
	routed := RouteChange(ts.global.ptrs(), buf, edits, unit)
	if local, ok := ts.locals[buf]; ok {
		routed += RouteChange(local.ptrs(), buf, edits, unit)
	}
	return routed
}

// routeRename retargets marks from each pair's old identity to the new one.
// A local table moved onto an existing key replaces that key's table.
func (ts tables) routeRename(pairs []Rename) int {
	moved := 0
	for _, p := range pairs {
		if p.Old == p.New || p.Old == "" || p.New == "" {
			continue
		}
		ts.global.each(func(_ Name, m *Mark) {
			if m.Buffer == p.Old {
				m.Buffer = p.New
				moved++
			}
		})
		local, ok := ts.locals[p.Old]
		if !ok {
			continue
		}
		delete(ts.locals, p.Old)
		ts.locals[p.New] = local
		local.each(func(_ Name, m *Mark) {
			m.Buffer = p.New
			moved++
		})
	}
	return moved
}

// routeDelete drops global marks in deleted buffers and the deleted
// buffers' whole local tables.
func (ts tables) routeDelete(ids []BufferID) int {
	if len(ids) == 0 {
		return 0
	}
	gone := make(map[BufferID]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}

	removed := ts.global.removeIf(func(m *Mark) bool {
		_, ok := gone[m.Buffer]
		return ok
	})
	for id := range gone {
		if local, ok := ts.locals[id]; ok {
			removed += local.len()
			delete(ts.locals, id)
		}
	}
	return removed
}
