// Package mark implements named, persistent cursor marks and keeps their
// positions correct while the underlying buffers are edited, renamed and
// deleted.
//
// # Core Components
//
//   - [Mark]: a buffer identity plus a line/column point
//   - [Adjust]: moves a point across a single replace-range edit
//   - [RouteChange]: applies an edit batch to every mark of one buffer
//   - [Store]: owns the global and per-buffer local tables and is the only
//     thing that mutates marks in response to notifications
//
// # Scopes
//
// A mark name is a single ASCII letter. Its case at creation time decides
// whether the mark is local (looked up only while its buffer is current) or
// global. The [CasePolicy] decides which case means which; the table key is
// always the lower-case letter, so "a" and "A" can coexist in different scopes.
//
// # Adjustment
//
// For each edit the mark's point is classified against the edit's original
// range:
//
//   - before: the point precedes the range start and never moves
//   - within: the range covers the point, which moves to the end of the
//     replacement text
//   - after: the point is at or past the range end and shifts by the lines
//     the edit added or removed; the column shifts only when the point sits
//     on the range's last line
//
// Edits of one batch are applied in the order they are reported. Hosts must
// report pre-batch coordinates in descending document order (or cumulative
// coordinates) so that sequential application is exact. Overlapping edits in
// one batch are applied best-effort and reported with [ErrOverlappingEdits].
//
// # Usage
//
//	store := mark.NewStore(mark.WithCasePolicy(mark.LowerLocal))
//	store.Create("a", "/src/main.go", buffer.Point{Line: 10, Column: 4})
//
//	store.OnChange("/src/main.go", []buffer.Edit{
//	    buffer.NewInsert(buffer.Point{Line: 2, Column: 0}, "// header\n"),
//	})
//
//	m, err := store.Lookup("a", "/src/main.go") // (11:4)
//
// # Thread Safety
//
// Store methods are safe for concurrent use; notifications are still expected
// to arrive one at a time so that edit batches apply in order.
package mark
