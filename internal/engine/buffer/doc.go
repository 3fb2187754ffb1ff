// Package buffer defines the coordinate vocabulary shared by the mark engine
// and its host editor: line/column points, half-open ranges over the original
// text, and replace-range edits.
//
// Position Types:
//
//   - Point: Line and column position (0-indexed)
//   - PointRange: [Start, End) span of the text before an edit
//   - Edit: replace PointRange with NewText (insert, delete or replace)
//
// Columns are counted in a host-defined ColumnUnit. The unit matters only when
// measuring replacement text, so the mark engine is parameterised by it:
//
//	unit, _ := buffer.ParseColumnUnit("utf16")
//	width := unit.Width("héllo") // 5
//
// Edits are expressed against the text as it was before the edit batch they
// belong to. EditsOverlap reports batches whose ranges collide.
package buffer
