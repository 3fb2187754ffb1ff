package mark

import "github.com/dshills/keymarks/internal/engine/buffer"

// Zone classifies a point relative to an edit's original range.
type Zone uint8

const (
	// ZoneBefore means the point strictly precedes the range start.
	ZoneBefore Zone = iota

	// ZoneWithin means the range covers the point.
	ZoneWithin

	// ZoneAfter means the point is at or beyond the range end.
	ZoneAfter
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneBefore:
		return "before"
	case ZoneWithin:
		return "within"
	case ZoneAfter:
		return "after"
	default:
		return "unknown"
	}
}

// Classify returns the zone of p relative to the half-open range r.
// An empty range (pure insertion) has no within zone: a point at the
// insertion point is after it.
func Classify(p buffer.Point, r buffer.PointRange) Zone {
	if p.Before(r.Start) {
		return ZoneBefore
	}
	if !p.Before(r.End) {
		return ZoneAfter
	}
	return ZoneWithin
}

// Adjust returns p transformed across edit. Column widths of the replacement
// text are measured in unit.
//
// Transformation rules:
//   - Point before the edit: unchanged
//   - Point covered by the edit: moves to the end of the replacement text
//   - Point after the edit: shifted by the net lines added; the column also
//     shifts when the point shares the edit's last line
func Adjust(p buffer.Point, edit buffer.Edit, unit buffer.ColumnUnit) buffer.Point {
	r := edit.Range
	if !r.IsValid() {
		r.Start, r.End = r.End, r.Start
	}

	switch Classify(p, r) {
	case ZoneBefore:
		return p
	case ZoneWithin:
		return endOfReplacement(r, edit.Lines(), unit)
	default:
		return shiftAfter(p, r, edit.Lines(), unit)
	}
}

// endOfReplacement returns the point just past the inserted text.
func endOfReplacement(r buffer.PointRange, lines []string, unit buffer.ColumnUnit) buffer.Point {
	last := unit.Width(lines[len(lines)-1])
	if len(lines) > 1 {
		return buffer.Point{
			Line:   r.Start.Line + uint32(len(lines)-1),
			Column: last,
		}
	}
	return buffer.Point{
		Line:   r.Start.Line,
		Column: r.Start.Column + last,
	}
}

// shiftAfter moves a point that follows the edit. p is at or past r.End,
// so neither subtraction can underflow.
func shiftAfter(p buffer.Point, r buffer.PointRange, lines []string, unit buffer.ColumnUnit) buffer.Point {
	out := p
	if p.Line == r.End.Line {
		// Distance from the old range end carries over to the new text end.
		tail := p.Column - r.End.Column
		out.Column = endOfReplacement(r, lines, unit).Column + tail
	}
	out.Line = p.Line - r.LineSpan() + uint32(len(lines)-1)
	return out
}

// Apply moves the mark across edit in place.
func (m *Mark) Apply(edit buffer.Edit, unit buffer.ColumnUnit) {
	m.Pos = Adjust(m.Pos, edit, unit)
}
