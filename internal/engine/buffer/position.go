package buffer

import "fmt"

// Point represents a line and column position.
// Both Line and Column are 0-indexed. The unit of Column is decided by the
// host editor and described by a ColumnUnit.
type Point struct {
	Line   uint32 // 0-indexed line number
	Column uint32 // 0-indexed column within the line
}

// NewPoint creates a Point. Negative inputs are clamped to zero.
func NewPoint(line, column int) Point {
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	return Point{Line: uint32(line), Column: uint32(column)}
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Clamp returns p limited to the given line count and per-line length.
// lineLen reports the length of a line in the same unit as Column.
// An empty document clamps everything to (0:0).
func (p Point) Clamp(lineCount uint32, lineLen func(line uint32) uint32) Point {
	if lineCount == 0 {
		return Point{}
	}
	if p.Line >= lineCount {
		p.Line = lineCount - 1
	}
	if n := lineLen(p.Line); p.Column > n {
		p.Column = n
	}
	return p
}
