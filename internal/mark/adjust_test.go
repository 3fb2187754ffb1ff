package mark

import (
	"testing"

	"github.com/dshills/keymarks/internal/engine/buffer"
)

func pt(line, col uint32) buffer.Point {
	return buffer.Point{Line: line, Column: col}
}

func TestClassify(t *testing.T) {
	r := buffer.NewPointRange(pt(1, 4), pt(3, 2))

	tests := []struct {
		p    buffer.Point
		want Zone
	}{
		{pt(0, 9), ZoneBefore},
		{pt(1, 3), ZoneBefore},
		{pt(1, 4), ZoneWithin},
		{pt(2, 0), ZoneWithin},
		{pt(3, 1), ZoneWithin},
		{pt(3, 2), ZoneAfter},
		{pt(4, 0), ZoneAfter},
	}

	for _, tt := range tests {
		if got := Classify(tt.p, r); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	// An insertion has no within zone.
	ins := buffer.NewPointRange(pt(2, 2), pt(2, 2))
	if got := Classify(pt(2, 2), ins); got != ZoneAfter {
		t.Errorf("point at insertion should be after, got %v", got)
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name string
		mark buffer.Point
		edit buffer.Edit
		want buffer.Point
	}{
		{
			name: "insertion before mark on same line",
			mark: pt(2, 10),
			edit: buffer.NewInsert(pt(2, 5), "abc"),
			want: pt(2, 13),
		},
		{
			name: "multi-line insertion before mark line",
			mark: pt(5, 0),
			edit: buffer.NewInsert(pt(2, 0), "a\nb\nc"),
			want: pt(7, 0),
		},
		{
			name: "edit engulfs mark",
			mark: pt(1, 3),
			edit: buffer.NewReplace(pt(1, 0), pt(1, 10), "X\nYZ"),
			want: pt(2, 2),
		},
		{
			name: "edit on later line",
			mark: pt(0, 0),
			edit: buffer.NewReplace(pt(5, 0), pt(5, 3), "hello\nworld"),
			want: pt(0, 0),
		},
		{
			name: "edit later on same line",
			mark: pt(1, 1),
			edit: buffer.NewDelete(pt(1, 5), pt(1, 8)),
			want: pt(1, 1),
		},
		{
			name: "multi-line delete ending on mark line",
			mark: pt(3, 10),
			edit: buffer.NewDelete(pt(1, 2), pt(3, 4)),
			want: pt(1, 8),
		},
		{
			name: "mark inside deleted span",
			mark: pt(3, 2),
			edit: buffer.NewDelete(pt(1, 2), pt(3, 4)),
			want: pt(1, 2),
		},
		{
			name: "mark at deleted span start",
			mark: pt(1, 2),
			edit: buffer.NewDelete(pt(1, 2), pt(3, 4)),
			want: pt(1, 2),
		},
		{
			name: "mark at deleted span end",
			mark: pt(3, 4),
			edit: buffer.NewDelete(pt(1, 2), pt(3, 4)),
			want: pt(1, 2),
		},
		{
			name: "insertion at mark pushes it",
			mark: pt(2, 5),
			edit: buffer.NewInsert(pt(2, 5), "xy"),
			want: pt(2, 7),
		},
		{
			name: "multi-line replacement above mark",
			mark: pt(6, 3),
			edit: buffer.NewReplace(pt(2, 1), pt(4, 0), "p\nq"),
			want: pt(5, 3),
		},
		{
			name: "multi-line insertion on mark line",
			mark: pt(2, 10),
			edit: buffer.NewInsert(pt(2, 5), "ab\ncd"),
			want: pt(3, 7),
		},
		{
			name: "single-line replacement of multi-line span on mark line",
			mark: pt(4, 6),
			edit: buffer.NewReplace(pt(2, 3), pt(4, 1), "zz"),
			want: pt(2, 10),
		},
		{
			name: "empty insertion",
			mark: pt(2, 5),
			edit: buffer.NewInsert(pt(2, 5), ""),
			want: pt(2, 5),
		},
		{
			name: "reversed range is normalized",
			mark: pt(1, 3),
			edit: buffer.NewReplace(pt(1, 10), pt(1, 0), "X\nYZ"),
			want: pt(2, 2),
		},
		{
			name: "trailing newline insertion",
			mark: pt(0, 4),
			edit: buffer.NewInsert(pt(0, 0), "line\n"),
			want: pt(1, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Adjust(tt.mark, tt.edit, buffer.ColumnUTF16)
			if got != tt.want {
				t.Errorf("Adjust(%v, %v) = %v, want %v", tt.mark, tt.edit, got, tt.want)
			}
		})
	}
}

func TestAdjustColumnUnits(t *testing.T) {
	edit := buffer.NewInsert(pt(0, 0), "\U0001F600")

	tests := []struct {
		unit buffer.ColumnUnit
		want buffer.Point
	}{
		{buffer.ColumnUTF16, pt(0, 6)},
		{buffer.ColumnRunes, pt(0, 5)},
		{buffer.ColumnBytes, pt(0, 8)},
		{buffer.ColumnGraphemes, pt(0, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			if got := Adjust(pt(0, 4), edit, tt.unit); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMarkApply(t *testing.T) {
	m := New("/a.txt", 2, 10)
	m.Apply(buffer.NewInsert(pt(2, 5), "abc"), buffer.ColumnUTF16)

	if m.Pos != pt(2, 13) {
		t.Errorf("expected (2:13), got %v", m.Pos)
	}
	if m.Buffer != "/a.txt" {
		t.Errorf("buffer should be unchanged, got %q", m.Buffer)
	}
}
