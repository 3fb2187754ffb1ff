package mark

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Store)
	}{
		{
			name:  "empty",
			setup: func(*Store) {},
		},
		{
			name: "populated",
			setup: func(s *Store) {
				s.Create("a", "/a", pt(1, 2))
				s.Create("A", "/a", pt(3, 4))
				s.Create("b", "/a", pt(5, 6))
				s.Create("a", "/b", pt(7, 8))
				s.Create("Z", "/c", pt(9, 10))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewStore()
			tt.setup(src)
			sn := src.Snapshot()

			dst := NewStore()
			if err := dst.Restore(sn); err != nil {
				t.Fatalf("Restore error = %v", err)
			}

			if diff := cmp.Diff(sn, dst.Snapshot()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(src.Entries("/a"), dst.Entries("/a")); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
			if src.Len() != dst.Len() {
				t.Errorf("expected %d marks, got %d", src.Len(), dst.Len())
			}
		})
	}
}

func TestSnapshotLayout(t *testing.T) {
	s := NewStore()
	s.Create("a", "/b", pt(1, 1))
	s.Create("a", "/a", pt(2, 2))
	s.Create("A", "/a", pt(3, 3))

	want := Snapshot{
		Global: []GlobalMark{{Name: "a", Line: 3, Column: 3, Buffer: "/a"}},
		Local: []LocalMarks{
			{Buffer: "/a", Marks: []LocalMark{{Name: "a", Line: 2, Column: 2}}},
			{Buffer: "/b", Marks: []LocalMark{{Name: "a", Line: 1, Column: 1}}},
		},
	}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if s.Snapshot().IsEmpty() {
		t.Error("populated snapshot should not be empty")
	}
	if !NewStore().Snapshot().IsEmpty() {
		t.Error("new store snapshot should be empty")
	}
}

func TestRestoreInvalid(t *testing.T) {
	tests := []struct {
		name string
		sn   Snapshot
	}{
		{"bad global name", Snapshot{Global: []GlobalMark{{Name: "ab", Buffer: "/a"}}}},
		{"global without buffer", Snapshot{Global: []GlobalMark{{Name: "a"}}}},
		{"local without buffer", Snapshot{Local: []LocalMarks{{Marks: []LocalMark{{Name: "a"}}}}}},
		{"bad local name", Snapshot{Local: []LocalMarks{{Buffer: "/a", Marks: []LocalMark{{Name: "1"}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Create("k", "/keep", pt(0, 0))

			err := s.Restore(tt.sn)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("expected ErrInvalidSnapshot, got %v", err)
			}
			if _, err := s.Lookup("k", "/keep"); err != nil {
				t.Errorf("failed restore should leave store unchanged, got %v", err)
			}
		})
	}
}

func TestRestoreAcceptsUpperCaseKeys(t *testing.T) {
	s := NewStore()
	err := s.Restore(Snapshot{
		Global: []GlobalMark{{Name: "Q", Line: 1, Buffer: "/a"}},
	})
	if err != nil {
		t.Fatalf("Restore error = %v", err)
	}
	if _, err := s.Lookup("Q", ""); err != nil {
		t.Errorf("expected global q, got %v", err)
	}
}
