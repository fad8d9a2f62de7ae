package mines

import (
	"errors"
	"slices"
	"testing"
)

func sorted(cells []Cell) []Cell {
	out := slices.Clone(cells)
	slices.SortFunc(out, cellCmp)
	return out
}

func TestSentenceKnownMines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cells []Cell
		count int
		want  []Cell
	}{
		{
			name:  "full count",
			cells: []Cell{{0, 0}, {0, 1}},
			count: 2,
			want:  []Cell{{0, 0}, {0, 1}},
		},
		{
			name:  "partial count",
			cells: []Cell{{0, 0}, {0, 1}, {0, 2}},
			count: 2,
			want:  nil,
		},
		{
			name:  "zero count",
			cells: []Cell{{0, 0}, {0, 1}},
			count: 0,
			want:  nil,
		},
		{
			name:  "empty",
			cells: nil,
			count: 0,
			want:  nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewSentence(test.cells, test.count)
			have := sorted(s.KnownMines())
			if !slices.Equal(have, sorted(test.want)) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestSentenceKnownSafes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cells []Cell
		count int
		want  []Cell
	}{
		{
			name:  "zero count",
			cells: []Cell{{1, 1}, {1, 2}, {2, 1}},
			count: 0,
			want:  []Cell{{1, 1}, {1, 2}, {2, 1}},
		},
		{
			name:  "nonzero count",
			cells: []Cell{{1, 1}, {1, 2}},
			count: 1,
			want:  nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := NewSentence(test.cells, test.count)
			have := sorted(s.KnownSafes())
			if !slices.Equal(have, sorted(test.want)) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestSentenceMarkMine(t *testing.T) {
	t.Parallel()

	s := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 2)

	s.MarkMine(Cell{0, 1})
	if s.Has(Cell{0, 1}) || s.Count() != 1 || s.Len() != 2 {
		t.Fatalf("have %s, want {(0,0) (0,2)} = 1", s)
	}

	// marking a cell that is not a member changes nothing
	s.MarkMine(Cell{5, 5})
	if s.Count() != 1 || s.Len() != 2 {
		t.Fatalf("non-member mark mutated sentence: %s", s)
	}
}

func TestSentenceMarkSafe(t *testing.T) {
	t.Parallel()

	s := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 1)

	s.MarkSafe(Cell{0, 0})
	if s.Has(Cell{0, 0}) || s.Count() != 1 || s.Len() != 2 {
		t.Fatalf("have %s, want {(0,1) (0,2)} = 1", s)
	}

	s.MarkSafe(Cell{5, 5})
	if s.Count() != 1 || s.Len() != 2 {
		t.Fatalf("non-member mark mutated sentence: %s", s)
	}
}

func TestSentenceEqual(t *testing.T) {
	t.Parallel()

	a := NewSentence([]Cell{{0, 0}, {1, 1}}, 1)
	b := NewSentence([]Cell{{1, 1}, {0, 0}}, 1)
	c := NewSentence([]Cell{{0, 0}, {1, 1}}, 2)
	d := NewSentence([]Cell{{0, 0}}, 1)

	if !a.Equal(b) || !b.Equal(a) {
		t.Error("insertion order must not affect equality")
	}
	if a.Equal(c) {
		t.Error("sentences with different counts must not be equal")
	}
	if a.Equal(d) || d.Equal(a) {
		t.Error("sentences with different cells must not be equal")
	}
}

func TestSentenceMinus(t *testing.T) {
	t.Parallel()

	sub := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}}, 1)
	super := NewSentence([]Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, 2)

	d := super.Minus(sub)
	want := NewSentence([]Cell{{0, 3}}, 1)
	if !d.Equal(want) {
		t.Errorf("have %s, want %s", d, want)
	}
}

func TestSentenceContradictionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cells []Cell
		count int
	}{
		{"count above cell count", []Cell{{0, 0}}, 2},
		{"negative count", []Cell{{0, 0}}, -1},
		{"empty cells with nonzero count", nil, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				var ae AssertionError
				if r := recover(); r == nil {
					t.Fatal("expected a panic")
				} else if e, ok := r.(error); !ok || !errors.As(e, &ae) {
					t.Fatalf("expected an AssertionError, got %v", r)
				}
			}()
			NewSentence(test.cells, test.count)
		})
	}
}
