package mines

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

/*
A Sentence is a single logical statement about the board: exactly
`count` of `cells` are mines. Sentences shrink in place as member
cells get resolved and carry no information once empty.
*/
type Sentence struct {
	cells map[Cell]struct{}
	count int
}

// panics [AssertionError] if count is outside [0, len(cells)]
func NewSentence(cells []Cell, count int) *Sentence {
	s := &Sentence{
		cells: make(map[Cell]struct{}, len(cells)),
		count: count,
	}
	for _, c := range cells {
		s.cells[c] = struct{}{}
	}
	s.check()
	return s
}

func (s *Sentence) check() {
	if s.count < 0 || s.count > len(s.cells) {
		panic(AssertionError{fmt.Sprintf(
			"contradictory sentence %s", s,
		)})
	}
}

func (s *Sentence) Len() int   { return len(s.cells) }
func (s *Sentence) Count() int { return s.count }

func (s *Sentence) Empty() bool { return len(s.cells) == 0 }

func (s *Sentence) Has(c Cell) bool {
	_, ok := s.cells[c]
	return ok
}

// Cells returns the unresolved cells in no particular order.
func (s *Sentence) Cells() []Cell {
	return slices.Collect(maps.Keys(s.cells))
}

/*
KnownMines returns every cell this sentence alone proves to be a
mine: all of them, when the count equals the number of cells.
*/
func (s *Sentence) KnownMines() []Cell {
	if s.count > 0 && s.count == len(s.cells) {
		return s.Cells()
	}
	return nil
}

/*
KnownSafes returns every cell this sentence alone proves to be
safe: all of them, when the count is zero.
*/
func (s *Sentence) KnownSafes() []Cell {
	if s.count == 0 {
		return s.Cells()
	}
	return nil
}

// MarkMine resolves c as a mine. No-op if c is not a member.
//
// panics [AssertionError]
func (s *Sentence) MarkMine(c Cell) {
	if _, ok := s.cells[c]; ok {
		delete(s.cells, c)
		s.count--
		s.check()
	}
}

// MarkSafe resolves c as safe. No-op if c is not a member.
//
// panics [AssertionError]
func (s *Sentence) MarkSafe(c Cell) {
	if _, ok := s.cells[c]; ok {
		delete(s.cells, c)
		s.check()
	}
}

// Subset reports whether every cell of s is a member of t.
func (s *Sentence) Subset(t *Sentence) bool {
	if len(s.cells) > len(t.cells) {
		return false
	}
	for c := range s.cells {
		if !t.Has(c) {
			return false
		}
	}
	return true
}

// Equal reports structural equality: same cell set, same count.
func (s *Sentence) Equal(t *Sentence) bool {
	return s.count == t.count &&
		len(s.cells) == len(t.cells) &&
		s.Subset(t)
}

/*
Minus derives the sentence over the cells of s that are not in sub,
with the counts subtracted. Only meaningful when sub is a subset of
s; this is the subset inference rule.

panics [AssertionError]
*/
func (s *Sentence) Minus(sub *Sentence) *Sentence {
	rest := make(map[Cell]struct{}, len(s.cells)-len(sub.cells))
	for c := range s.cells {
		if !sub.Has(c) {
			rest[c] = struct{}{}
		}
	}
	d := &Sentence{cells: rest, count: s.count - sub.count}
	d.check()
	return d
}

func (s *Sentence) String() string {
	cells := s.Cells()
	slices.SortFunc(cells, cellCmp)
	var b strings.Builder
	b.WriteString("{")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(c.String())
	}
	fmt.Fprintf(&b, "} = %d", s.count)
	return b.String()
}
