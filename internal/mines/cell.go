package mines

import (
	"fmt"
	"maps"
	"slices"
)

// Cell is a board coordinate, zero-based, row first.
type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func cellCmp(a, b Cell) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}

func sortedCells(set map[Cell]struct{}) []Cell {
	return slices.SortedFunc(maps.Keys(set), cellCmp)
}
