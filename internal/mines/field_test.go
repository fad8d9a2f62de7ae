package mines

import (
	"math/rand/v2"
	"testing"
)

func TestNewMinefield(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(1, 2))

	tests := []struct {
		name                     string
		height, width, mineCount int
		wantErr                  bool
	}{
		{"beginner", 9, 9, 10, false},
		{"empty board", 3, 3, 0, false},
		{"all mines", 2, 2, 4, false},
		{"too many mines", 2, 2, 5, true},
		{"negative mines", 2, 2, -1, true},
		{"zero width", 2, 0, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := NewMinefield(test.height, test.width, test.mineCount, rnd)
			if test.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if f.MineCount() != test.mineCount {
				t.Errorf("have %d mines, want %d", f.MineCount(), test.mineCount)
			}
			for c := range f.Mines {
				if !f.InBounds(c) {
					t.Errorf("mine %s out of bounds", c)
				}
			}
		})
	}
}

func TestNearbyMines(t *testing.T) {
	t.Parallel()

	// . * .
	// . . *
	// . . .
	f := &Minefield{
		Height: 3,
		Width:  3,
		Mines:  map[Cell]bool{{0, 1}: true, {1, 2}: true},
	}

	tests := []struct {
		cell Cell
		want int
	}{
		{Cell{0, 0}, 1},
		{Cell{1, 1}, 2},
		{Cell{0, 2}, 2},
		{Cell{2, 0}, 0},
		{Cell{0, 1}, 1}, // a mined cell still counts only its neighbors
	}

	for _, test := range tests {
		if have := f.NearbyMines(test.cell); have != test.want {
			t.Errorf("NearbyMines(%s): have %d, want %d", test.cell, have, test.want)
		}
	}
}
