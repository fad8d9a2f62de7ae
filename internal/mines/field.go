package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

/*
A Minefield is the ground truth of one game: board dimensions and the
hidden mine positions. The agent never reads it directly; the session
layer relays clue counts to it one revealed cell at a time.
*/
type Minefield struct {
	Height, Width int
	Mines         map[Cell]bool
}

// NewMinefield places mineCount mines uniformly at random.
func NewMinefield(height, width, mineCount int, rnd *rand.Rand) (*Minefield, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", height, width)
	}
	if mineCount < 0 || mineCount > height*width {
		return nil, fmt.Errorf(
			"mine count %d out of range for a %dx%d board",
			mineCount, height, width,
		)
	}
	f := &Minefield{
		Height: height,
		Width:  width,
		Mines:  make(map[Cell]bool, mineCount),
	}
	for len(f.Mines) < mineCount {
		c := Cell{Row: rnd.IntN(height), Col: rnd.IntN(width)}
		f.Mines[c] = true
	}
	return f, nil
}

func (f *Minefield) InBounds(c Cell) bool {
	return 0 <= c.Row && c.Row < f.Height && 0 <= c.Col && c.Col < f.Width
}

func (f *Minefield) IsMine(c Cell) bool {
	return f.Mines[c]
}

func (f *Minefield) MineCount() int {
	return len(f.Mines)
}

/*
NearbyMines returns the clue for a cell: the number of mines within
one row and column of it, the cell itself excluded.
*/
func (f *Minefield) NearbyMines(c Cell) (count int) {
	for row := c.Row - 1; row <= c.Row+1; row++ {
		for col := c.Col - 1; col <= c.Col+1; col++ {
			n := Cell{Row: row, Col: col}
			if n != c && f.InBounds(n) && f.Mines[n] {
				count++
			}
		}
	}
	return
}

func (f *Minefield) String() string {
	var b strings.Builder
	for row := range f.Height {
		for col := range f.Width {
			if f.Mines[Cell{Row: row, Col: col}] {
				fmt.Fprint(&b, "* ")
			} else {
				fmt.Fprint(&b, "- ")
			}
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
