package mines

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
)

var Log *slog.Logger = slog.Default()

/*
An Agent is the knowledge base for one game: the cells it has played,
the cells confirmed to be mines or safe, and the list of sentences
still carrying information. Knowledge only grows; nothing is ever
rolled back. One caller drives one agent — it is not safe for
concurrent use.
*/
type Agent struct {
	height, width int

	movesMade map[Cell]struct{}
	mines     map[Cell]struct{}
	safes     map[Cell]struct{}
	knowledge []*Sentence
}

func NewAgent(height, width int) *Agent {
	return &Agent{
		height:    height,
		width:     width,
		movesMade: make(map[Cell]struct{}),
		mines:     make(map[Cell]struct{}),
		safes:     make(map[Cell]struct{}),
	}
}

/*
MarkMine records cell as a confirmed mine and resolves it in every
sentence. Calling it again for a known mine is a no-op.

panics [AssertionError]
*/
func (a *Agent) MarkMine(cell Cell) {
	if _, ok := a.mines[cell]; ok {
		return
	}
	if _, ok := a.safes[cell]; ok {
		panic(AssertionError{fmt.Sprintf(
			"cell %s is already known to be safe", cell,
		)})
	}
	a.mines[cell] = struct{}{}
	for _, s := range a.knowledge {
		s.MarkMine(cell)
	}
}

/*
MarkSafe records cell as confirmed safe and resolves it in every
sentence. Calling it again for a known safe cell is a no-op.

panics [AssertionError]
*/
func (a *Agent) MarkSafe(cell Cell) {
	if _, ok := a.safes[cell]; ok {
		return
	}
	if _, ok := a.mines[cell]; ok {
		panic(AssertionError{fmt.Sprintf(
			"cell %s is already known to be a mine", cell,
		)})
	}
	a.safes[cell] = struct{}{}
	for _, s := range a.knowledge {
		s.MarkSafe(cell)
	}
}

/*
AddKnowledge ingests one revealed clue: cell is safe and exactly count
of its neighbors are mines. It records the move, builds a sentence
from the still-unresolved neighbors, and then derives every conclusion
reachable by the subset rule before returning.

A non-nil error means the clue contradicts earlier knowledge, which
can only happen when the board miscounts; the agent must not be used
afterwards.
*/
func (a *Agent) AddKnowledge(cell Cell, count int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ae AssertionError
			if e, ok := r.(error); ok && errors.As(e, &ae) {
				err = ae
				return
			}
			panic(r)
		}
	}()

	a.movesMade[cell] = struct{}{}
	a.MarkSafe(cell)

	if s := a.clueSentence(cell, count); !s.Empty() {
		a.knowledge = append(a.knowledge, s)
		Log.Debug("new clue",
			slog.String("cell", cell.String()),
			slog.String("sentence", s.String()),
		)
	}

	for changed := true; changed; {
		changed = a.resolveKnown()
		if a.inferFromSubsets() {
			changed = true
		}
		a.prune()
	}
	return nil
}

/*
clueSentence builds the sentence for a fresh clue: the in-bounds
neighbors of cell that are not yet resolved, with the count lowered
by one for every neighbor already known to be a mine.

panics [AssertionError] when the adjusted count cannot be satisfied
*/
func (a *Agent) clueSentence(cell Cell, count int) *Sentence {
	var neighbors []Cell
	for row := cell.Row - 1; row <= cell.Row+1; row++ {
		for col := cell.Col - 1; col <= cell.Col+1; col++ {
			n := Cell{Row: row, Col: col}
			if n == cell ||
				row < 0 || row >= a.height ||
				col < 0 || col >= a.width {
				continue
			}
			if _, ok := a.safes[n]; ok {
				continue
			}
			if _, ok := a.mines[n]; ok {
				count--
				continue
			}
			neighbors = append(neighbors, n)
		}
	}
	return NewSentence(neighbors, count)
}

/*
resolveKnown applies every single-sentence conclusion: cells of an
all-mine sentence become mines, cells of a zero-count sentence become
safe. Reports whether any cell moved out of the unknown state.
*/
func (a *Agent) resolveKnown() bool {
	changed := false
	for _, s := range a.knowledge {
		for _, c := range s.KnownMines() {
			if _, ok := a.mines[c]; !ok {
				a.MarkMine(c)
				changed = true
			}
		}
		for _, c := range s.KnownSafes() {
			if _, ok := a.safes[c]; !ok {
				a.MarkSafe(c)
				changed = true
			}
		}
	}
	return changed
}

/*
inferFromSubsets applies the subset rule to every ordered pair of
sentences: when the cells of sub are a strict subset of the cells of
super, the cells in between hold exactly the difference of the two
counts. Derived sentences already present are not added twice.
*/
func (a *Agent) inferFromSubsets() bool {
	changed := false
	for i := 0; i < len(a.knowledge); i++ {
		for j := 0; j < len(a.knowledge); j++ {
			sub, super := a.knowledge[i], a.knowledge[j]
			if i == j || sub.Empty() ||
				sub.Len() >= super.Len() || !sub.Subset(super) {
				continue
			}
			derived := super.Minus(sub)
			if derived.Empty() || a.hasSentence(derived) {
				continue
			}
			a.knowledge = append(a.knowledge, derived)
			Log.Debug("derived sentence",
				slog.String("sentence", derived.String()),
			)
			changed = true
		}
	}
	return changed
}

func (a *Agent) hasSentence(s *Sentence) bool {
	for _, t := range a.knowledge {
		if t.Equal(s) {
			return true
		}
	}
	return false
}

// prune drops sentences that have been fully resolved.
func (a *Agent) prune() {
	a.knowledge = slices.DeleteFunc(a.knowledge, func(s *Sentence) bool {
		return s.Empty()
	})
}

/*
SafeMove returns a cell known to be safe that has not been played
yet. The second return is false when no such cell exists; the caller
is expected to fall back to [Agent.RandomMove].
*/
func (a *Agent) SafeMove() (Cell, bool) {
	for c := range a.safes {
		if _, ok := a.movesMade[c]; !ok {
			return c, true
		}
	}
	return Cell{}, false
}

/*
RandomMove returns a uniformly chosen cell that has been neither
played nor identified as a mine. The second return is false when
every cell on the board is played or mined.
*/
func (a *Agent) RandomMove(rnd *rand.Rand) (Cell, bool) {
	var candidates []Cell
	for row := range a.height {
		for col := range a.width {
			c := Cell{Row: row, Col: col}
			if _, ok := a.movesMade[c]; ok {
				continue
			}
			if _, ok := a.mines[c]; ok {
				continue
			}
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[rnd.IntN(len(candidates))], true
}

// Mines returns the confirmed mines, sorted for stable output.
func (a *Agent) Mines() []Cell { return sortedCells(a.mines) }

// Safes returns the cells confirmed safe, sorted for stable output.
func (a *Agent) Safes() []Cell { return sortedCells(a.safes) }

// MovesMade returns the played cells, sorted for stable output.
func (a *Agent) MovesMade() []Cell { return sortedCells(a.movesMade) }

func (a *Agent) IsMine(c Cell) bool {
	_, ok := a.mines[c]
	return ok
}

func (a *Agent) IsSafe(c Cell) bool {
	_, ok := a.safes[c]
	return ok
}
