package mines

import (
	"math/rand/v2"
	"testing"
)

// fixpoint mirrors the propagation loop of AddKnowledge for tests
// that seed the knowledge base directly.
func (a *Agent) fixpoint() {
	for changed := true; changed; {
		changed = a.resolveKnown()
		if a.inferFromSubsets() {
			changed = true
		}
		a.prune()
	}
}

func TestAgentMarkIdempotence(t *testing.T) {
	t.Parallel()

	a := NewAgent(4, 4)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{{0, 0}, {0, 1}, {1, 0}}, 2),
	)

	a.MarkMine(Cell{0, 0})
	mines, safes := a.Mines(), a.Safes()
	sentence := a.knowledge[0].String()

	a.MarkMine(Cell{0, 0})
	if len(a.Mines()) != len(mines) || a.knowledge[0].String() != sentence {
		t.Error("second MarkMine changed state")
	}

	a.MarkSafe(Cell{0, 1})
	safes = a.Safes()
	sentence = a.knowledge[0].String()

	a.MarkSafe(Cell{0, 1})
	if len(a.Safes()) != len(safes) || a.knowledge[0].String() != sentence {
		t.Error("second MarkSafe changed state")
	}
}

func TestAgentSubsetRule(t *testing.T) {
	t.Parallel()

	var (
		x = Cell{0, 0}
		y = Cell{0, 1}
		z = Cell{0, 2}
		d = Cell{0, 3}
	)

	a := NewAgent(4, 4)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{x, y, z}, 1),
		NewSentence([]Cell{x, y, z, d}, 2),
	)

	if !a.inferFromSubsets() {
		t.Fatal("expected the subset rule to fire")
	}
	if !a.hasSentence(NewSentence([]Cell{d}, 1)) {
		t.Fatal("expected the derived sentence {(0,3)} = 1")
	}

	a.fixpoint()
	if !a.IsMine(d) {
		t.Errorf("expected %s to be classified as a mine", d)
	}
}

func TestAgentZeroCountResolution(t *testing.T) {
	t.Parallel()

	cells := []Cell{{1, 1}, {1, 2}, {2, 1}}
	a := NewAgent(4, 4)
	a.knowledge = append(a.knowledge,
		NewSentence(cells, 0),
		NewSentence([]Cell{{1, 1}, {3, 3}}, 1),
	)

	a.fixpoint()

	for _, c := range cells {
		if !a.IsSafe(c) {
			t.Errorf("expected %s to be safe", c)
		}
		for _, s := range a.knowledge {
			if s.Has(c) {
				t.Errorf("resolved cell %s still present in %s", c, s)
			}
		}
	}
}

func TestAgentFullCountResolution(t *testing.T) {
	t.Parallel()

	a := NewAgent(4, 4)
	a.knowledge = append(a.knowledge,
		NewSentence([]Cell{{2, 2}, {2, 3}}, 2),
	)

	a.fixpoint()

	for _, c := range []Cell{{2, 2}, {2, 3}} {
		if !a.IsMine(c) {
			t.Errorf("expected %s to be a mine", c)
		}
	}
}

func TestAgentSingleNeighborBoard(t *testing.T) {
	t.Parallel()

	a := NewAgent(1, 3)
	if err := a.AddKnowledge(Cell{0, 0}, 0); err != nil {
		t.Fatal(err)
	}
	if !a.IsSafe(Cell{0, 1}) {
		t.Error("expected (0,1) to be safe after a zero clue at (0,0)")
	}
}

func TestAgentCornerFullClue(t *testing.T) {
	t.Parallel()

	// a corner cell has exactly three neighbors; a clue of 3 makes
	// every one of them a mine
	a := NewAgent(3, 3)
	if err := a.AddKnowledge(Cell{0, 0}, 3); err != nil {
		t.Fatal(err)
	}
	for _, c := range []Cell{{0, 1}, {1, 0}, {1, 1}} {
		if !a.IsMine(c) {
			t.Errorf("expected %s to be a mine", c)
		}
	}
}

func TestAgentContradictionSurfaces(t *testing.T) {
	t.Parallel()

	// (0,0) on a 1x3 board has a single neighbor, so a clue of 2
	// cannot be satisfied
	a := NewAgent(1, 3)
	if err := a.AddKnowledge(Cell{0, 0}, 2); err == nil {
		t.Fatal("expected an error for an unsatisfiable clue")
	}
}

func TestAgentNoMovesLeft(t *testing.T) {
	t.Parallel()

	a := NewAgent(1, 2)
	rnd := rand.New(rand.NewPCG(1, 2))

	if err := a.AddKnowledge(Cell{0, 0}, 1); err != nil {
		t.Fatal(err)
	}
	if !a.IsMine(Cell{0, 1}) {
		t.Fatal("expected (0,1) to be a mine")
	}
	if _, ok := a.SafeMove(); ok {
		t.Error("expected no safe move")
	}
	if _, ok := a.RandomMove(rnd); ok {
		t.Error("expected no random move")
	}
}

func TestAgentMoveQueries(t *testing.T) {
	t.Parallel()

	a := NewAgent(2, 2)
	rnd := rand.New(rand.NewPCG(1, 2))

	if err := a.AddKnowledge(Cell{0, 0}, 0); err != nil {
		t.Fatal(err)
	}

	c, ok := a.SafeMove()
	if !ok {
		t.Fatal("expected a safe move after a zero clue")
	}
	if !a.IsSafe(c) {
		t.Errorf("safe move %s is not a known safe cell", c)
	}
	if _, played := a.movesMade[c]; played {
		t.Errorf("safe move %s was already played", c)
	}

	c, ok = a.RandomMove(rnd)
	if !ok {
		t.Fatal("expected a random move")
	}
	if a.IsMine(c) {
		t.Errorf("random move %s is a known mine", c)
	}
}

// Feed the agent truthful clues for generated boards and check the
// knowledge invariants after every operation.
func TestAgentInvariantsOverFullGames(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(3, 4))

	for range 25 {
		field, err := NewMinefield(6, 6, 6, rnd)
		if err != nil {
			t.Fatal(err)
		}
		a := NewAgent(6, 6)

		var prevMines, prevSafes, prevMoves int
		for {
			cell, ok := a.SafeMove()
			if !ok {
				cell, ok = a.RandomMove(rnd)
			}
			if !ok || field.IsMine(cell) {
				break
			}
			if err := a.AddKnowledge(cell, field.NearbyMines(cell)); err != nil {
				t.Fatalf("truthful clue rejected: %v", err)
			}

			for _, c := range a.Mines() {
				if a.IsSafe(c) {
					t.Fatalf("cell %s is both mine and safe", c)
				}
				if !field.IsMine(c) {
					t.Fatalf("agent wrongly concluded %s is a mine", c)
				}
			}
			for _, c := range a.Safes() {
				if field.IsMine(c) {
					t.Fatalf("agent wrongly concluded %s is safe", c)
				}
			}
			for _, s := range a.knowledge {
				if s.Count() < 0 || s.Count() > s.Len() {
					t.Fatalf("unsound sentence %s", s)
				}
			}

			mines, safes, moves := len(a.Mines()), len(a.Safes()), len(a.MovesMade())
			if mines < prevMines || safes < prevSafes || moves < prevMoves {
				t.Fatal("knowledge shrank")
			}
			prevMines, prevSafes, prevMoves = mines, safes, moves
		}
	}
}

// A clue that adds no information must still return promptly.
func TestAgentFixpointOnNoNewKnowledge(t *testing.T) {
	t.Parallel()

	a := NewAgent(2, 2)
	for range 3 {
		if err := a.AddKnowledge(Cell{0, 0}, 0); err != nil {
			t.Fatal(err)
		}
	}
	if len(a.knowledge) != 0 {
		t.Errorf("expected an empty knowledge base, have %d sentences", len(a.knowledge))
	}
}
