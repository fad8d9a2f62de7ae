package session

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	"github.com/nchernyak/minesweeper-agent/internal/mines"
)

type GameParams struct {
	Height, Width, MineCount int
}

func (p GameParams) Validate() error {
	if p.Height <= 0 || p.Width <= 0 {
		return fmt.Errorf("invalid board size %dx%d", p.Height, p.Width)
	}
	if p.MineCount < 0 || p.MineCount >= p.Height*p.Width {
		return fmt.Errorf(
			"mine count %d out of range for a %dx%d board",
			p.MineCount, p.Height, p.Width,
		)
	}
	return nil
}

// Move is one turn taken by the agent.
type Move struct {
	Cell  mines.Cell
	Clue  int  // -1 when the move hit a mine
	Guess bool // no safe cell was known, the agent picked at random
}

/*
A Game couples one minefield with one inference agent and plays it
out turn by turn. The agent only ever sees clue counts; the field's
mine positions stay on this side of the boundary.
*/
type Game struct {
	GameParams
	Field *mines.Minefield
	Agent *mines.Agent
	Moves []Move
	Dead  bool
	Won   bool
}

func New(params GameParams, rnd *rand.Rand) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	field, err := mines.NewMinefield(
		params.Height, params.Width, params.MineCount, rnd,
	)
	if err != nil {
		return nil, err
	}
	return &Game{
		GameParams: params,
		Field:      field,
		Agent:      mines.NewAgent(params.Height, params.Width),
	}, nil
}

func DecodeGame(buf []byte) (*Game, error) {
	var game Game
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (g Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(g)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Done reports whether the game reached a terminal state.
func (g *Game) Done() bool {
	return g.Dead || g.Won
}

// Opened returns the number of cells revealed so far.
func (g *Game) Opened() (n int) {
	for _, m := range g.Moves {
		if m.Clue >= 0 {
			n++
		}
	}
	return
}

// Guesses returns how many moves were not known to be safe.
func (g *Game) Guesses() (n int) {
	for _, m := range g.Moves {
		if m.Guess {
			n++
		}
	}
	return
}

/*
Step plays one turn: a cell the agent knows to be safe when one is
available, otherwise a random cell that is not a known mine. The
clue for the chosen cell feeds back into the agent. Returns false
when the game is over or no cell is left to play.
*/
func (g *Game) Step(rnd *rand.Rand) (bool, error) {
	if g.Done() {
		return false, nil
	}

	cell, ok := g.Agent.SafeMove()
	guess := false
	if !ok {
		cell, ok = g.Agent.RandomMove(rnd)
		guess = true
	}
	if !ok {
		// nothing left to play; with a truthful board this only
		// happens when every unopened cell is a known mine
		g.Won = g.Opened() == g.Height*g.Width-g.MineCount
		return false, nil
	}

	if g.Field.IsMine(cell) {
		g.Dead = true
		g.Moves = append(g.Moves, Move{Cell: cell, Clue: -1, Guess: guess})
		return false, nil
	}

	clue := g.Field.NearbyMines(cell)
	g.Moves = append(g.Moves, Move{Cell: cell, Clue: clue, Guess: guess})
	if err := g.Agent.AddKnowledge(cell, clue); err != nil {
		return false, fmt.Errorf("inconsistent clue for %s: %w", cell, err)
	}

	if g.Opened() == g.Height*g.Width-g.MineCount {
		g.Won = true
	}
	return !g.Done(), nil
}

// Play runs the game to completion or until ctx is cancelled.
func (g *Game) Play(ctx context.Context, rnd *rand.Rand) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := g.Step(rnd)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Grid renders the agent's current view of the board.
func (g *Game) Grid() mines.Grid {
	grid := make(mines.Grid, g.Height*g.Width)
	for i := range grid {
		grid[i] = mines.Unknown
	}
	for _, c := range g.Agent.Mines() {
		grid[c.Row*g.Width+c.Col] = mines.Flagged
	}
	for _, m := range g.Moves {
		i := m.Cell.Row*g.Width + m.Cell.Col
		if m.Clue < 0 {
			grid[i] = mines.Exploded
		} else {
			grid[i] = mines.CellState(m.Clue)
		}
	}
	return grid
}
