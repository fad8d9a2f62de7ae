package session

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nchernyak/minesweeper-agent/internal/mines"
)

func TestGameParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  GameParams
		wantErr bool
	}{
		{"beginner", GameParams{9, 9, 10}, false},
		{"no mines", GameParams{3, 3, 0}, false},
		{"no safe cells", GameParams{2, 2, 4}, true},
		{"zero height", GameParams{0, 3, 1}, true},
		{"negative mines", GameParams{3, 3, -1}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.params.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGameMinelessBoardIsAlwaysWon(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(1, 2))

	g, err := New(GameParams{Height: 4, Width: 4, MineCount: 0}, rnd)
	require.NoError(t, err)

	require.NoError(t, g.Play(context.Background(), rnd))

	assert.True(t, g.Won)
	assert.False(t, g.Dead)
	assert.Equal(t, 16, g.Opened())
}

func TestGamePlayTerminates(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(5, 6))

	for range 50 {
		g, err := New(GameParams{Height: 8, Width: 8, MineCount: 8}, rnd)
		require.NoError(t, err)

		require.NoError(t, g.Play(context.Background(), rnd))
		require.True(t, g.Done(), "game neither won nor lost")

		if g.Won {
			assert.Equal(t, 8*8-8, g.Opened())
			// a won game never opened a mine
			for _, m := range g.Moves {
				assert.GreaterOrEqual(t, m.Clue, 0)
			}
		} else {
			// only a guess can lose the game
			last := g.Moves[len(g.Moves)-1]
			assert.Equal(t, -1, last.Clue)
			assert.True(t, last.Guess, "agent opened a cell it deduced safe and died")
		}
	}
}

func TestGamePlayHonorsContext(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(1, 2))

	g, err := New(GameParams{Height: 16, Width: 16, MineCount: 40}, rnd)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Play(ctx, rnd), context.Canceled)
}

func TestGameStateRoundtrip(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewPCG(7, 8))

	g, err := New(GameParams{Height: 5, Width: 5, MineCount: 3}, rnd)
	require.NoError(t, err)

	for range 3 {
		if _, err := g.Step(rnd); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := g.Bytes()
	require.NoError(t, err)

	restored, err := DecodeGame(buf)
	require.NoError(t, err)

	assert.Equal(t, g.GameParams, restored.GameParams)
	assert.Equal(t, g.Moves, restored.Moves)
	assert.Equal(t, g.Field.Mines, restored.Field.Mines)
	assert.Equal(t, g.Grid(), restored.Grid())

	// the restored game must still be playable
	require.NoError(t, restored.Play(context.Background(), rnd))
	assert.True(t, restored.Done())
}

func TestGameGrid(t *testing.T) {
	t.Parallel()

	g := &Game{
		GameParams: GameParams{Height: 2, Width: 2, MineCount: 1},
		Field: &mines.Minefield{
			Height: 2, Width: 2,
			Mines: map[mines.Cell]bool{{Row: 1, Col: 1}: true},
		},
		Agent: mines.NewAgent(2, 2),
	}

	grid := g.Grid()
	for _, state := range grid {
		assert.Equal(t, mines.Unknown, state)
	}

	require.NoError(t, g.Agent.AddKnowledge(mines.Cell{Row: 0, Col: 0}, 1))
	g.Moves = append(g.Moves, Move{Cell: mines.Cell{Row: 0, Col: 0}, Clue: 1})

	grid = g.Grid()
	assert.Equal(t, mines.CellState(1), grid[0])
	assert.Equal(t, mines.Unknown, grid[1])
}
