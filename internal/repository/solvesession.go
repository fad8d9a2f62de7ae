package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nchernyak/minesweeper-agent/internal/session"
)

type SolveSession struct {
	SolveSessionId int64
	PlayerId       *int64
	Width          int32
	Height         int32
	MineCount      int32
	Moves          int32
	Guesses        int32
	Dead           bool
	Won            bool
	StartedAt      pgtype.Timestamptz
	EndedAt        pgtype.Timestamptz
	State          []byte
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type CreateSolveSessionParams struct {
	PlayerId *int64
}

func (q *Queries) CreateSolveSession(
	ctx context.Context, game *session.Game, params CreateSolveSessionParams,
) (*SolveSession, error) {
	state, err := game.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"player_id":  params.PlayerId,
		"width":      game.Width,
		"height":     game.Height,
		"mine_count": game.MineCount,
		"moves":      len(game.Moves),
		"guesses":    game.Guesses(),
		"dead":       game.Dead,
		"won":        game.Won,
		"state":      state,
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO solve_session (
			player_id, width, height, mine_count, moves, guesses, dead, won, state
		)
		VALUES (
			@player_id, @width, @height, @mine_count, @moves, @guesses, @dead, @won, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[SolveSession],
	)
}

func (q *Queries) FetchSolveSession(
	ctx context.Context, solveSessionId int64,
) (*SolveSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM solve_session WHERE solve_session_id = $1",
		solveSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolveSession])
}

type UpdateSolveSessionParams struct {
	Moves   *int
	Guesses *int
	Dead    *bool
	Won     *bool
	EndedAt *time.Time
	State   *[]byte
}

// FromGame fills the update from the game's current state, stamping
// ended_at when the game just finished.
func (p UpdateSolveSessionParams) FromGame(game *session.Game) UpdateSolveSessionParams {
	moves := len(game.Moves)
	guesses := game.Guesses()
	p.Moves = &moves
	p.Guesses = &guesses
	p.Dead = &game.Dead
	p.Won = &game.Won
	if game.Done() {
		endedAt := time.Now().UTC()
		p.EndedAt = &endedAt
	}
	return p
}

func (p UpdateSolveSessionParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Moves != nil {
		parts = append(parts, "moves = @moves")
		args["moves"] = *p.Moves
	}
	if p.Guesses != nil {
		parts = append(parts, "guesses = @guesses")
		args["guesses"] = *p.Guesses
	}
	if p.Dead != nil {
		parts = append(parts, "dead = @dead")
		args["dead"] = *p.Dead
	}
	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateSolveSession(
	ctx context.Context, solveSessionId int64, params UpdateSolveSessionParams,
) (*SolveSession, error) {
	setClause, args := params.SetClause()
	args["solve_session_id"] = solveSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE solve_session SET "+setClause+
			" WHERE solve_session_id = @solve_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SolveSession])
}
