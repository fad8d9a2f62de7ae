package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nchernyak/minesweeper-agent/internal/session"
)

// AgentStats aggregates finished sessions per board configuration.
type AgentStats struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	MineCount  int     `json:"mine_count"`
	Games      int64   `json:"games"`
	Wins       int64   `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	AvgMoves   float64 `json:"avg_moves"`
	AvgGuesses float64 `json:"avg_guesses"`
}

type AgentStatsFilter struct {
	Username   *string
	GameParams *session.GameParams
}

func (f AgentStatsFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
		args["mineCount"] = f.GameParams.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) GetAgentStats(
	ctx context.Context, filter AgentStatsFilter,
) ([]AgentStats, error) {
	query := `
	SELECT
		width,
		height,
		mine_count,
		count(*) games,
		count(*) FILTER (WHERE won) wins,
		count(*) FILTER (WHERE won)::float / count(*) win_rate,
		avg(moves) avg_moves,
		avg(guesses) avg_guesses
	FROM solve_session
		LEFT OUTER JOIN player USING (player_id)
	WHERE ended_at IS NOT NULL
	`
	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}
	query += `
	GROUP BY width, height, mine_count
	ORDER BY width, height, mine_count`

	rows, _ := q.db.Query(ctx, query, args)
	return pgx.CollectRows(rows, pgx.RowToStructByName[AgentStats])
}
