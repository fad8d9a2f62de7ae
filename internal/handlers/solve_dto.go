package handlers

import (
	"strconv"
	"time"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nchernyak/minesweeper-agent/internal/mines"
	"github.com/nchernyak/minesweeper-agent/internal/repository"
	"github.com/nchernyak/minesweeper-agent/internal/session"
)

type CreateSolveDTO struct {
	Width     int     `schema:"width,required"`
	Height    int     `schema:"height,required"`
	MineCount int     `schema:"mine_count,required"`
	Seed      *uint64 `schema:"seed"`
}

func ParseCreateSolveDTO(src map[string][]string) (CreateSolveDTO, error) {
	var dto CreateSolveDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto CreateSolveDTO) GameParams() session.GameParams {
	return session.GameParams{
		Height:    dto.Height,
		Width:     dto.Width,
		MineCount: dto.MineCount,
	}
}

type SolveSessionDTO struct {
	SolveSessionId string     `json:"solve_session_id"`
	Grid           mines.Grid `json:"grid"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	MineCount      int        `json:"mine_count"`
	Moves          int        `json:"moves"`
	Guesses        int        `json:"guesses"`
	KnownMines     int        `json:"known_mines"`
	Dead           bool       `json:"dead"`
	Won            bool       `json:"won"`
	StartedAt      int64      `json:"started_at"`
	EndedAt        *int64     `json:"ended_at,omitempty"`
}

func NewSolveSessionDTO(
	dbSession *repository.SolveSession, game *session.Game,
) *SolveSessionDTO {
	return &SolveSessionDTO{
		SolveSessionId: strconv.FormatInt(dbSession.SolveSessionId, 10),
		Grid:           game.Grid(),
		Width:          game.Width,
		Height:         game.Height,
		MineCount:      game.MineCount,
		Moves:          len(game.Moves),
		Guesses:        game.Guesses(),
		KnownMines:     len(game.Agent.Mines()),
		Dead:           game.Dead,
		Won:            game.Won,
		StartedAt:      dbSession.StartedAt.Time.UnixMilli(),
		EndedAt:        unixMilliOrNil(dbSession.EndedAt),
	}
}

func unixMilliOrNil(ts pgtype.Timestamptz) *int64 {
	if !ts.Valid {
		return nil
	}
	ms := ts.Time.UnixMilli()
	return &ms
}

// StatsFilterDTO narrows /highscores output; every field is optional.
type StatsFilterDTO struct {
	Username  *string `schema:"username"`
	Width     *int    `schema:"width"`
	Height    *int    `schema:"height"`
	MineCount *int    `schema:"mine_count"`
}

func ParseStatsFilterDTO(src map[string][]string) (StatsFilterDTO, error) {
	var dto StatsFilterDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto StatsFilterDTO) Filter() repository.AgentStatsFilter {
	filter := repository.AgentStatsFilter{Username: dto.Username}
	if dto.Width != nil && dto.Height != nil && dto.MineCount != nil {
		filter.GameParams = &session.GameParams{
			Height:    *dto.Height,
			Width:     *dto.Width,
			MineCount: *dto.MineCount,
		}
	}
	return filter
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
