package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nchernyak/minesweeper-agent/internal/config"
	"github.com/nchernyak/minesweeper-agent/internal/middleware"
	"github.com/nchernyak/minesweeper-agent/internal/repository"
	"github.com/nchernyak/minesweeper-agent/internal/session"
)

type Solve struct {
	logger  *slog.Logger
	repo    *repository.Queries
	ws      *config.WebSocket
	newRand func() *rand.Rand
}

func NewSolve(
	logger *slog.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	newRand func() *rand.Rand,
) *Solve {
	return &Solve{
		logger:  logger,
		repo:    repository.New(db),
		ws:      ws,
		newRand: newRand,
	}
}

func (s Solve) seededRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	return s.newRand()
}

// Create starts a new solve session: a fresh board and a blank agent.
func (s Solve) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateSolveDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, s.logger, wrapError(err))
		return
	}

	params := dto.GameParams()
	if err := params.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, s.logger, wrapError(err))
		return
	}

	game, err := session.New(params, s.seededRand(dto.Seed))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("unable to create a game", "error", err)
		return
	}

	var createParams repository.CreateSolveSessionParams
	if claims, ok := r.Context().
		Value(middleware.CtxPlayerClaims).(*config.PlayerClaims); ok {
		createParams.PlayerId = &claims.PlayerId
	}

	dbSession, err := s.repo.CreateSolveSession(r.Context(), game, createParams)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("unable to create solve session", "error", err)
		return
	}

	sendJSONOrLog(w, s.logger, NewSolveSessionDTO(dbSession, game))
}

func (s Solve) Fetch(w http.ResponseWriter, r *http.Request) {
	dbSession, game, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, s.logger, NewSolveSessionDTO(dbSession, game))
}

// Step advances the session by one agent move.
func (s Solve) Step(w http.ResponseWriter, r *http.Request) {
	dbSession, game, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	if _, err := game.Step(s.newRand()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("inference failed", "error", err)
		return
	}

	dbSession, ok = s.saveSession(w, r.Context(), dbSession, game)
	if !ok {
		return
	}

	sendJSONOrLog(w, s.logger, NewSolveSessionDTO(dbSession, game))
}

// Run plays the session to completion.
func (s Solve) Run(w http.ResponseWriter, r *http.Request) {
	dbSession, game, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	timeout := parseDuration(r.URL.Query().Get("timeout"), 30*time.Second)
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	if err := game.Play(ctx, s.newRand()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("unable to play session out", "error", err)
		return
	}

	dbSession, ok = s.saveSession(w, r.Context(), dbSession, game)
	if !ok {
		return
	}

	sendJSONOrLog(w, s.logger, NewSolveSessionDTO(dbSession, game))
}

/*
Watch upgrades to a websocket and accepts single-letter text
commands: "g" sends the current state, "s" plays one move, "r" plays
the session out. Every command is answered with the session DTO.
*/
func (s Solve) Watch(w http.ResponseWriter, r *http.Request) {
	dbSession, game, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	c, err := s.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer c.Close()

	rnd := s.newRand()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", "error", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		switch string(message) {
		case "g":
			// no move, just report
		case "s":
			if _, err := game.Step(rnd); err != nil {
				s.logger.Error("inference failed", "error", err)
				return
			}
		case "r":
			if err := game.Play(r.Context(), rnd); err != nil {
				s.logger.Error("unable to play session out", "error", err)
				return
			}
		default:
			if err := c.WriteJSON(wrapError(
				errors.New("unknown command"),
			)); err != nil {
				return
			}
			continue
		}

		updated, err := s.updateSession(r.Context(), dbSession, game)
		if err != nil {
			s.logger.Error("unable to update solve session", "error", err)
			return
		}
		dbSession = updated

		if err := c.WriteJSON(NewSolveSessionDTO(dbSession, game)); err != nil {
			s.logger.Error("websocket write", "error", err)
			return
		}
	}
}

func (s Solve) Highscores(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseStatsFilterDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, s.logger, wrapError(err))
		return
	}

	stats, err := s.repo.GetAgentStats(r.Context(), dto.Filter())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("unable to fetch agent stats", "error", err)
		return
	}

	sendJSONOrLog(w, s.logger, stats)
}

func (s Solve) loadSession(
	w http.ResponseWriter, r *http.Request,
) (*repository.SolveSession, *session.Game, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	dbSession, err := s.repo.FetchSolveSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("unable to fetch solve session", "error", err)
		return nil, nil, false
	}

	game, err := session.DecodeGame(dbSession.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("db returned invalid solve_session.state", "error", err)
		return nil, nil, false
	}

	return dbSession, game, true
}

func (s Solve) updateSession(
	ctx context.Context, dbSession *repository.SolveSession, game *session.Game,
) (*repository.SolveSession, error) {
	state, err := game.Bytes()
	if err != nil {
		return nil, err
	}
	params := repository.UpdateSolveSessionParams{State: &state}.FromGame(game)
	return s.repo.UpdateSolveSession(ctx, dbSession.SolveSessionId, params)
}

func (s Solve) saveSession(
	w http.ResponseWriter,
	ctx context.Context,
	dbSession *repository.SolveSession,
	game *session.Game,
) (*repository.SolveSession, bool) {
	updated, err := s.updateSession(ctx, dbSession, game)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.logger.Error("unable to update solve session", "error", err)
		return nil, false
	}
	return updated, true
}
