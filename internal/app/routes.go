package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/nchernyak/minesweeper-agent/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.logger, a.db, a.cookies, a.jwt)
	solve := handlers.NewSolve(a.logger, a.db, a.ws, createRand)

	a.router.HandleFunc("GET /status", auth.Status)
	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)

	a.router.HandleFunc("POST /solve", solve.Create)
	a.router.HandleFunc("GET /solve/{id}", solve.Fetch)
	a.router.HandleFunc("POST /solve/{id}/step", solve.Step)
	a.router.HandleFunc("POST /solve/{id}/run", solve.Run)
	a.router.HandleFunc("/solve/{id}/watch", solve.Watch)

	a.router.HandleFunc("GET /highscores", solve.Highscores)
}
