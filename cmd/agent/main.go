package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/nchernyak/minesweeper-agent/internal/session"
)

var log = logrus.New()

var (
	width     int
	height    int
	mineCount int
	games     int
	parallel  int
	seed      uint64
	verbose   bool
	logFile   string
)

func init() {
	flag.IntVar(&width, "width", 9, "board width")
	flag.IntVar(&height, "height", 9, "board height")
	flag.IntVar(&mineCount, "mines", 10, "mine count")
	flag.IntVar(&games, "games", 100, "number of games to play")
	flag.IntVar(&parallel, "parallel", 4, "games played concurrently")
	flag.Uint64Var(&seed, "seed", 1, "base random seed")
	flag.BoolVar(&verbose, "v", false, "log the final grid of every game")
	flag.StringVar(&logFile, "log-file", "", "also write logs to a rotated file")
}

func setupLogging() {
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logrus.DebugLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.Fatal("unable to create log file hook: ", err)
		}
		log.AddHook(hook)
	}
}

type result struct {
	won     bool
	moves   int
	guesses int
}

func main() {
	flag.Parse()
	setupLogging()

	params := session.GameParams{
		Height:    height,
		Width:     width,
		MineCount: mineCount,
	}
	if err := params.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	log.WithFields(logrus.Fields{
		"board": fmt.Sprintf("%dx%d(%d)", width, height, mineCount),
		"games": games,
	}).Info("starting batch")

	var (
		mu      sync.Mutex
		results []result
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range games {
		g.Go(func() error {
			rnd := rand.New(rand.NewPCG(seed, uint64(i)))
			game, err := session.New(params, rnd)
			if err != nil {
				return err
			}
			if err := game.Play(gCtx, rnd); err != nil {
				return err
			}

			entry := log.WithFields(logrus.Fields{
				"game":    i,
				"won":     game.Won,
				"moves":   len(game.Moves),
				"guesses": game.Guesses(),
			})
			if verbose {
				entry.Debug("finished\n" + game.Grid().ToString(game.Width))
			} else {
				entry.Debug("finished")
			}

			mu.Lock()
			results = append(results, result{
				won:     game.Won,
				moves:   len(game.Moves),
				guesses: game.Guesses(),
			})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal("batch aborted: ", err)
	}

	n := len(results)
	if n == 0 {
		log.Info("no games played")
		return
	}

	var wins, moves, guesses int
	for _, r := range results {
		if r.won {
			wins++
		}
		moves += r.moves
		guesses += r.guesses
	}

	log.WithFields(logrus.Fields{
		"games":       n,
		"wins":        wins,
		"win_rate":    fmt.Sprintf("%.1f%%", 100*float64(wins)/float64(n)),
		"avg_moves":   fmt.Sprintf("%.1f", float64(moves)/float64(n)),
		"avg_guesses": fmt.Sprintf("%.1f", float64(guesses)/float64(n)),
	}).Info("batch complete")
}
