package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-clone/internal/config"
	"github.com/robalobadob/wordle-clone/internal/httpserver"
	"github.com/robalobadob/wordle-clone/internal/store"
	"github.com/robalobadob/wordle-clone/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	list, err := words.Load(ctx, words.Options{DB: cfg.WordsDB, File: cfg.WordsFile})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(cfg, mem, list)
	log.Info().Str("port", cfg.Port).Int("words", len(list)).Msg("starting wordle server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
