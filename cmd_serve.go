package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/lightsout/internal/config"
	"github.com/robalobadob/lightsout/internal/db"
	"github.com/robalobadob/lightsout/internal/game"
	"github.com/robalobadob/lightsout/internal/httpserver"
	"github.com/robalobadob/lightsout/internal/puzzles"
	"github.com/robalobadob/lightsout/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg := config.Load()
	if err := checkBoardDefaults(cfg); err != nil {
		return err
	}

	if err := puzzles.Init(); err != nil {
		return err
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	go store.Janitor(ctx, mem, cfg.SweepInterval, cfg.GameTTL)

	srv := httpserver.New(mem, conn, cfg)
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting lightsout server")
	return srv.Start(ctx, ":"+cfg.Port)
}

// checkBoardDefaults rejects env board settings that no game could be built from.
func checkBoardDefaults(cfg config.Config) error {
	bc := game.Config{Rows: cfg.BoardRows, Cols: cfg.BoardCols, LitProbability: cfg.LitProbability}
	if err := bc.Validate(); err != nil {
		return fmt.Errorf("BOARD_ROWS=%d BOARD_COLS=%d LIT_PROBABILITY=%g: %w",
			cfg.BoardRows, cfg.BoardCols, cfg.LitProbability, err)
	}
	return nil
}
