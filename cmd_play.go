package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/robalobadob/lightsout/internal/game"
	"github.com/robalobadob/lightsout/internal/puzzles"
	"github.com/robalobadob/lightsout/internal/tui"
)

var errNoTerminal = errors.New("play needs an interactive terminal")

func playCmd() *cobra.Command {
	cfg := game.DefaultConfig()
	var puzzle string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNoTerminal
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if puzzle == "" {
				return tui.Run(tui.New(cfg, nil))
			}
			if err := puzzles.Init(); err != nil {
				return err
			}
			grid, err := puzzles.Get(puzzle)
			if err != nil {
				return err
			}
			g := game.FromGrid(grid)
			g.Source = "puzzle:" + puzzle
			return tui.Run(tui.FromGame(g, cfg))
		},
	}
	f := cmd.Flags()
	f.IntVar(&cfg.Rows, "rows", cfg.Rows, "board rows")
	f.IntVar(&cfg.Cols, "cols", cfg.Cols, "board columns")
	f.Float64Var(&cfg.LitProbability, "p", cfg.LitProbability, "probability that a cell starts lit")
	f.BoolVar(&cfg.Solvable, "solvable", cfg.Solvable, "scramble from a cleared board so it can always be won")
	f.StringVar(&puzzle, "puzzle", "", "start from a named preset")
	return cmd
}
