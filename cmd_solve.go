package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/solver"
)

func solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve [file]",
		Short: "Print the fewest presses that clear a board",
		Long:  "Reads a board (O = lit, . = unlit) from file or stdin and prints one r-c press per line.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return solveBoard(in, cmd.OutOrStdout())
		},
	}
}

func solveBoard(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	g, err := board.Parse(string(raw))
	if err != nil {
		return err
	}
	presses, err := solver.Solve(g)
	if err != nil {
		return err
	}
	for _, p := range presses {
		if _, err := fmt.Fprintln(out, p.Key()); err != nil {
			return err
		}
	}
	return nil
}
