package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/lightsout/internal/config"
	"github.com/robalobadob/lightsout/internal/game"
	"github.com/robalobadob/lightsout/internal/solver"
)

func TestSolveBoard(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("; a plus in the middle\n.....\n..O..\n.OOO.\n..O..\n.....\n")
	if err := solveBoard(in, &out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "2-2\n" {
		t.Fatalf("presses = %q, want 2-2", got)
	}
}

func TestSolveBoardErrors(t *testing.T) {
	var out bytes.Buffer
	if err := solveBoard(strings.NewReader("O....\n.....\n.....\n.....\n....."), &out); !errors.Is(err, solver.ErrUnsolvable) {
		t.Fatalf("err = %v, want ErrUnsolvable", err)
	}
	if err := solveBoard(strings.NewReader("OO\nO"), &out); err == nil {
		t.Fatal("ragged board accepted")
	}
}

func TestSolveCommandReadsStdin(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("OO\nO.\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"solve"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Fields(out.String()); len(lines) == 0 {
		t.Fatal("no presses printed")
	}
}

func TestCheckBoardDefaults(t *testing.T) {
	cases := []struct {
		rows, cols int
		p          float64
		ok         bool
	}{
		{5, 5, 0.85, true},
		{1, 12, 0, true},
		{0, 5, 0.5, false},
		{5, 13, 0.5, false},
		{5, 5, 1.5, false},
		{5, 5, -0.1, false},
	}
	for _, tc := range cases {
		err := checkBoardDefaults(config.Config{BoardRows: tc.rows, BoardCols: tc.cols, LitProbability: tc.p})
		if tc.ok && err != nil {
			t.Errorf("%dx%d p=%g: %v", tc.rows, tc.cols, tc.p, err)
		}
		if !tc.ok && !errors.Is(err, game.ErrInvalidConfig) {
			t.Errorf("%dx%d p=%g: err = %v, want ErrInvalidConfig", tc.rows, tc.cols, tc.p, err)
		}
	}
}

func TestServeRejectsBadBoardDefaults(t *testing.T) {
	t.Setenv("DB_PATH", t.TempDir()+"/serve.db")
	t.Setenv("BOARD_ROWS", "40")
	if err := serve(context.Background()); !errors.Is(err, game.ErrInvalidConfig) {
		t.Fatalf("serve err = %v, want ErrInvalidConfig", err)
	}
}
