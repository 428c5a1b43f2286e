// internal/board/board.go
//
// Board model for Lights Out.
// Responsibilities:
//   - Build grids (random, empty, solvable scramble).
//   - Apply the plus-shaped toggle move without mutating the input grid.
//   - Report whether a grid is solved (no lit cells).
//
// Notes:
//   - Grid values are treated as immutable snapshots: every move returns a
//     fresh grid, so callers may compare by identity to detect change.
//   - Out-of-bounds positions are ignored, never an error.
package board

import (
	"errors"
	"math/rand"
	"time"
)

// Grid is a row-major matrix of cells; true means lit.
type Grid [][]bool

var (
	ErrEmpty  = errors.New("board: empty grid")
	ErrRagged = errors.New("board: rows have different lengths")
)

// offsets of the plus-shaped move: center, right, down, left, up.
var offsets = [5]Position{{0, 0}, {0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Empty returns an all-unlit rows×cols grid.
func Empty(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]bool, cols)
	}
	return g
}

// New builds a rows×cols grid where each cell is independently lit with
// probability litProbability.
func New(rows, cols int, litProbability float64, rng *rand.Rand) Grid {
	g := Empty(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g[r][c] = rng.Float64() < litProbability
		}
	}
	return g
}

// Random is New with a time-seeded source.
func Random(rows, cols int, litProbability float64) Grid {
	return New(rows, cols, litProbability, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Scramble applies presses random moves to an empty grid, which always yields
// a solvable board. If the result happens to be solved, presses the center.
func Scramble(rows, cols, presses int, rng *rand.Rand) Grid {
	g := Empty(rows, cols)
	for i := 0; i < presses; i++ {
		g = Apply(g, Position{Row: rng.Intn(rows), Col: rng.Intn(cols)})
	}
	if IsSolved(g) {
		g = Apply(g, Position{Row: rows / 2, Col: cols / 2})
	}
	return g
}

// IsSolved reports whether no cell in g is lit.
func IsSolved(g Grid) bool {
	for _, row := range g {
		for _, lit := range row {
			if lit {
				return false
			}
		}
	}
	return true
}

// Apply returns a new grid with p and its orthogonal neighbours inverted.
// Neighbours outside the grid are skipped. If p itself is outside the grid,
// g is returned as is.
func Apply(g Grid, p Position) Grid {
	rows, cols := g.Rows(), g.Cols()
	if !p.In(rows, cols) {
		return g
	}
	next := g.Clone()
	for _, d := range offsets {
		q := Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
		if q.In(rows, cols) {
			next[q.Row][q.Col] = !next[q.Row][q.Col]
		}
	}
	return next
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns (0 for an empty grid).
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone deep-copies g; no row of the result aliases g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = make([]bool, len(row))
		copy(out[r], row)
	}
	return out
}

// Equal reports whether g and o have the same shape and cells.
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(o[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// LitCount counts lit cells.
func (g Grid) LitCount() int {
	n := 0
	for _, row := range g {
		for _, lit := range row {
			if lit {
				n++
			}
		}
	}
	return n
}

// Lit reports whether the cell at p is lit; out-of-bounds cells are unlit.
func (g Grid) Lit(p Position) bool {
	if !p.In(g.Rows(), g.Cols()) {
		return false
	}
	return g[p.Row][p.Col]
}

// Validate checks that g is non-empty and rectangular.
// Grids built by this package always pass; use it on external input.
func (g Grid) Validate() error {
	if len(g) == 0 || len(g[0]) == 0 {
		return ErrEmpty
	}
	cols := len(g[0])
	for _, row := range g[1:] {
		if len(row) != cols {
			return ErrRagged
		}
	}
	return nil
}
