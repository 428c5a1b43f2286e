// internal/solver/solver.go
//
// Lights Out solver.
// A board of n cells is a system A·x = b over GF(2): x[j] says whether cell j
// is pressed, b[i] whether cell i is lit, and A[i][j] = 1 when pressing j
// toggles i. The system is reduced with Gauss–Jordan elimination on packed
// bitsets.
//
// Notes:
//   - Many sizes are singular (4×4, 5×5, ...). When the null space is small
//     enough, every solution is enumerated and the one with the fewest
//     presses wins; otherwise the particular solution is returned.
package solver

import (
	"errors"
	"math/bits"

	"github.com/robalobadob/lightsout/internal/board"
)

var (
	ErrUnsolvable = errors.New("solver: board has no solution")
	ErrSolved     = errors.New("solver: board is already solved")
)

// maxFree bounds the null-space enumeration to 2^maxFree candidates.
const maxFree = 16

// bitset is a fixed-width GF(2) vector.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) has(i int) bool { return b[i>>6]>>(uint(i)&63)&1 == 1 }
func (b bitset) set(i int)      { b[i>>6] |= 1 << (uint(i) & 63) }

func (b bitset) xor(o bitset) {
	for k := range b {
		b[k] ^= o[k]
	}
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// equation is one row of the augmented matrix.
type equation struct {
	coef bitset
	rhs  bool
}

// Solve returns a set of presses that turns every light off, in row-major
// order. Presses commute, so order does not matter when applying them.
func Solve(g board.Grid) ([]board.Position, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	rows, cols := g.Rows(), g.Cols()
	n := rows * cols

	eqs := make([]equation, n)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			coef := newBitset(n)
			// A is symmetric: cell i is toggled by the same plus shape it presses.
			for _, d := range [5][2]int{{0, 0}, {0, 1}, {1, 0}, {0, -1}, {-1, 0}} {
				q := board.Position{Row: r + d[0], Col: c + d[1]}
				if q.In(rows, cols) {
					coef.set(q.Row*cols + q.Col)
				}
			}
			eqs[i] = equation{coef: coef, rhs: g[r][c]}
		}
	}

	pivots := make([]int, 0, n)
	for col := 0; col < n && len(pivots) < n; col++ {
		pr := len(pivots)
		p := -1
		for r := pr; r < n; r++ {
			if eqs[r].coef.has(col) {
				p = r
				break
			}
		}
		if p < 0 {
			continue
		}
		eqs[pr], eqs[p] = eqs[p], eqs[pr]
		for r := 0; r < n; r++ {
			if r != pr && eqs[r].coef.has(col) {
				eqs[r].coef.xor(eqs[pr].coef)
				eqs[r].rhs = eqs[r].rhs != eqs[pr].rhs
			}
		}
		pivots = append(pivots, col)
	}

	// rows past the pivots have all-zero coefficients
	for r := len(pivots); r < n; r++ {
		if eqs[r].rhs {
			return nil, ErrUnsolvable
		}
	}

	isPivot := make([]bool, n)
	for _, c := range pivots {
		isPivot[c] = true
	}

	x := newBitset(n)
	for i, c := range pivots {
		if eqs[i].rhs {
			x.set(c)
		}
	}

	var free []int
	for c := 0; c < n; c++ {
		if !isPivot[c] {
			free = append(free, c)
		}
	}
	if len(free) > 0 && len(free) <= maxFree {
		x = minimise(x, nullBasis(eqs, pivots, free, n))
	}

	out := make([]board.Position, 0, x.count())
	for i := 0; i < n; i++ {
		if x.has(i) {
			out = append(out, board.Position{Row: i / cols, Col: i % cols})
		}
	}
	return out, nil
}

// nullBasis builds one null-space vector per free column of the reduced system.
func nullBasis(eqs []equation, pivots, free []int, n int) []bitset {
	basis := make([]bitset, len(free))
	for k, f := range free {
		v := newBitset(n)
		v.set(f)
		for i, c := range pivots {
			if eqs[i].coef.has(f) {
				v.set(c)
			}
		}
		basis[k] = v
	}
	return basis
}

// minimise walks every x ⊕ span(basis) in Gray-code order and keeps the
// lightest vector.
func minimise(x bitset, basis []bitset) bitset {
	cur := append(bitset(nil), x...)
	best := append(bitset(nil), x...)
	bestCount := best.count()
	for k := uint(1); k < 1<<uint(len(basis)); k++ {
		cur.xor(basis[bits.TrailingZeros(k)])
		if c := cur.count(); c < bestCount {
			copy(best, cur)
			bestCount = c
		}
	}
	return best
}

// Hint returns one press that lies on a shortest known solution.
func Hint(g board.Grid) (board.Position, error) {
	if board.IsSolved(g) {
		return board.Position{}, ErrSolved
	}
	presses, err := Solve(g)
	if err != nil {
		return board.Position{}, err
	}
	return presses[0], nil
}

// Solvable reports whether g can be cleared.
func Solvable(g board.Grid) bool {
	_, err := Solve(g)
	return err == nil
}
