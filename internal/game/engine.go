// internal/game/engine.go
//
// Session engine for Lights Out.
// Responsibilities:
//   - Create sessions from a Config (random or solvable scramble) or a fixed grid.
//   - Apply moves through board.Apply and count them.
//   - Track the playing → won transition; won is terminal.
//
// Notes:
//   - Out-of-bounds moves are accepted as no-ops and are not counted.
//   - Reset is not modelled here: callers start a new Game.
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/solver"
)

const (
	defaultRows           = 5
	defaultCols           = 5
	defaultLitProbability = 0.85

	// MaxSize caps rows and cols for boards built from external input.
	MaxSize = 12
)

var (
	ErrFinished      = errors.New("game finished")
	ErrInvalidConfig = errors.New("invalid board config")
)

// DefaultConfig is a 5×5 board with most lights on.
func DefaultConfig() Config {
	return Config{Rows: defaultRows, Cols: defaultCols, LitProbability: defaultLitProbability}
}

// Validate checks dimensions and probability.
func (c Config) Validate() error {
	if c.Rows < 1 || c.Rows > MaxSize || c.Cols < 1 || c.Cols > MaxSize {
		return ErrInvalidConfig
	}
	if c.LitProbability < 0 || c.LitProbability > 1 {
		return ErrInvalidConfig
	}
	return nil
}

// New constructs a session from cfg. A nil rng uses a time-seeded source.
// cfg is assumed valid; call Validate on untrusted input first.
func New(cfg Config, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Solvable {
		g := FromGrid(board.Scramble(cfg.Rows, cfg.Cols, cfg.Rows*cfg.Cols, rng))
		g.Source = "scramble"
		return g
	}
	g := FromGrid(board.New(cfg.Rows, cfg.Cols, cfg.LitProbability, rng))
	g.Source = "random"
	return g
}

// FromGrid starts a session on a fixed opening board. The grid is copied.
func FromGrid(grid board.Grid) *Game {
	now := time.Now().UTC()
	g := &Game{
		ID:         uuid.NewString(),
		Grid:       grid.Clone(),
		StartedAt:  now,
		LastActive: now,
	}
	if board.IsSolved(g.Grid) {
		g.FinishedAt = now
	}
	return g
}

// ApplyMove presses p and returns the resulting grid and state.
//
// Rules:
//   - A won game rejects further moves with ErrFinished.
//   - If p is outside the board the grid is returned unchanged and the move
//     is not counted.
//   - When the move clears the board, FinishedAt is stamped.
func (g *Game) ApplyMove(p board.Position) (board.Grid, State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.LastActive = time.Now().UTC()
	if g.state() == StateWon {
		return g.Grid, StateWon, ErrFinished
	}
	if !p.In(g.Grid.Rows(), g.Grid.Cols()) {
		return g.Grid, g.state(), nil
	}

	g.Grid = board.Apply(g.Grid, p)
	g.Moves++
	if board.IsSolved(g.Grid) {
		g.FinishedAt = g.LastActive
	}
	return g.Grid, g.state(), nil
}

// State reports the current session state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() State {
	if board.IsSolved(g.Grid) {
		return StateWon
	}
	return StatePlaying
}

// Hint suggests the next press from a shortest solution of the current grid.
func (g *Game) Hint() (board.Position, error) {
	g.mu.Lock()
	grid := g.Grid
	g.mu.Unlock()
	return solver.Hint(grid)
}

// Snapshot returns a View of the session. The grid is shared with the
// session but is never written after being published.
func (g *Game) Snapshot() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return View{
		ID:    g.ID,
		Grid:  g.Grid,
		State: g.state(),
		Moves: g.Moves,
		Rows:  g.Grid.Rows(),
		Cols:  g.Grid.Cols(),
	}
}

// Elapsed is the time from start to finish, or to now while playing.
func (g *Game) Elapsed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FinishedAt.IsZero() {
		return time.Since(g.StartedAt)
	}
	return g.FinishedAt.Sub(g.StartedAt)
}

// Finished returns when the game was won, or the zero time.
func (g *Game) Finished() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.FinishedAt
}

// Idle reports how long the session has gone without a move.
func (g *Game) Idle(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return now.Sub(g.LastActive)
}
