// internal/game/types.go
//
// Core type definitions for a Lights Out session.
// Defines:
//   - State: playing or won (terminal).
//   - Config: board dimensions and how the opening board is drawn.
//   - Game: one session owning its current grid.
//   - View: an immutable snapshot handed to presentation layers.

package game

import (
	"sync"
	"time"

	"github.com/robalobadob/lightsout/internal/board"
)

// State is the coarse session state.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
)

// Config controls how New draws the opening board.
type Config struct {
	Rows           int     `json:"rows"`
	Cols           int     `json:"cols"`
	LitProbability float64 `json:"litProbability"` // chance each cell starts lit
	Solvable       bool    `json:"solvable"`       // scramble from solved instead of sampling cells
}

// Game holds the state of a single session.
// All methods are safe for concurrent use; the grid itself is only ever
// replaced, never written in place.
type Game struct {
	mu sync.Mutex

	ID         string
	Grid       board.Grid
	Moves      int
	StartedAt  time.Time
	FinishedAt time.Time // zero until won
	LastActive time.Time
	Source     string // "random", "scramble", "puzzle:<name>", "daily:<date>"
}

// View is what a presentation layer needs to draw a session.
type View struct {
	ID    string     `json:"gameId"`
	Grid  board.Grid `json:"grid"`
	State State      `json:"state"`
	Moves int        `json:"moves"`
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
}
