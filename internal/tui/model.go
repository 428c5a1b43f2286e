// Package tui is a terminal client for a single Lights Out session.
package tui

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/game"
	"github.com/robalobadob/lightsout/internal/solver"
)

// Model is the bubbletea model over one game.
type Model struct {
	cfg    game.Config
	rng    *rand.Rand
	g      *game.Game
	cursor board.Position
	status string
}

// New starts a fresh game built from cfg. A nil rng is seeded from the clock.
func New(cfg game.Config, rng *rand.Rand) Model {
	return Model{cfg: cfg, rng: rng, g: game.New(cfg, rng)}
}

// FromGame wraps an existing session. New games started with 'n' use cfg.
func FromGame(g *game.Game, cfg game.Config) Model {
	return Model{cfg: cfg, g: g}
}

// Game returns the session being played.
func (m Model) Game() *game.Game { return m.g }

// Cursor returns the highlighted cell.
func (m Model) Cursor() board.Position { return m.cursor }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	v := m.g.Snapshot()
	m.status = ""

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.move(-1, 0, v)
	case "down", "j":
		m.move(1, 0, v)
	case "left", "h":
		m.move(0, -1, v)
	case "right", "l":
		m.move(0, 1, v)
	case " ", "enter":
		if _, _, err := m.g.ApplyMove(m.cursor); errors.Is(err, game.ErrFinished) {
			m.status = "game finished, press n for a new one"
		}
	case "?":
		p, err := m.g.Hint()
		switch {
		case errors.Is(err, solver.ErrSolved):
			m.status = "already solved"
		case errors.Is(err, solver.ErrUnsolvable):
			m.status = "this board cannot be cleared"
		case err == nil:
			m.cursor = p
			m.status = "try " + p.Key()
		}
	case "n":
		m.g = game.New(m.cfg, m.rng)
		m.cursor = board.Position{}
	}
	return m, nil
}

func (m *Model) move(dr, dc int, v game.View) {
	next := board.Position{Row: m.cursor.Row + dr, Col: m.cursor.Col + dc}
	if next.In(v.Rows, v.Cols) {
		m.cursor = next
	}
}

func (m Model) View() string {
	v := m.g.Snapshot()
	var b strings.Builder
	b.WriteString("Lights Out\n\n")
	if v.State == game.StateWon {
		fmt.Fprintf(&b, "You won! (%d moves)\n", v.Moves)
		if m.status != "" {
			b.WriteString(m.status + "\n")
		}
		b.WriteString("\nn new  q quit\n")
		return b.String()
	}
	for r, row := range v.Grid {
		for c, lit := range row {
			cell := "."
			if lit {
				cell = "O"
			}
			if m.cursor == (board.Position{Row: r, Col: c}) {
				b.WriteString("[" + cell + "]")
			} else {
				b.WriteString(" " + cell + " ")
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nmoves: %d\n", v.Moves)
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("\narrows/hjkl move  space press  ? hint  n new  q quit\n")
	return b.String()
}

// Run plays m on the terminal until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
