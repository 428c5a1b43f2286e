package tui

import (
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/game"
)

func cross() *game.Game {
	g, _ := board.Parse(".....\n..O..\n.OOO.\n..O..\n.....")
	return game.FromGrid(g)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	right = tea.KeyMsg{Type: tea.KeyRight}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestCursorStaysOnBoard(t *testing.T) {
	m := FromGame(cross(), game.DefaultConfig())
	m = press(t, m, up, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Cursor() != (board.Position{}) {
		t.Fatalf("cursor left the board: %v", m.Cursor())
	}
	m = press(t, m, down, down, down, down, down, down, runes("l"), runes("l"))
	if m.Cursor() != (board.Position{Row: 4, Col: 2}) {
		t.Fatalf("cursor = %v, want 4-2", m.Cursor())
	}
}

func TestPressToWin(t *testing.T) {
	m := FromGame(cross(), game.DefaultConfig())
	m = press(t, m, down, down, right, right, enter)
	if m.Game().State() != game.StateWon {
		t.Fatalf("state = %s", m.Game().State())
	}
	if !strings.Contains(m.View(), "You won!") {
		t.Fatalf("view missing win line:\n%s", m.View())
	}
	m = press(t, m, enter)
	if !strings.Contains(m.View(), "game finished") {
		t.Fatalf("press after win should be refused:\n%s", m.View())
	}
	if m.Game().Snapshot().Moves != 1 {
		t.Fatal("press after win was counted")
	}
}

func TestHintMovesCursor(t *testing.T) {
	m := FromGame(cross(), game.DefaultConfig())
	m = press(t, m, runes("?"))
	if m.Cursor() != (board.Position{Row: 2, Col: 2}) {
		t.Fatalf("cursor = %v, want hint 2-2", m.Cursor())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Game().State() != game.StateWon {
		t.Fatal("pressing the hint should solve the cross")
	}
}

func TestNewGameAndQuit(t *testing.T) {
	cfg := game.Config{Rows: 3, Cols: 4, LitProbability: 0.5, Solvable: true}
	m := New(cfg, rand.New(rand.NewSource(7)))
	first := m.Game().ID
	m = press(t, m, right, runes("n"))
	if m.Game().ID == first || m.Cursor() != (board.Position{}) {
		t.Fatal("n should start a fresh game with the cursor reset")
	}
	if v := m.Game().Snapshot(); v.Rows != 3 || v.Cols != 4 {
		t.Fatalf("new game size %dx%d", v.Rows, v.Cols)
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}
