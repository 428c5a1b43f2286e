// internal/puzzles/puzzles.go
//
// Named preset boards.
//
// Responsibilities:
//   - Load presets from PUZZLES_FILE or fall back to the embedded assets/puzzles.txt.
//   - Reject boards that are malformed or cannot be cleared.
//   - Supply lookups: Get, Names, Random.
//
// File format:
//   ; comment
//   # name
//   O.O
//   .O.
//   O.O
//
// Each "# name" line starts a block; the following lines use the board text
// format until the next header. Names are lowercased.
//
// Initialization is run once (sync.Once).

package puzzles

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/lightsout/assets"
	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/solver"
)

var ErrUnknown = errors.New("unknown puzzle")

var (
	initOnce   sync.Once
	presets    map[string]board.Grid
	names      []string
	initialErr error
)

// Init loads presets exactly once.
func Init() error {
	initOnce.Do(func() {
		text, err := source()
		if err != nil {
			initialErr = err
			return
		}
		presets, initialErr = parseSet(text)
		if initialErr != nil {
			return
		}
		for n := range presets {
			names = append(names, n)
		}
		sort.Strings(names)
	})
	return initialErr
}

func source() (string, error) {
	if path := os.Getenv("PUZZLES_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("puzzles: %w", err)
		}
		return string(b), nil
	}
	return assets.Puzzles()
}

// parseSet splits text into "# name" blocks and parses each board.
func parseSet(text string) (map[string]board.Grid, error) {
	blocks := map[string]*strings.Builder{}
	var order []string
	var cur *strings.Builder

	for n, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			if name == "" {
				return nil, fmt.Errorf("puzzles: line %d: empty name", n+1)
			}
			if _, dup := blocks[name]; dup {
				return nil, fmt.Errorf("puzzles: duplicate %q", name)
			}
			cur = &strings.Builder{}
			blocks[name] = cur
			order = append(order, name)
		case trimmed == "" || strings.HasPrefix(trimmed, ";"):
		case cur == nil:
			return nil, fmt.Errorf("puzzles: line %d: board row before any name", n+1)
		default:
			cur.WriteString(trimmed)
			cur.WriteByte('\n')
		}
	}

	out := make(map[string]board.Grid, len(order))
	for _, name := range order {
		g, err := board.Parse(blocks[name].String())
		if err != nil {
			return nil, fmt.Errorf("puzzles: %s: %w", name, err)
		}
		if !solver.Solvable(g) {
			return nil, fmt.Errorf("puzzles: %s: %w", name, solver.ErrUnsolvable)
		}
		out[name] = g
	}
	if len(out) == 0 {
		return nil, errors.New("puzzles: no puzzles defined")
	}
	return out, nil
}

// Get returns a copy of the named preset.
func Get(name string) (board.Grid, error) {
	if g, ok := presets[strings.ToLower(name)]; ok {
		return g.Clone(), nil
	}
	return nil, ErrUnknown
}

// Names lists preset names in sorted order.
func Names() []string {
	return append([]string(nil), names...)
}

// Random returns a random preset name and a copy of its board.
// If presets are not loaded, returns ErrUnknown.
func Random() (string, board.Grid, error) {
	if len(names) == 0 {
		return "", nil, ErrUnknown
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(names))))
	name := names[nBig.Int64()]
	return name, presets[name].Clone(), nil
}
