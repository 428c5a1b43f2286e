package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/robalobadob/lightsout/internal/board"
)

const (
	puzzleRows    = 5
	puzzleCols    = 5
	puzzlePresses = 15
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes as the seed
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Puzzle returns the day's board: a solvable scramble everyone gets the same way.
func Puzzle(date time.Time, salt string) board.Grid {
	rng := rand.New(rand.NewSource(Seed(date, salt)))
	return board.Scramble(puzzleRows, puzzleCols, puzzlePresses, rng)
}
