package board

import (
	"errors"
	"strconv"
	"strings"
)

var ErrBadKey = errors.New("board: position key must be \"row-col\"")

// Position addresses a cell and is also the unit of a move.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// In reports whether p lies inside a rows×cols grid.
func (p Position) In(rows, cols int) bool {
	return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
}

// Key renders p as "row-col".
func (p Position) Key() string {
	return strconv.Itoa(p.Row) + "-" + strconv.Itoa(p.Col)
}

func (p Position) String() string { return p.Key() }

// ParseKey parses a "row-col" key. Both parts must be non-negative integers.
func ParseKey(s string) (Position, error) {
	rs, cs, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Position{}, ErrBadKey
	}
	r, err := strconv.Atoi(rs)
	if err != nil || r < 0 {
		return Position{}, ErrBadKey
	}
	c, err := strconv.Atoi(cs)
	if err != nil || c < 0 {
		return Position{}, ErrBadKey
	}
	return Position{Row: r, Col: c}, nil
}
