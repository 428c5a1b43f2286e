package board

import (
	"fmt"
	"strings"
)

// Parse reads a grid from text, one row per line.
// 'O', 'X' and '1' are lit; '.', '-' and '0' are unlit. Spaces inside a row
// are ignored so boards may be written as "O . O". Blank lines and lines
// starting with ";" are skipped.
func Parse(text string) (Grid, error) {
	var g Grid
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		var row []bool
		for _, ch := range line {
			switch ch {
			case 'O', 'o', '1', 'X', 'x':
				row = append(row, true)
			case '.', '0', '-':
				row = append(row, false)
			case ' ', '\t':
			default:
				return nil, fmt.Errorf("board: line %d: unexpected %q", n+1, ch)
			}
		}
		g = append(g, row)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Format renders g in the form Parse accepts: 'O' lit, '.' unlit.
func Format(g Grid) string {
	var b strings.Builder
	for _, row := range g {
		for _, lit := range row {
			if lit {
				b.WriteByte('O')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g Grid) String() string { return Format(g) }
