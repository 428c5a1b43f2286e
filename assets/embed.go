package assets

import (
	"embed"
	"io/fs"
)

//go:embed puzzles.txt sql/*.sql
var FS embed.FS

// Puzzles returns the embedded preset puzzle file.
func Puzzles() (string, error) {
	b, err := FS.ReadFile("puzzles.txt")
	return string(b), err
}

// Migrations returns the embedded SQL migrations rooted at "sql".
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
