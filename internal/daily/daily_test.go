package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/db"
	"github.com/robalobadob/lightsout/internal/solver"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	d := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 20:00 UTC
	if got := DateKey(d); got != "2026-03-01" {
		t.Fatalf("DateKey = %s", got)
	}
}

func TestPuzzleDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	a := Puzzle(day, "salt")
	b := Puzzle(day.Add(3*time.Hour), "salt")
	if !a.Equal(b) {
		t.Fatal("same day produced different puzzles")
	}
	if Seed(day, "salt") == Seed(day, "other") {
		t.Fatal("salt did not change the seed")
	}
	if board.IsSolved(a) || !solver.Solvable(a) {
		t.Fatalf("daily puzzle should be unsolved and solvable:\n%s", a)
	}
}

func TestStore(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	st := NewStore(conn)
	date := "2026-10-18"

	played, err := st.AlreadyPlayed(ctx, "u1", date)
	if err != nil || played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}

	results := []Result{
		{UserID: "u1", Date: date, Moves: 9, ElapsedMs: 1000},
		{UserID: "u2", Date: date, Moves: 7, ElapsedMs: 9000},
		{UserID: "u3", Date: date, Moves: 7, ElapsedMs: 4000},
		{UserID: "u1", Date: date, Moves: 1, ElapsedMs: 1}, // ignored: already recorded
		{UserID: "u4", Date: "2026-10-17", Moves: 1, ElapsedMs: 1},
	}
	for _, r := range results {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult(%+v): %v", r, err)
		}
	}

	if played, _ := st.AlreadyPlayed(ctx, "u1", date); !played {
		t.Fatal("u1 should have played")
	}

	top, err := st.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"u3", "u2", "u1"}
	if len(top) != len(want) {
		t.Fatalf("leaderboard = %+v", top)
	}
	for i, id := range want {
		if top[i].UserID != id {
			t.Fatalf("leaderboard[%d] = %+v, want %s", i, top[i], id)
		}
	}
	if top[2].Moves != 9 {
		t.Fatalf("duplicate insert overwrote result: %+v", top[2])
	}
}
