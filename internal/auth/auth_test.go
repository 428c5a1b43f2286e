package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/robalobadob/lightsout/internal/db"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatal(err)
	}
	return NewService(conn, Options{Secret: "test-secret"}), conn
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		user, pw string
		ok       bool
	}{
		{"alice", "password1", true},
		{"al", "password1", false},
		{"this_name_is_way_too_long_x", "password1", false},
		{"bad name", "password1", false},
		{"alice", "short", false},
	}
	for _, tc := range cases {
		if err := validateSignup(tc.user, tc.pw); (err == nil) != tc.ok {
			t.Errorf("validateSignup(%q, %q) = %v", tc.user, tc.pw, err)
		}
	}
}

func TestSignupLogin(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	u, err := s.Signup(ctx, "  Alice ", "password1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Username != "Alice" || u.ID == "" {
		t.Fatalf("user = %+v", u)
	}
	if _, err := s.Signup(ctx, "alice", "password2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate signup err = %v", err)
	}

	got, err := s.Login(ctx, "ALICE", "password1")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Login = %+v, %v", got, err)
	}
	if _, err := s.Login(ctx, "alice", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v", err)
	}
	if _, err := s.Login(ctx, "nobody", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestSignParse(t *testing.T) {
	s, _ := newTestService(t)
	tok, exp, err := s.Sign(&User{ID: "u1", Username: "bob"})
	if err != nil || exp.IsZero() {
		t.Fatalf("Sign: %v", err)
	}
	id, name, err := s.Parse(tok)
	if err != nil || id != "u1" || name != "bob" {
		t.Fatalf("Parse = %q %q %v", id, name, err)
	}

	other := NewService(nil, Options{Secret: "different"})
	if _, _, err := other.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret err = %v", err)
	}
	if _, _, err := s.Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}
}

func TestRecordStartAndWin(t *testing.T) {
	ctx := context.Background()
	s, conn := newTestService(t)
	u, err := s.Signup(ctx, "carol", "password1")
	if err != nil {
		t.Fatal(err)
	}

	// four games started, three of them won
	for _, r := range []struct {
		won   bool
		moves int
	}{{true, 12}, {false, 3}, {true, 8}, {true, 20}} {
		if err := s.RecordStart(ctx, u.ID); err != nil {
			t.Fatal(err)
		}
		if !r.won {
			continue
		}
		tx, err := conn.Begin()
		if err != nil {
			t.Fatal(err)
		}
		if err := RecordWin(tx, u.ID, r.moves); err != nil {
			t.Fatal(err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.GamesPlayed != 4 || got.Wins != 3 || got.BestMoves != 8 {
		t.Fatalf("stats = %+v", got)
	}
}

func TestClaimAnonGamesCountsPlayed(t *testing.T) {
	ctx := context.Background()
	s, conn := newTestService(t)
	u, err := s.Signup(ctx, "frank", "password1")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"g1", "g2"} {
		if _, err := conn.Exec(`INSERT INTO games (id, anonymous_id, board_rows, board_cols, started_at) VALUES (?, 'anon-1', 5, 5, '2026-01-01T00:00:00Z')`, id); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.ClaimAnonGames(ctx, "anon-1", u.ID); err != nil {
		t.Fatal(err)
	}
	// a second claim finds nothing left to move
	if err := s.ClaimAnonGames(ctx, "anon-1", u.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.GamesPlayed != 2 {
		t.Fatalf("games played = %d, want 2", got.GamesPlayed)
	}
	var owned int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM games WHERE user_id=?`, u.ID).Scan(&owned); err != nil {
		t.Fatal(err)
	}
	if owned != 2 {
		t.Fatalf("owned games = %d", owned)
	}
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	u, err := s.Signup(ctx, "dave", "password1")
	if err != nil {
		t.Fatal(err)
	}
	tok, _, _ := s.Sign(u)

	var seen *User
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	})

	// Optional: guests pass through with no user
	rec := httptest.NewRecorder()
	s.Optional()(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || seen != nil {
		t.Fatalf("optional guest: code=%d user=%v", rec.Code, seen)
	}

	// Optional with cookie
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "lightsout_token", Value: tok})
	s.Optional()(h).ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.ID != u.ID {
		t.Fatalf("optional cookie: user=%v", seen)
	}

	// Require without token
	seen = nil
	rec = httptest.NewRecorder()
	s.Require()(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized || seen != nil {
		t.Fatalf("require guest: code=%d", rec.Code)
	}

	// Require with bearer
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	s.Require()(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.Username != "dave" {
		t.Fatalf("require bearer: code=%d user=%v", rec.Code, seen)
	}
}

func TestEnsureAnonID(t *testing.T) {
	s := NewService(nil, Options{})
	rec := httptest.NewRecorder()
	id := s.EnsureAnonID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(id) != 22 {
		t.Fatalf("anon id %q", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	if again := s.EnsureAnonID(httptest.NewRecorder(), req); again != id {
		t.Fatalf("anon id changed: %q != %q", again, id)
	}
}
