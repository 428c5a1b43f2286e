// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - POST /daily/move        → press a cell on today's puzzle
//   - GET  /daily/leaderboard → fewest-move results for today (or ?date=)
//
// Each player can finish the puzzle once per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win.
// A session is dropped once its result is stored, when its day is over, or
// after GAME_TTL without a move.
// The board is derived from date + salt, so every player gets the same one.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lightsout/internal/auth"
	"github.com/robalobadob/lightsout/internal/daily"
	"github.com/robalobadob/lightsout/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	ttl      time.Duration
	sessions map[string]*game.Game // active sessions keyed by playerID|date
	mu       sync.Mutex            // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		ttl:      s.cfg.GameTTL,
		sessions: make(map[string]*game.Game),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/move", dd.handleMove)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the user ID if logged in, otherwise the anonymous cookie ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := auth.FromContext(r.Context()); me != nil {
		return me.ID
	}
	return d.srv.auth.EnsureAnonID(w, r)
}

// dailyRes is returned by /daily/new.
type dailyRes struct {
	game.View
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses today's session.
//   - If the player already has a result for today → Played=true, no board.
//   - Otherwise create/reuse an in-memory session and return its view.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := time.Now().UTC()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, dailyRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	d.prune(now, date)
	g, ok := d.sessions[key]
	if !ok {
		g = game.FromGrid(daily.Puzzle(now, d.salt))
		g.Source = "daily:" + date
		d.sessions[key] = g
	}
	d.mu.Unlock()

	writeJSON(w, dailyRes{View: g.Snapshot(), Date: date})
}

// prune drops sessions from other days and idle ones. Callers hold d.mu.
func (d *dailyServer) prune(now time.Time, today string) {
	for key, g := range d.sessions {
		if !strings.HasSuffix(key, "|"+today) || (d.ttl > 0 && g.Idle(now) > d.ttl) {
			delete(d.sessions, key)
		}
	}
}

// dailyMoveRes is the response payload for /daily/move.
type dailyMoveRes struct {
	moveRes
	// in_progress | won | locked
	Status string `json:"status"`
}

// handleMove applies a press to today's session; persists the result on a win.
func (d *dailyServer) handleMove(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pos, err := req.position()
	if err != nil || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_position")
		return
	}

	date := daily.DateKey(time.Now())
	key := uid + "|" + date
	d.mu.Lock()
	g, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok {
		if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
			writeJSON(w, dailyMoveRes{moveRes{State: game.StateWon}, "locked"})
			return
		}
	}
	if !ok || g.ID != req.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	grid, state, err := g.ApplyMove(pos)
	v := g.Snapshot()
	if errors.Is(err, game.ErrFinished) {
		writeJSON(w, dailyMoveRes{moveRes{Grid: grid, State: state, Moves: v.Moves}, "locked"})
		return
	}

	if state == game.StateWon {
		res := daily.Result{UserID: uid, Date: date, Moves: v.Moves, ElapsedMs: int(g.Elapsed().Milliseconds())}
		if err := d.store.InsertResult(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		} else {
			d.mu.Lock()
			delete(d.sessions, key)
			d.mu.Unlock()
		}
		writeJSON(w, dailyMoveRes{moveRes{Grid: grid, State: state, Moves: v.Moves}, "won"})
		return
	}
	writeJSON(w, dailyMoveRes{moveRes{Grid: grid, State: state, Moves: v.Moves}, "in_progress"})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, lbRes{Date: date, Top: rows})
}
