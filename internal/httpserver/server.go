// internal/httpserver/server.go
//
// HTTP server wiring for the Lights Out backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/puzzles".
//   - Game endpoints (optional auth): /game/new, /game/{id}, /game/move, /game/hint, /game/ws.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//   - Best-effort history rows in the games table.
//
// Notes:
//   - Sessions live in the in-memory store; the DB only keeps outcomes.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lightsout/internal/auth"
	"github.com/robalobadob/lightsout/internal/config"
	"github.com/robalobadob/lightsout/internal/game"
	"github.com/robalobadob/lightsout/internal/puzzles"
	"github.com/robalobadob/lightsout/internal/store"
)

// Server bundles router, in-memory session store, DB handle and auth.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
	auth  *auth.Service
	cfg   config.Config
	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg config.Config) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		db:    db,
		cfg:   cfg,
		auth: auth.NewService(db, auth.Options{
			Secret:      cfg.JWTSecret,
			ExpiresDays: cfg.JWTExpiresDays,
			CookieName:  cfg.CookieName,
			Production:  cfg.Production,
		}),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(requestLogger)
	s.r.Use(corsFrom(cfg.ClientOrigin))

	// websocket must not sit behind Timeout or the JSON content type
	s.r.With(s.auth.Optional()).Get("/game/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"lightsout-go","endpoints":["/health","POST /game/new","POST /game/move","POST /game/hint","/game/ws","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/puzzles", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string][]string{"puzzles": puzzles.Names()})
		})

		// Game endpoints: OPTIONAL AUTH (guests can play)
		r.Group(func(r chi.Router) {
			r.Use(s.auth.Optional())
			r.Post("/game/new", s.handleNewGame)
			r.Get("/game/{id}", s.handleGetGame)
			r.Post("/game/move", s.handleMove)
			r.Post("/game/hint", s.handleHint)
			s.mountDaily(r)
		})

		s.mountAuthRoutes(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router (useful for tests and http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return hs.Shutdown(shutdownCtx)
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFrom enables credentialed CORS for a single origin.
func corsFrom(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// owner resolves who a game belongs to: the logged-in user or the anon cookie.
// Returns the column name and value used in games queries.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (col string, id string) {
	if me := auth.FromContext(r.Context()); me != nil {
		return "user_id", me.ID
	}
	return "anonymous_id", s.auth.EnsureAnonID(w, r)
}

// recordStart inserts the history row for a new session (best effort).
func (s *Server) recordStart(ctx context.Context, g *game.Game, ownerCol, ownerID string) {
	if s.db == nil {
		return
	}
	v := g.Snapshot()
	var userID, anonID any
	if ownerCol == "user_id" {
		userID = ownerID
	} else if ownerID != "" {
		anonID = ownerID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO games (id, user_id, anonymous_id, board_rows, board_cols, source, status, moves, started_at)
	                                  VALUES (?,?,?,?,?,?,?,0,?)`,
		g.ID, userID, anonID, v.Rows, v.Cols, g.Source, string(v.State), g.StartedAt.Format(time.RFC3339))
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
		return
	}
	if ownerCol == "user_id" {
		if err := s.auth.RecordStart(ctx, ownerID); err != nil {
			log.Warn().Err(err).Str("user", ownerID).Msg("record start")
		}
	}
}

// recordMove updates the move counter and, on a win, closes the row and bumps
// the owner's wins (best effort, non-fatal if it fails).
func (s *Server) recordMove(ctx context.Context, g *game.Game, v game.View, userID string) {
	if s.db == nil {
		return
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET moves=? WHERE id=?`, v.Moves, v.ID); err != nil {
		log.Warn().Err(err).Str("gameId", v.ID).Msg("update moves")
	}
	if v.State == game.StateWon {
		finished := g.Finished().Format(time.RFC3339)
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=?`, string(v.State), finished, v.ID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if userID != "" {
			if err := auth.RecordWin(tx, userID, v.Moves); err != nil {
				log.Warn().Err(err).Str("user", userID).Msg("record win")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit game progress")
	}
}
