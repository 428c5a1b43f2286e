// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new   → start a session (random, solvable scramble, or preset)
//   - GET  /game/{id}  → current view of a session
//   - POST /game/move  → press a cell
//   - POST /game/hint  → suggest the next press

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lightsout/internal/auth"
	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/game"
	"github.com/robalobadob/lightsout/internal/puzzles"
	"github.com/robalobadob/lightsout/internal/solver"
)

// newGameReq is the payload for POST /game/new (all fields optional).
type newGameReq struct {
	Rows           int      `json:"rows"`
	Cols           int      `json:"cols"`
	LitProbability *float64 `json:"litProbability"`
	Solvable       bool     `json:"solvable"`
	Puzzle         string   `json:"puzzle"` // preset name, or "random" for any preset
}

var errBadPuzzle = errors.New("unknown puzzle")

// buildGame turns a request into a session, filling gaps from server config.
func (s *Server) buildGame(req newGameReq) (*game.Game, error) {
	switch req.Puzzle {
	case "":
	case "random":
		name, grid, err := puzzles.Random()
		if err != nil {
			return nil, errBadPuzzle
		}
		g := game.FromGrid(grid)
		g.Source = "puzzle:" + name
		return g, nil
	default:
		grid, err := puzzles.Get(req.Puzzle)
		if err != nil {
			return nil, errBadPuzzle
		}
		g := game.FromGrid(grid)
		g.Source = "puzzle:" + req.Puzzle
		return g, nil
	}

	cfg := game.Config{
		Rows:           s.cfg.BoardRows,
		Cols:           s.cfg.BoardCols,
		LitProbability: s.cfg.LitProbability,
		Solvable:       req.Solvable,
	}
	if req.Rows != 0 {
		cfg.Rows = req.Rows
	}
	if req.Cols != 0 {
		cfg.Cols = req.Cols
	}
	if req.LitProbability != nil {
		cfg.LitProbability = *req.LitProbability
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return game.New(cfg, nil), nil
}

// startGame builds, stores and records a session for the given owner.
func (s *Server) startGame(ctx context.Context, req newGameReq, ownerCol, ownerID string) (*game.Game, error) {
	g, err := s.buildGame(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	s.recordStart(ctx, g, ownerCol, ownerID)
	log.Debug().Str("gameId", g.ID).Str("source", g.Source).Msg("game started")
	return g, nil
}

// handleNewGame creates a session and returns its initial view.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	col, id := s.owner(w, r)
	g, err := s.startGame(r.Context(), req, col, id)
	if err != nil {
		status, code := newGameError(err)
		writeError(w, status, code)
		return
	}
	writeJSON(w, g.Snapshot())
}

// newGameError maps a startGame failure to a status and error code.
func newGameError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_config"
	case errors.Is(err, errBadPuzzle):
		return http.StatusBadRequest, "unknown_puzzle"
	default:
		log.Error().Err(err).Msg("start game")
		return http.StatusInternalServerError, "save_failed"
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, g.Snapshot())
}

// moveReq is the payload for POST /game/move.
// Either Row/Col or Coord ("r-c") must be given.
type moveReq struct {
	GameID string `json:"gameId"`
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
	Coord  string `json:"coord"`
}

func (m moveReq) position() (board.Position, error) {
	if m.Coord != "" {
		return board.ParseKey(m.Coord)
	}
	if m.Row == nil || m.Col == nil {
		return board.Position{}, board.ErrBadKey
	}
	return board.Position{Row: *m.Row, Col: *m.Col}, nil
}

type moveRes struct {
	Grid  board.Grid `json:"grid"`
	State game.State `json:"state"`
	Moves int        `json:"moves"`
}

// handleMove presses a cell and persists progress.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pos, err := req.position()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_position")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	v, err := s.applyMove(r.Context(), g, pos, auth.FromContext(r.Context()))
	if errors.Is(err, game.ErrFinished) {
		writeError(w, http.StatusConflict, "game_finished")
		return
	}
	writeJSON(w, moveRes{Grid: v.Grid, State: v.State, Moves: v.Moves})
}

// applyMove is shared by HTTP and websocket play.
func (s *Server) applyMove(ctx context.Context, g *game.Game, pos board.Position, me *auth.User) (game.View, error) {
	before := g.Snapshot()
	if _, _, err := g.ApplyMove(pos); err != nil {
		return before, err
	}
	v := g.Snapshot()
	if v.Moves != before.Moves {
		userID := ""
		if me != nil {
			userID = me.ID
		}
		s.recordMove(ctx, g, v, userID)
	}
	return v, nil
}

type hintReq struct {
	GameID string `json:"gameId"`
}

// handleHint returns the next suggested press.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	p, err := g.Hint()
	switch {
	case errors.Is(err, solver.ErrSolved):
		writeError(w, http.StatusConflict, "game_finished")
	case errors.Is(err, solver.ErrUnsolvable):
		writeError(w, http.StatusUnprocessableEntity, "unsolvable")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "hint_failed")
	default:
		writeJSON(w, p)
	}
}
