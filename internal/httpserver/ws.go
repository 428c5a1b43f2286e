package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lightsout/internal/auth"
	"github.com/robalobadob/lightsout/internal/board"
	"github.com/robalobadob/lightsout/internal/game"
	"github.com/robalobadob/lightsout/internal/solver"
)

const wsReadTimeout = 10 * time.Minute

// wsIn is a client message. Type is "new", "move" or "hint".
type wsIn struct {
	Type string `json:"type"`
	newGameReq
	Row   *int   `json:"row"`
	Col   *int   `json:"col"`
	Coord string `json:"coord"`
}

// wsOut is a server message. Type is "state", "hint" or "error".
type wsOut struct {
	Type string `json:"type"`
	*game.View
	*board.Position
	Message string `json:"message,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.cfg.ClientOrigin
		},
	}
}

// handleWS plays one session over a websocket.
// ?gameId= attaches to an existing session; otherwise a default game starts.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	me := auth.FromContext(r.Context())
	// cookies cannot be set on an upgrade, so guests without one stay unowned
	ownerCol, ownerID := "anonymous_id", auth.AnonID(r)
	if me != nil {
		ownerCol, ownerID = "user_id", me.ID
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	var g *game.Game
	if id := r.URL.Query().Get("gameId"); id != "" {
		if g, err = s.store.Get(ctx, id); err != nil {
			_ = conn.WriteJSON(wsOut{Type: "error", Message: "not_found"})
			return
		}
	} else if g, err = s.startGame(ctx, newGameReq{}, ownerCol, ownerID); err != nil {
		_ = conn.WriteJSON(wsOut{Type: "error", Message: "start_failed"})
		return
	}
	if err := sendState(conn, g); err != nil {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		var msg wsIn
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		var out wsOut
		switch msg.Type {
		case "new":
			ng, err := s.startGame(ctx, msg.newGameReq, ownerCol, ownerID)
			if err != nil {
				_, code := newGameError(err)
				out = wsOut{Type: "error", Message: code}
				break
			}
			g = ng
			v := g.Snapshot()
			out = wsOut{Type: "state", View: &v}
		case "move":
			pos, err := moveReq{Row: msg.Row, Col: msg.Col, Coord: msg.Coord}.position()
			if err != nil {
				out = wsOut{Type: "error", Message: "bad_position"}
				break
			}
			v, err := s.applyMove(ctx, g, pos, me)
			if errors.Is(err, game.ErrFinished) {
				out = wsOut{Type: "error", Message: "game_finished"}
				break
			}
			out = wsOut{Type: "state", View: &v}
		case "hint":
			p, err := g.Hint()
			switch {
			case errors.Is(err, solver.ErrSolved):
				out = wsOut{Type: "error", Message: "game_finished"}
			case err != nil:
				out = wsOut{Type: "error", Message: "unsolvable"}
			default:
				out = wsOut{Type: "hint", Position: &p}
			}
		default:
			out = wsOut{Type: "error", Message: "unknown_type"}
		}
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}

func sendState(conn *websocket.Conn, g *game.Game) error {
	v := g.Snapshot()
	return conn.WriteJSON(wsOut{Type: "state", View: &v})
}
