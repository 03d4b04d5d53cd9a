package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"coding-showdown/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

type wsQuery struct {
	Mode string `form:"mode" binding:"omitempty,oneof=teacher student spectator"`
}

type wsMessage struct {
	Type        string          `json:"type"`
	State       *game.GameState `json:"state,omitempty"`
	Leaderboard []game.Standing `json:"leaderboard,omitempty"`
	ServerTime  time.Time       `json:"server_time"`
	Code        string          `json:"code,omitempty"`
	Error       string          `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebsocket(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var query wsQuery
	if !bindQuery(c, &query) {
		return
	}
	if _, err := s.engine.Get(c.Request.Context(), roomID); err != nil {
		writeError(c, roomID, err)
		return
	}
	role := game.ParseRole(query.Mode)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected room=%s role=%s remote=%s", roomID, role, c.Request.RemoteAddr)

	ctx, cancel := context.WithCancel(context.Background())
	unsubscribe := s.store.Subscribe(ctx, roomID,
		func(state *game.GameState) {
			view := game.ViewFor(state, role)
			msg := wsMessage{
				Type:        "snapshot",
				State:       view,
				Leaderboard: game.Leaderboard(view),
				ServerTime:  time.Now().UTC(),
			}
			if err := writeWS(conn, msg); err != nil {
				cancel()
				_ = conn.Close()
			}
		},
		func(err error) {
			_, code := errorCode(err)
			_ = writeWS(conn, wsMessage{Type: "error", Code: code, Error: err.Error(), ServerTime: time.Now().UTC()})
			cancel()
			_ = conn.Close()
		},
	)
	go s.readWS(roomID, conn, cancel, unsubscribe)
}

// readWS drains client frames so close and ping frames are processed. The
// subscription ends when the client goes away.
func (s *Server) readWS(roomID string, conn *websocket.Conn, cancel context.CancelFunc, unsubscribe func()) {
	defer func() {
		unsubscribe()
		cancel()
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected room=%s error=%v", roomID, err)
			return
		}
	}
}

func writeWS(conn *websocket.Conn, msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
