package server

import (
	"net/http"

	"coding-showdown/internal/game"
	"coding-showdown/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Code string `json:"code" binding:"required,roomcode"`
}

type joinRequest struct {
	PlayerID string `json:"player_id" binding:"omitempty,max=64"`
	Name     string `json:"name" binding:"omitempty,playername"`
}

var createRoomMessages = bindMessages{
	"code": {
		"required": "room code is required",
		"roomcode": "room code may only contain letters, digits, '-' or '_'",
	},
}

var joinMessages = bindMessages{
	"name": {
		"playername": "name contains unsupported characters",
	},
	"player_id": {
		"max": "player id is too long",
	},
}

func (s *Server) handleHome(c *gin.Context) {
	templ.Handler(web.Home()).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req, createRoomMessages, "invalid room request") {
		return
	}
	state, created, err := s.engine.CreateRoom(c.Request.Context(), req.Code)
	if err != nil {
		writeError(c, req.Code, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"room_id": state.RoomID,
		"created": created,
		"state":   game.ViewFor(state, game.RoleTeacher),
	})
}

func (s *Server) handleGetRoom(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.Get(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, roomID, err)
		return
	}
	c.JSON(http.StatusOK, game.ViewFor(state, game.RoleTeacher))
}

func (s *Server) handleJoin(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req joinRequest
	if !bindJSON(c, &req, joinMessages, "invalid join request") {
		return
	}
	state, playerID, err := s.engine.JoinGame(c.Request.Context(), roomID, req.PlayerID, req.Name)
	if err != nil {
		writeError(c, roomID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player_id": playerID,
		"room_id":   roomID,
		"state":     game.ViewFor(state, game.RoleStudent),
	})
}

func (s *Server) handleArchives(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	archives, err := s.engine.Archives(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, roomID, err)
		return
	}
	if archives == nil {
		archives = []game.Archive{}
	}
	c.JSON(http.StatusOK, gin.H{"archives": archives})
}

func (s *Server) handleScoreboard(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.Get(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, roomID, err)
		return
	}
	templ.Handler(web.Scoreboard(scoreboardData(state))).ServeHTTP(c.Writer, c.Request)
}

func scoreboardData(state *game.GameState) web.ScoreboardData {
	view := game.ViewFor(state, game.RoleSpectator)
	data := web.ScoreboardData{
		RoomID:  view.RoomID,
		Round:   string(view.Round),
		Message: view.Message,
		Final:   view.Round == game.RoundGameOver,
	}
	if q := view.ActiveQuestion; q != nil {
		data.Question = q.Content
		data.Code = q.Code
		data.Answer = q.Answer
	}
	for _, standing := range game.Leaderboard(view) {
		row := web.ScoreRow{
			Rank:  standing.Rank,
			Name:  standing.Name,
			Score: standing.Score,
		}
		row.HasTurn = standing.PlayerID == view.Round1TurnPlayerID ||
			standing.PlayerID == view.Round3TurnPlayerID ||
			standing.PlayerID == view.ActiveStealPlayerID
		if player, ok := view.FindPlayer(standing.PlayerID); ok {
			row.Buzzed = player.BuzzedAt != nil
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func roomCode(c *gin.Context) (string, bool) {
	roomID, err := game.NormalizeRoomCode(c.Param("code"))
	if err != nil {
		writeError(c, c.Param("code"), err)
		return "", false
	}
	return roomID, true
}

// respond writes the committed document as the given role sees it.
func respond(c *gin.Context, roomID string, role game.Role, state *game.GameState, err error) {
	if err != nil {
		writeError(c, roomID, err)
		return
	}
	c.JSON(http.StatusOK, game.ViewFor(state, role))
}
