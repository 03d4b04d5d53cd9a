package server

import (
	"coding-showdown/internal/game"

	"github.com/gin-gonic/gin"
)

type round2Request struct {
	Code string `json:"code" binding:"max=20000"`
}

type packRequest struct {
	Difficulties []string `json:"difficulties" binding:"required,len=3,dive,difficulty"`
}

type quizAnswerRequest struct {
	Answer string `json:"answer" binding:"max=500"`
}

var packMessages = bindMessages{
	"difficulties": {
		"required":   "difficulties are required",
		"len":        "a pack has exactly three questions",
		"difficulty": "difficulty must be EASY, MEDIUM or HARD",
	},
}

func playerParams(c *gin.Context) (string, string, bool) {
	roomID, ok := roomCode(c)
	if !ok {
		return "", "", false
	}
	return roomID, c.Param("playerID"), true
}

func (s *Server) handleBuzz(c *gin.Context) {
	roomID, playerID, ok := playerParams(c)
	if !ok {
		return
	}
	state, err := s.engine.Buzz(c.Request.Context(), roomID, playerID)
	respond(c, roomID, game.RoleStudent, state, err)
}

func (s *Server) handleSubmitRound2(c *gin.Context) {
	roomID, playerID, ok := playerParams(c)
	if !ok {
		return
	}
	var req round2Request
	if !bindJSON(c, &req, bindMessages{"code": {"max": "submission is too long"}}, "invalid submission") {
		return
	}
	state, err := s.engine.SubmitRound2(c.Request.Context(), roomID, playerID, req.Code)
	respond(c, roomID, game.RoleStudent, state, err)
}

func (s *Server) handleSetPack(c *gin.Context) {
	roomID, playerID, ok := playerParams(c)
	if !ok {
		return
	}
	var req packRequest
	if !bindJSON(c, &req, packMessages, "invalid pack") {
		return
	}
	difficulties := make([]game.Difficulty, 0, len(req.Difficulties))
	for _, value := range req.Difficulties {
		difficulties = append(difficulties, parseDifficulty(value))
	}
	state, err := s.engine.SetRound3Pack(c.Request.Context(), roomID, playerID, difficulties)
	respond(c, roomID, game.RoleStudent, state, err)
}

func (s *Server) handleQuizAnswer(c *gin.Context) {
	roomID, playerID, ok := playerParams(c)
	if !ok {
		return
	}
	var req quizAnswerRequest
	if !bindJSON(c, &req, bindMessages{"answer": {"max": "answer is too long"}}, "invalid answer") {
		return
	}
	state, err := s.engine.SubmitQuizAnswer(c.Request.Context(), roomID, playerID, req.Answer)
	respond(c, roomID, game.RoleStudent, state, err)
}
