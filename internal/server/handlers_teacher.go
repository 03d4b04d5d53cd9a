package server

import (
	"strings"

	"coding-showdown/internal/game"

	"github.com/gin-gonic/gin"
)

type roundRequest struct {
	Round string `json:"round" binding:"required,round"`
}

type questionRequest struct {
	QuestionID string `json:"question_id" binding:"required,max=64"`
}

type drawRequest struct {
	Difficulty string `json:"difficulty" binding:"omitempty,difficulty"`
	Category   string `json:"category" binding:"omitempty,category"`
}

type timerRequest struct {
	Seconds int `json:"seconds" binding:"required,min=1,max=3600"`
}

type round3TimerRequest struct {
	Kind string `json:"kind" binding:"required,oneof=MAIN STEAL"`
}

type scoreRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Delta    int    `json:"delta"`
}

type turnRequest struct {
	PlayerID string `json:"player_id"`
}

type playerRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type revealRequest struct {
	Difficulty string `json:"difficulty" binding:"required,difficulty"`
}

type gradeRequest struct {
	PlayerID  string `json:"player_id" binding:"required"`
	PackIndex *int   `json:"pack_index" binding:"required,min=0,max=2"`
	Status    string `json:"status" binding:"required,oneof=PENDING CORRECT WRONG SKIP"`
	Delta     *int   `json:"delta"`
}

type packSlotRequest struct {
	PlayerID   string `json:"player_id" binding:"required"`
	PackIndex  *int   `json:"pack_index" binding:"required,min=0,max=2"`
	Difficulty string `json:"difficulty" binding:"required,difficulty"`
}

type resolveStealRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Correct  *bool  `json:"correct" binding:"required"`
	Points   int    `json:"points" binding:"min=0"`
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

var roundMessages = bindMessages{
	"round": {
		"required": "round is required",
		"round":    "round must be LOBBY, ROUND_1, ROUND_2, ROUND_3 or GAME_OVER",
	},
}

var drawMessages = bindMessages{
	"difficulty": {"difficulty": "difficulty must be EASY, MEDIUM or HARD"},
	"category":   {"category": "category contains unsupported characters"},
}

var timerMessages = bindMessages{
	"seconds": {
		"required": "seconds are required",
		"min":      "seconds must be positive",
		"max":      "seconds must be 3600 or fewer",
	},
}

var gradeMessages = bindMessages{
	"pack_index": {
		"required": "pack_index is required",
		"min":      "pack_index must be between 0 and 2",
		"max":      "pack_index must be between 0 and 2",
	},
	"status": {
		"oneof": "status must be PENDING, CORRECT, WRONG or SKIP",
	},
}

var packSlotMessages = bindMessages{
	"pack_index": gradeMessages["pack_index"],
	"difficulty": {
		"required":   "difficulty is required",
		"difficulty": "difficulty must be EASY, MEDIUM or HARD",
	},
}

var playerMessages = bindMessages{
	"player_id": {"required": "player_id is required"},
}

func (s *Server) handleSetRound(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req roundRequest
	if !bindJSON(c, &req, roundMessages, "invalid round") {
		return
	}
	s.cancelTimer(roomID)
	state, err := s.engine.SetRound(c.Request.Context(), roomID, game.Round(strings.ToUpper(req.Round)))
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleSetQuestion(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req questionRequest
	if !bindJSON(c, &req, bindMessages{"question_id": {"required": "question_id is required"}}, "invalid question") {
		return
	}
	state, err := s.engine.SetQuestion(c.Request.Context(), roomID, req.QuestionID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleDrawQuestion(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req drawRequest
	if !bindJSON(c, &req, drawMessages, "invalid filter") {
		return
	}
	filter := game.Filter{
		Difficulty: parseDifficulty(req.Difficulty),
		Category:   strings.TrimSpace(req.Category),
	}
	state, err := s.engine.DrawQuestion(c.Request.Context(), roomID, filter)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleClearQuestion(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.ClearQuestion(c.Request.Context(), roomID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleStartTimer(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req timerRequest
	if !bindJSON(c, &req, timerMessages, "invalid timer") {
		return
	}
	state, err := s.engine.StartTimer(c.Request.Context(), roomID, req.Seconds)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleStopTimer(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.StopTimer(c.Request.Context(), roomID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleRound2Timer(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.StartRound2Timer(c.Request.Context(), roomID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleRound3Timer(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req round3TimerRequest
	if !bindJSON(c, &req, bindMessages{"kind": {"oneof": "kind must be MAIN or STEAL"}}, "invalid timer") {
		return
	}
	s.cancelTimer(roomID)
	state, err := s.engine.StartRound3Timer(c.Request.Context(), roomID, req.Kind == "STEAL")
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleUpdateScore(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req scoreRequest
	if !bindJSON(c, &req, playerMessages, "invalid score") {
		return
	}
	state, err := s.engine.UpdateScore(c.Request.Context(), roomID, req.PlayerID, req.Delta)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleClearBuzzers(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.ClearBuzzers(c.Request.Context(), roomID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleRound1Turn(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req turnRequest
	if !bindJSON(c, &req, nil, "invalid turn") {
		return
	}
	state, err := s.engine.SetRound1Turn(c.Request.Context(), roomID, req.PlayerID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleRound3Turn(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req turnRequest
	if !bindJSON(c, &req, nil, "invalid turn") {
		return
	}
	s.cancelTimer(roomID)
	state, err := s.engine.SetRound3Turn(c.Request.Context(), roomID, req.PlayerID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleReveal(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req revealRequest
	if !bindJSON(c, &req, drawMessages, "invalid difficulty") {
		return
	}
	state, err := s.engine.RevealRound3Question(c.Request.Context(), roomID, parseDifficulty(req.Difficulty))
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleGrade(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req gradeRequest
	if !bindJSON(c, &req, gradeMessages, "invalid grade") {
		return
	}
	s.cancelTimer(roomID)
	state, err := s.engine.GradeRound3Question(c.Request.Context(), roomID, game.Grade{
		PlayerID:  req.PlayerID,
		PackIndex: *req.PackIndex,
		Status:    game.ItemStatus(req.Status),
		Delta:     req.Delta,
	})
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handlePackSlot(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req packSlotRequest
	if !bindJSON(c, &req, packSlotMessages, "invalid pack slot") {
		return
	}
	state, err := s.engine.SetPackSlot(c.Request.Context(), roomID, req.PlayerID, *req.PackIndex, parseDifficulty(req.Difficulty))
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleAutoGrade(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.AutoGradeQuiz(c.Request.Context(), roomID)
	if err == nil {
		s.scheduleStealWindow(state)
	}
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleActivateSteal(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req playerRequest
	if !bindJSON(c, &req, playerMessages, "invalid steal") {
		return
	}
	state, err := s.engine.ActivateSteal(c.Request.Context(), roomID, req.PlayerID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleResolveSteal(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req resolveStealRequest
	messages := bindMessages{
		"player_id": {"required": "player_id is required"},
		"correct":   {"required": "correct is required"},
		"points":    {"min": "points must not be negative"},
	}
	if !bindJSON(c, &req, messages, "invalid steal result") {
		return
	}
	state, err := s.engine.ResolveSteal(c.Request.Context(), roomID, req.PlayerID, *req.Correct, req.Points)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleToggleAnswer(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	state, err := s.engine.ToggleShowAnswer(c.Request.Context(), roomID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleViewing(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req turnRequest
	if !bindJSON(c, &req, nil, "invalid player") {
		return
	}
	state, err := s.engine.SetViewingPlayer(c.Request.Context(), roomID, req.PlayerID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleRound3Mode(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req modeRequest
	if !bindJSON(c, &req, nil, "mode must be ORAL or QUIZ") {
		return
	}
	state, err := s.engine.SetRound3Mode(c.Request.Context(), roomID, game.Round3Mode(strings.ToUpper(req.Mode)))
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleSelectionMode(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req modeRequest
	if !bindJSON(c, &req, nil, "mode must be RANDOM or SEQUENTIAL") {
		return
	}
	state, err := s.engine.SetRound3SelectionMode(c.Request.Context(), roomID, game.SelectionMode(strings.ToUpper(req.Mode)))
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleKick(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	var req playerRequest
	if !bindJSON(c, &req, playerMessages, "invalid player") {
		return
	}
	state, err := s.engine.KickPlayer(c.Request.Context(), roomID, req.PlayerID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleEndGame(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	s.cancelTimer(roomID)
	state, err := s.engine.EndGame(c.Request.Context(), roomID)
	respond(c, roomID, game.RoleTeacher, state, err)
}

func (s *Server) handleReset(c *gin.Context) {
	roomID, ok := roomCode(c)
	if !ok {
		return
	}
	s.cancelTimer(roomID)
	state, err := s.engine.ResetGame(c.Request.Context(), roomID)
	respond(c, roomID, game.RoleTeacher, state, err)
}
