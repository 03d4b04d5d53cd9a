package server

import (
	"errors"
	"log"
	"net/http"

	"coding-showdown/internal/game"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{game.ErrRoomNotFound, http.StatusNotFound, "room_not_found"},
	{game.ErrPlayerNotFound, http.StatusNotFound, "player_not_found"},
	{game.ErrQuestionNotFound, http.StatusNotFound, "question_not_found"},
	{game.ErrRoomExists, http.StatusConflict, "room_exists"},
	{game.ErrGameLocked, http.StatusConflict, "game_locked"},
	{game.ErrGameOver, http.StatusConflict, "game_over"},
	{game.ErrBuzzerLocked, http.StatusConflict, "buzzer_locked"},
	{game.ErrAlreadyBuzzed, http.StatusConflict, "already_buzzed"},
	{game.ErrPackLocked, http.StatusConflict, "pack_locked"},
	{game.ErrPackNotLocked, http.StatusConflict, "pack_not_locked"},
	{game.ErrNoPendingSlot, http.StatusConflict, "no_pending_slot"},
	{game.ErrNoActiveQuestion, http.StatusConflict, "no_active_question"},
	{game.ErrQuestionUsed, http.StatusConflict, "question_used"},
	{game.ErrNotTurnPlayer, http.StatusConflict, "not_turn_player"},
	{game.ErrWrongPhase, http.StatusConflict, "wrong_phase"},
	{game.ErrConflict, http.StatusConflict, "conflict"},
	{game.ErrInvalidRoomCode, http.StatusBadRequest, "invalid_room_code"},
	{game.ErrInvalidPack, http.StatusBadRequest, "invalid_pack"},
	{game.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
}

func errorCode(err error) (int, string) {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.err) {
			return mapping.status, mapping.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(c *gin.Context, roomID string, err error) {
	status, code := errorCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed room=%s path=%s error=%v", roomID, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error", "code": code})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
