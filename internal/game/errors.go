package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomExists       = errors.New("room already exists")
	ErrInvalidRoomCode  = errors.New("invalid room code")
	ErrGameLocked       = errors.New("game already started")
	ErrGameOver         = errors.New("game is over")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrBuzzerLocked     = errors.New("buzzer locked")
	ErrAlreadyBuzzed    = errors.New("another player already buzzed")
	ErrPackLocked       = errors.New("round 3 pack already locked")
	ErrPackNotLocked    = errors.New("round 3 pack not locked")
	ErrInvalidPack      = errors.New("round 3 pack must have exactly 3 valid difficulties")
	ErrNoPendingSlot    = errors.New("no pending pack slot for difficulty")
	ErrNoActiveQuestion = errors.New("no active question")
	ErrQuestionUsed     = errors.New("question already used")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotTurnPlayer    = errors.New("player does not hold the turn")
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("concurrent update conflict")
)
