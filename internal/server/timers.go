package server

import (
	"context"
	"errors"
	"log"
	"time"

	"coding-showdown/internal/game"
)

// scheduleStealWindow arms the timer that moves a room out of
// SHOW_WRONG_DELAY once the wrong answer has been on screen long enough.
func (s *Server) scheduleStealWindow(state *game.GameState) {
	if state == nil || state.Round3Phase != game.PhaseShowWrongDelay {
		return
	}
	delay := s.engine.WrongDelay()
	if state.TimerEndTime != nil {
		delay = time.Until(*state.TimerEndTime)
	}
	if delay < 0 {
		delay = 0
	}
	roomID := state.RoomID
	s.timersMu.Lock()
	if existing, ok := s.timers[roomID]; ok {
		existing.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.openStealWindow(roomID, &timer)
	})
	s.timers[roomID] = timer
	s.timersMu.Unlock()
}

func (s *Server) openStealWindow(roomID string, timer **time.Timer) {
	s.timersMu.Lock()
	if current, ok := s.timers[roomID]; !ok || current != *timer {
		s.timersMu.Unlock()
		return
	}
	delete(s.timers, roomID)
	s.timersMu.Unlock()

	state, err := s.engine.OpenStealWindowAfterDelay(context.Background(), roomID)
	if err != nil {
		if errors.Is(err, game.ErrWrongPhase) || errors.Is(err, game.ErrRoomNotFound) {
			return
		}
		log.Printf("steal window failed room=%s error=%v", roomID, err)
		return
	}
	log.Printf("steal window opened room=%s phase=%s", roomID, state.Round3Phase)
}

func (s *Server) cancelTimer(roomID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[roomID]; ok {
		timer.Stop()
		delete(s.timers, roomID)
	}
}

func (s *Server) pendingTimer(roomID string) bool {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	_, ok := s.timers[roomID]
	return ok
}
