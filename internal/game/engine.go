package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultWrongDelay  = 3 * time.Second
	defaultStealWindow = 15 * time.Second
)

// Engine exposes the game actions. Every action is a single store update
// so its precondition is checked against the latest committed document.
type Engine struct {
	store       Store
	bank        *Bank
	events      EventRecorder
	now         func() time.Time
	newID       func() string
	wrongDelay  time.Duration
	stealWindow time.Duration

	randMu sync.Mutex
	rand   *rand.Rand
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

func WithEventRecorder(events EventRecorder) Option {
	return func(e *Engine) {
		e.events = events
	}
}

func WithWrongDelay(delay time.Duration) Option {
	return func(e *Engine) {
		if delay >= 0 {
			e.wrongDelay = delay
		}
	}
}

func WithStealWindow(window time.Duration) Option {
	return func(e *Engine) {
		if window > 0 {
			e.stealWindow = window
		}
	}
}

func NewEngine(store Store, bank *Bank, opts ...Option) *Engine {
	if bank == nil {
		bank = DefaultBank()
	}
	e := &Engine{
		store:       store,
		bank:        bank,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		wrongDelay:  defaultWrongDelay,
		stealWindow: defaultStealWindow,
		rand:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Bank() *Bank {
	return e.bank
}

func (e *Engine) WrongDelay() time.Duration {
	return e.wrongDelay
}

func (e *Engine) pick(n int) int {
	e.randMu.Lock()
	defer e.randMu.Unlock()
	return e.rand.IntN(n)
}

func (e *Engine) apply(ctx context.Context, roomID string, rule func(*GameState, time.Time) error) (*GameState, error) {
	state, err := e.store.Update(ctx, roomID, func(s *GameState) error {
		now := e.now()
		if err := rule(s, now); err != nil {
			return err
		}
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (e *Engine) record(ctx context.Context, roomID, eventType string, payload any) {
	if e.events == nil {
		return
	}
	if err := e.events.RecordEvent(ctx, roomID, eventType, payload); err != nil {
		log.Printf("record event failed room=%s type=%s error=%v", roomID, eventType, err)
	}
}

func (e *Engine) Get(ctx context.Context, roomID string) (*GameState, error) {
	return e.store.Get(ctx, roomID)
}

// CreateRoom creates the room or resumes it when the code already exists.
// The boolean reports whether a new room was created.
func (e *Engine) CreateRoom(ctx context.Context, code string) (*GameState, bool, error) {
	roomID, err := NormalizeRoomCode(code)
	if err != nil {
		return nil, false, err
	}
	existing, err := e.store.Get(ctx, roomID)
	if err == nil {
		log.Printf("room resumed room=%s round=%s", roomID, existing.Round)
		return existing, false, nil
	}
	if !errors.Is(err, ErrRoomNotFound) {
		return nil, false, err
	}
	state := NewGameState(roomID, e.now())
	if err := e.store.Create(ctx, roomID, state); err != nil {
		if errors.Is(err, ErrRoomExists) {
			existing, getErr := e.store.Get(ctx, roomID)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	log.Printf("room created room=%s", roomID)
	e.record(ctx, roomID, "room_created", map[string]any{"room": roomID})
	return state, true, nil
}

// JoinGame adds a player while the room is in the lobby. A known player id
// reconnects in any round. An empty id is replaced by a generated one.
func (e *Engine) JoinGame(ctx context.Context, code, playerID, name string) (*GameState, string, error) {
	roomID, err := NormalizeRoomCode(code)
	if err != nil {
		return nil, "", err
	}
	if playerID == "" {
		playerID = e.newID()
	}
	name = NormalizeName(name)
	added := false
	state, err := e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		var err error
		added, err = addPlayer(s, playerID, name, now)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	if added {
		log.Printf("player joined room=%s player_id=%s name=%q", roomID, playerID, name)
		e.record(ctx, roomID, "player_joined", map[string]any{"player_id": playerID, "name": name})
	}
	return state, playerID, nil
}

func (e *Engine) SetRound(ctx context.Context, roomID string, round Round) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setRound(s, round)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("round changed room=%s round=%s", roomID, round)
	e.record(ctx, roomID, "round_changed", map[string]any{"round": round})
	return state, nil
}

// SetQuestion shows a specific question from the bank.
func (e *Engine) SetQuestion(ctx context.Context, roomID, questionID string) (*GameState, error) {
	question, ok := e.bank.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrQuestionNotFound)
	}
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setQuestion(s, question)
	})
}

// DrawQuestion picks an unused question of the current round matching the
// filter, honoring the room's selection mode.
func (e *Engine) DrawQuestion(ctx context.Context, roomID string, filter Filter) (*GameState, error) {
	placeholderID := "placeholder-" + e.newID()
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return drawQuestion(s, e.bank, filter, e.pick, placeholderID)
	})
}

func (e *Engine) ClearQuestion(ctx context.Context, roomID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return clearQuestion(s)
	})
}

func (e *Engine) RevealRound3Question(ctx context.Context, roomID string, difficulty Difficulty) (*GameState, error) {
	placeholderID := "placeholder-" + e.newID()
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return revealRound3Question(s, e.bank, difficulty, e.pick, placeholderID)
	})
}

func (e *Engine) SetRound1Turn(ctx context.Context, roomID, playerID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setRound1Turn(s, playerID)
	})
}

func (e *Engine) SetRound3Turn(ctx context.Context, roomID, playerID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setRound3Turn(s, playerID)
	})
}

func (e *Engine) StartTimer(ctx context.Context, roomID string, seconds int) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return startTimer(s, seconds, now)
	})
}

func (e *Engine) StopTimer(ctx context.Context, roomID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return stopTimer(s)
	})
}

func (e *Engine) Buzz(ctx context.Context, roomID, playerID string) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return buzz(s, playerID, now)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("buzz accepted room=%s player_id=%s", roomID, playerID)
	e.record(ctx, roomID, "buzz", map[string]any{"player_id": playerID})
	return state, nil
}

func (e *Engine) ClearBuzzers(ctx context.Context, roomID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return clearBuzzers(s)
	})
}

func (e *Engine) StartRound2Timer(ctx context.Context, roomID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return startRound2Timer(s, now)
	})
}

func (e *Engine) SubmitRound2(ctx context.Context, roomID, playerID, code string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return submitRound2(s, playerID, code, now)
	})
}

func (e *Engine) UpdateScore(ctx context.Context, roomID, playerID string, delta int) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return updateScore(s, playerID, delta)
	})
	if err != nil {
		return nil, err
	}
	e.record(ctx, roomID, "score_updated", map[string]any{"player_id": playerID, "delta": delta})
	return state, nil
}

func (e *Engine) SetRound3Pack(ctx context.Context, roomID, playerID string, difficulties []Difficulty) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setRound3Pack(s, playerID, difficulties)
	})
}

func (e *Engine) SubmitQuizAnswer(ctx context.Context, roomID, playerID, answer string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return submitQuizAnswer(s, playerID, answer)
	})
}

func (e *Engine) GradeRound3Question(ctx context.Context, roomID string, grade Grade) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return gradeRound3Question(s, grade)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("round 3 graded room=%s player_id=%s slot=%d status=%s", roomID, grade.PlayerID, grade.PackIndex, grade.Status)
	e.record(ctx, roomID, "round3_graded", map[string]any{
		"player_id": grade.PlayerID,
		"slot":      grade.PackIndex,
		"status":    grade.Status,
		"mode":      ModeOral,
	})
	return state, nil
}

// SetPackSlot changes the difficulty of one still pending pack slot.
func (e *Engine) SetPackSlot(ctx context.Context, roomID, playerID string, index int, difficulty Difficulty) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setPackSlotDifficulty(s, playerID, index, difficulty)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("pack slot changed room=%s player_id=%s slot=%d difficulty=%s", roomID, playerID, index, difficulty)
	e.record(ctx, roomID, "pack_slot_changed", map[string]any{
		"player_id":  playerID,
		"slot":       index,
		"difficulty": difficulty,
	})
	return state, nil
}

// AutoGradeQuiz grades the turn player's quiz answer. A wrong answer moves
// the room into SHOW_WRONG_DELAY; OpenStealWindowAfterDelay finishes it.
func (e *Engine) AutoGradeQuiz(ctx context.Context, roomID string) (*GameState, error) {
	var outcome quizOutcome
	var playerID string
	state, err := e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		playerID = s.Round3TurnPlayerID
		var err error
		outcome, err = autoGradeQuiz(s, now, e.wrongDelay)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("quiz graded room=%s player_id=%s correct=%t delta=%d", roomID, playerID, outcome.correct, outcome.delta)
	e.record(ctx, roomID, "round3_graded", map[string]any{
		"player_id": playerID,
		"correct":   outcome.correct,
		"delta":     outcome.delta,
		"mode":      ModeQuiz,
	})
	return state, nil
}

// StartRound3Timer starts the main answer countdown or opens a steal window.
func (e *Engine) StartRound3Timer(ctx context.Context, roomID string, steal bool) (*GameState, error) {
	if steal {
		return e.OpenStealWindow(ctx, roomID)
	}
	return e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return startMainAnswer(s, now, defaultStealWindow)
	})
}

func (e *Engine) OpenStealWindow(ctx context.Context, roomID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return openStealWindow(s, now, e.stealWindow)
	})
}

// OpenStealWindowAfterDelay opens the steal window only if the room is
// still showing a wrong quiz answer.
func (e *Engine) OpenStealWindowAfterDelay(ctx context.Context, roomID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		if s.Round != Round3 || s.Round3Phase != PhaseShowWrongDelay {
			return ErrWrongPhase
		}
		return openStealWindow(s, now, e.stealWindow)
	})
}

func (e *Engine) ActivateSteal(ctx context.Context, roomID, playerID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return activateSteal(s, playerID)
	})
}

func (e *Engine) ResolveSteal(ctx context.Context, roomID, playerID string, correct bool, points int) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return resolveSteal(s, playerID, correct, points, now, e.stealWindow)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("steal resolved room=%s player_id=%s correct=%t", roomID, playerID, correct)
	e.record(ctx, roomID, "steal_resolved", map[string]any{"player_id": playerID, "correct": correct, "points": points})
	return state, nil
}

func (e *Engine) ToggleShowAnswer(ctx context.Context, roomID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return toggleShowAnswer(s)
	})
}

func (e *Engine) SetViewingPlayer(ctx context.Context, roomID, playerID string) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setViewingPlayer(s, playerID)
	})
}

func (e *Engine) SetRound3Mode(ctx context.Context, roomID string, mode Round3Mode) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setRound3Mode(s, mode)
	})
}

func (e *Engine) SetRound3SelectionMode(ctx context.Context, roomID string, mode SelectionMode) (*GameState, error) {
	return e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return setSelectionMode(s, mode)
	})
}

func (e *Engine) KickPlayer(ctx context.Context, roomID, playerID string) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return kickPlayer(s, playerID)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("player kicked room=%s player_id=%s", roomID, playerID)
	e.record(ctx, roomID, "player_kicked", map[string]any{"player_id": playerID})
	return state, nil
}

// EndGame moves the room to GAME_OVER and archives the final document. An
// archive failure is logged and does not undo the transition.
func (e *Engine) EndGame(ctx context.Context, roomID string) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, _ time.Time) error {
		return endGame(s)
	})
	if err != nil {
		return nil, err
	}
	archivedAt := e.now()
	archive := Archive{
		ID:         ArchiveID(roomID, archivedAt),
		RoomID:     roomID,
		Round:      state.Round,
		Snapshot:   state.Clone(),
		ArchivedAt: archivedAt,
	}
	if err := e.store.Archive(ctx, archive); err != nil {
		log.Printf("archive failed room=%s archive_id=%s error=%v", roomID, archive.ID, err)
	} else {
		log.Printf("game archived room=%s archive_id=%s", roomID, archive.ID)
	}
	e.record(ctx, roomID, "game_ended", map[string]any{"archive_id": archive.ID})
	return state, nil
}

func (e *Engine) ResetGame(ctx context.Context, roomID string) (*GameState, error) {
	state, err := e.apply(ctx, roomID, func(s *GameState, now time.Time) error {
		return resetGame(s, now)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game reset room=%s players=%d", roomID, len(state.Players))
	e.record(ctx, roomID, "game_reset", map[string]any{"players": len(state.Players)})
	return state, nil
}

func (e *Engine) Archives(ctx context.Context, roomID string) ([]Archive, error) {
	return e.store.ListArchives(ctx, roomID)
}
