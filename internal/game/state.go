package game

import (
	"time"
)

type Round string

const (
	RoundLobby    Round = "LOBBY"
	Round1        Round = "ROUND_1"
	Round2        Round = "ROUND_2"
	Round3        Round = "ROUND_3"
	RoundGameOver Round = "GAME_OVER"
)

func (r Round) Valid() bool {
	switch r {
	case RoundLobby, Round1, Round2, Round3, RoundGameOver:
		return true
	}
	return false
}

func (r Round) InPlay() bool {
	return r == Round1 || r == Round2 || r == Round3
}

type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

type Round3Phase string

const (
	PhaseIdle           Round3Phase = "IDLE"
	PhaseMainAnswer     Round3Phase = "MAIN_ANSWER"
	PhaseStealWindow    Round3Phase = "STEAL_WINDOW"
	PhaseShowWrongDelay Round3Phase = "SHOW_WRONG_DELAY"
)

type Round3Mode string

const (
	ModeOral Round3Mode = "ORAL"
	ModeQuiz Round3Mode = "QUIZ"
)

func (m Round3Mode) Valid() bool {
	return m == ModeOral || m == ModeQuiz
}

type SelectionMode string

const (
	SelectRandom     SelectionMode = "RANDOM"
	SelectSequential SelectionMode = "SEQUENTIAL"
)

func (m SelectionMode) Valid() bool {
	return m == SelectRandom || m == SelectSequential
}

type ItemStatus string

const (
	StatusPending ItemStatus = "PENDING"
	StatusCorrect ItemStatus = "CORRECT"
	StatusWrong   ItemStatus = "WRONG"
	StatusSkip    ItemStatus = "SKIP"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCorrect, StatusWrong, StatusSkip:
		return true
	}
	return false
}

type Question struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Answer      string     `json:"answer,omitempty"`
	Options     []string   `json:"options,omitempty"`
	Code        string     `json:"code,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category,omitempty"`
	Points      int        `json:"points"`
	Placeholder bool       `json:"placeholder,omitempty"`
}

func (q Question) clone() *Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	return &out
}

// Round3Item is one slot of a player's Round 3 pack. AppliedDelta is the
// score change actually committed by the last grading of the slot.
type Round3Item struct {
	Difficulty   Difficulty `json:"difficulty"`
	Status       ItemStatus `json:"status"`
	QuestionMode Round3Mode `json:"question_mode,omitempty"`
	AppliedDelta int        `json:"applied_delta"`
}

type Player struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Score            int          `json:"score"`
	BuzzedAt         *time.Time   `json:"buzzed_at,omitempty"`
	SubmittedRound2  bool         `json:"submitted_round2"`
	Round2Time       float64      `json:"round2_time,omitempty"`
	Round2Code       string       `json:"round2_code,omitempty"`
	Round3Pack       []Round3Item `json:"round3_pack"`
	Round3PackLocked bool         `json:"round3_pack_locked"`
	Round3QuizAnswer string       `json:"round3_quiz_answer,omitempty"`
	JoinedAt         time.Time    `json:"joined_at"`
}

type GameState struct {
	RoomID              string        `json:"room_id"`
	Round               Round         `json:"round"`
	Players             []Player      `json:"players"`
	ActiveQuestion      *Question     `json:"active_question"`
	TimerEndTime        *time.Time    `json:"timer_end_time"`
	BuzzerLocked        bool          `json:"buzzer_locked"`
	UsedQuestionIDs     []string      `json:"used_question_ids"`
	Round1TurnPlayerID  string        `json:"round1_turn_player_id,omitempty"`
	Round3TurnPlayerID  string        `json:"round3_turn_player_id,omitempty"`
	ActiveStealPlayerID string        `json:"active_steal_player_id,omitempty"`
	StealAttemptedIDs   []string      `json:"steal_attempted_ids,omitempty"`
	Round3Phase         Round3Phase   `json:"round3_phase"`
	Round3Mode          Round3Mode    `json:"round3_mode"`
	Round3SelectionMode SelectionMode `json:"round3_selection_mode"`
	ShowAnswer          bool          `json:"show_answer"`
	ViewingPlayerID     string        `json:"viewing_player_id,omitempty"`
	Message             string        `json:"message,omitempty"`
	Round2StartedAt     *time.Time    `json:"round2_started_at,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

const welcomeMessage = "Welcome to Coding Showdown!"

// NewGameState returns the initial document for a room.
func NewGameState(roomID string, now time.Time) *GameState {
	return &GameState{
		RoomID:              roomID,
		Round:               RoundLobby,
		Players:             []Player{},
		BuzzerLocked:        true,
		UsedQuestionIDs:     []string{},
		Round3Phase:         PhaseIdle,
		Round3Mode:          ModeOral,
		Round3SelectionMode: SelectRandom,
		Message:             welcomeMessage,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func DefaultPack() []Round3Item {
	return []Round3Item{
		{Difficulty: Easy, Status: StatusPending},
		{Difficulty: Medium, Status: StatusPending},
		{Difficulty: Hard, Status: StatusPending},
	}
}

func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]Player, len(s.Players))
	for i, player := range s.Players {
		out.Players[i] = player.clone()
	}
	if s.ActiveQuestion != nil {
		out.ActiveQuestion = s.ActiveQuestion.clone()
	}
	out.TimerEndTime = cloneTime(s.TimerEndTime)
	out.Round2StartedAt = cloneTime(s.Round2StartedAt)
	out.UsedQuestionIDs = append([]string{}, s.UsedQuestionIDs...)
	if s.StealAttemptedIDs != nil {
		out.StealAttemptedIDs = append([]string(nil), s.StealAttemptedIDs...)
	}
	return &out
}

func (p Player) clone() Player {
	out := p
	out.BuzzedAt = cloneTime(p.BuzzedAt)
	if p.Round3Pack != nil {
		out.Round3Pack = append([]Round3Item(nil), p.Round3Pack...)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	value := *t
	return &value
}

func (s *GameState) FindPlayer(playerID string) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return &s.Players[i], true
		}
	}
	return nil, false
}

func (s *GameState) player(playerID string) (*Player, error) {
	player, ok := s.FindPlayer(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

func (s *GameState) isUsed(questionID string) bool {
	for _, id := range s.UsedQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

func (s *GameState) markUsed(questionID string) {
	if s.isUsed(questionID) {
		return
	}
	s.UsedQuestionIDs = append(s.UsedQuestionIDs, questionID)
}

func (s *GameState) stealAttempted(playerID string) bool {
	for _, id := range s.StealAttemptedIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (s *GameState) clearBuzzes() {
	for i := range s.Players {
		s.Players[i].BuzzedAt = nil
	}
}

func (s *GameState) buzzedPlayer() (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].BuzzedAt != nil {
			return &s.Players[i], true
		}
	}
	return nil, false
}

func (s *GameState) clearQuizAnswers() {
	for i := range s.Players {
		s.Players[i].Round3QuizAnswer = ""
	}
}

// TimeRemaining is the countdown derived from TimerEndTime; zero when no
// timer is running or it has expired.
func (s *GameState) TimeRemaining(now time.Time) time.Duration {
	if s == nil || s.TimerEndTime == nil {
		return 0
	}
	remaining := s.TimerEndTime.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
