package game

import (
	"fmt"
	"strings"
	"time"
)

// The functions in this file are the transition rules. Each mutates the
// state it is given and returns an error to reject the action; the engine
// runs them inside a store update so a rejection commits nothing.

func setRound(s *GameState, round Round) error {
	if !round.Valid() {
		return fmt.Errorf("round %q: %w", round, ErrInvalidArgument)
	}
	s.Round = round
	s.Message = fmt.Sprintf("Entering %s...", round)
	s.ActiveQuestion = nil
	s.TimerEndTime = nil
	s.Round2StartedAt = nil
	s.ShowAnswer = false
	s.ViewingPlayerID = ""
	s.Round1TurnPlayerID = ""
	s.Round3TurnPlayerID = ""
	s.ActiveStealPlayerID = ""
	s.StealAttemptedIDs = nil
	s.Round3Phase = PhaseIdle
	s.Round3Mode = ModeOral
	s.BuzzerLocked = true
	s.clearBuzzes()
	return nil
}

func setQuestion(s *GameState, question Question) error {
	if s.isUsed(question.ID) {
		return fmt.Errorf("question %s: %w", question.ID, ErrQuestionUsed)
	}
	s.ActiveQuestion = question.clone()
	s.markUsed(question.ID)
	s.BuzzerLocked = true
	s.TimerEndTime = nil
	s.Message = ""
	s.Round2StartedAt = nil
	s.ShowAnswer = false
	s.ViewingPlayerID = ""
	s.clearBuzzes()
	switch s.Round {
	case Round2:
		for i := range s.Players {
			s.Players[i].SubmittedRound2 = false
			s.Players[i].Round2Code = ""
			s.Players[i].Round2Time = 0
		}
	case Round3:
		s.clearQuizAnswers()
	}
	return nil
}

// showPlaceholder surfaces pool exhaustion in band. The placeholder id is
// never recorded as used.
func showPlaceholder(s *GameState, placeholder *Question) {
	s.ActiveQuestion = placeholder
	s.BuzzerLocked = true
	s.TimerEndTime = nil
	s.ShowAnswer = false
	s.Message = placeholder.Content
}

func drawQuestion(s *GameState, bank *Bank, filter Filter, pick func(int) int, placeholderID string) error {
	if !s.Round.InPlay() {
		return fmt.Errorf("draw question in %s: %w", s.Round, ErrWrongPhase)
	}
	available := FilterAvailable(bank.Pool(s.Round), filter.Match, s.UsedQuestionIDs)
	question, ok := selectQuestion(available, s.Round3SelectionMode, pick)
	if !ok {
		showPlaceholder(s, exhaustedQuestion(placeholderID, filter))
		return nil
	}
	return setQuestion(s, question)
}

func clearQuestion(s *GameState) error {
	s.ActiveQuestion = nil
	s.ShowAnswer = false
	return nil
}

func revealRound3Question(s *GameState, bank *Bank, difficulty Difficulty, pick func(int) int, placeholderID string) error {
	if s.Round != Round3 {
		return fmt.Errorf("reveal in %s: %w", s.Round, ErrWrongPhase)
	}
	if !difficulty.Valid() {
		return fmt.Errorf("difficulty %q: %w", difficulty, ErrInvalidArgument)
	}
	if s.Round3TurnPlayerID == "" {
		return fmt.Errorf("reveal without turn: %w", ErrNotTurnPlayer)
	}
	player, err := s.player(s.Round3TurnPlayerID)
	if err != nil {
		return err
	}
	if pendingSlot(player, difficulty) < 0 {
		return fmt.Errorf("%s for %s: %w", difficulty, player.Name, ErrNoPendingSlot)
	}

	s.Round3Phase = PhaseIdle
	s.ActiveStealPlayerID = ""
	s.StealAttemptedIDs = nil
	s.clearQuizAnswers()

	filter := Filter{Difficulty: difficulty}
	available := FilterAvailable(bank.Pool(Round3), filter.Match, s.UsedQuestionIDs)
	question, ok := selectQuestion(available, s.Round3SelectionMode, pick)
	if !ok {
		showPlaceholder(s, exhaustedQuestion(placeholderID, filter))
		return nil
	}
	if err := setQuestion(s, question); err != nil {
		return err
	}
	if len(question.Options) > 1 && pick != nil {
		shuffle(s.ActiveQuestion.Options, pick)
	}
	return nil
}

func shuffle(values []string, pick func(int) int) {
	for i := len(values) - 1; i > 0; i-- {
		j := pick(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}

func pendingSlot(player *Player, difficulty Difficulty) int {
	for i, item := range player.Round3Pack {
		if item.Difficulty == difficulty && item.Status == StatusPending {
			return i
		}
	}
	return -1
}

func setRound1Turn(s *GameState, playerID string) error {
	if playerID != "" {
		if _, err := s.player(playerID); err != nil {
			return err
		}
	}
	s.Round1TurnPlayerID = playerID
	s.ShowAnswer = false
	s.TimerEndTime = nil
	s.BuzzerLocked = true
	s.clearBuzzes()
	return nil
}

func setRound3Turn(s *GameState, playerID string) error {
	if s.Round != Round3 {
		return fmt.Errorf("round 3 turn in %s: %w", s.Round, ErrWrongPhase)
	}
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if !player.Round3PackLocked {
		return fmt.Errorf("%s: %w", player.Name, ErrPackNotLocked)
	}
	s.Round3TurnPlayerID = playerID
	s.Round3Phase = PhaseIdle
	s.ActiveQuestion = nil
	s.TimerEndTime = nil
	s.ShowAnswer = false
	s.Message = ""
	s.ActiveStealPlayerID = ""
	s.StealAttemptedIDs = nil
	s.BuzzerLocked = true
	s.clearBuzzes()
	s.clearQuizAnswers()
	return nil
}

func startTimer(s *GameState, seconds int, now time.Time) error {
	if seconds <= 0 {
		return fmt.Errorf("timer seconds %d: %w", seconds, ErrInvalidArgument)
	}
	end := now.Add(time.Duration(seconds) * time.Second)
	s.TimerEndTime = &end
	s.BuzzerLocked = false
	return nil
}

func stopTimer(s *GameState) error {
	s.TimerEndTime = nil
	s.BuzzerLocked = true
	return nil
}

// buzz is first-writer-wins: it only succeeds while the buzzer is open and
// nobody holds a buzz, and it closes the buzzer in the same update.
func buzz(s *GameState, playerID string, now time.Time) error {
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if s.BuzzerLocked {
		return ErrBuzzerLocked
	}
	if _, taken := s.buzzedPlayer(); taken {
		return ErrAlreadyBuzzed
	}
	if s.Round == Round3 && s.Round3Phase == PhaseStealWindow {
		if playerID == s.Round3TurnPlayerID {
			return fmt.Errorf("turn player cannot steal: %w", ErrWrongPhase)
		}
		if s.stealAttempted(playerID) {
			return fmt.Errorf("%s already attempted a steal: %w", player.Name, ErrWrongPhase)
		}
	}
	at := now
	player.BuzzedAt = &at
	s.BuzzerLocked = true
	s.Message = fmt.Sprintf("%s BUZZED!", player.Name)
	return nil
}

func clearBuzzers(s *GameState) error {
	s.BuzzerLocked = false
	s.clearBuzzes()
	return nil
}

func startRound2Timer(s *GameState, now time.Time) error {
	if s.Round != Round2 {
		return fmt.Errorf("round 2 timer in %s: %w", s.Round, ErrWrongPhase)
	}
	duration := defaultRound2Timer
	if s.ActiveQuestion != nil {
		duration = AnswerDuration(s.ActiveQuestion.Difficulty, defaultRound2Timer)
	}
	started := now
	end := now.Add(duration)
	s.Round2StartedAt = &started
	s.TimerEndTime = &end
	s.BuzzerLocked = true
	return nil
}

// submitRound2 records the first submission only; later ones leave the
// state untouched.
func submitRound2(s *GameState, playerID, code string, now time.Time) error {
	if s.Round != Round2 {
		return fmt.Errorf("round 2 submission in %s: %w", s.Round, ErrWrongPhase)
	}
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if player.SubmittedRound2 {
		return nil
	}
	taken := 0.0
	if s.Round2StartedAt != nil {
		taken = now.Sub(*s.Round2StartedAt).Seconds()
		if taken < 0 {
			taken = 0
		}
	}
	player.SubmittedRound2 = true
	player.Round2Code = code
	player.Round2Time = taken
	return nil
}

func updateScore(s *GameState, playerID string, delta int) error {
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	applyDelta(player, delta)
	return nil
}

func setRound3Pack(s *GameState, playerID string, difficulties []Difficulty) error {
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if player.Round3PackLocked {
		return ErrPackLocked
	}
	if len(difficulties) != 3 {
		return ErrInvalidPack
	}
	pack := make([]Round3Item, 0, len(difficulties))
	for _, difficulty := range difficulties {
		if !difficulty.Valid() {
			return ErrInvalidPack
		}
		pack = append(pack, Round3Item{Difficulty: difficulty, Status: StatusPending})
	}
	player.Round3Pack = pack
	player.Round3PackLocked = true
	return nil
}

func submitQuizAnswer(s *GameState, playerID, answer string) error {
	if s.Round != Round3 {
		return fmt.Errorf("quiz answer in %s: %w", s.Round, ErrWrongPhase)
	}
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if s.Round3TurnPlayerID != playerID {
		return ErrNotTurnPlayer
	}
	if s.ActiveQuestion == nil || s.ActiveQuestion.Placeholder {
		return ErrNoActiveQuestion
	}
	if s.Round3Phase == PhaseShowWrongDelay || s.Round3Phase == PhaseStealWindow {
		return fmt.Errorf("quiz answer during %s: %w", s.Round3Phase, ErrWrongPhase)
	}
	player.Round3QuizAnswer = strings.TrimSpace(answer)
	return nil
}

// Grade is a teacher's oral grading of one pack slot. A nil Delta uses the
// difficulty scale.
type Grade struct {
	PlayerID  string
	PackIndex int
	Status    ItemStatus
	Delta     *int
}

func gradeRound3Question(s *GameState, grade Grade) error {
	if !grade.Status.Valid() {
		return fmt.Errorf("status %q: %w", grade.Status, ErrInvalidArgument)
	}
	player, err := s.player(grade.PlayerID)
	if err != nil {
		return err
	}
	if grade.PackIndex < 0 || grade.PackIndex >= len(player.Round3Pack) {
		return fmt.Errorf("pack index %d: %w", grade.PackIndex, ErrInvalidArgument)
	}
	item := &player.Round3Pack[grade.PackIndex]
	regrade(player, grade.PackIndex, grade.Status, gradeDelta(grade.Status, item.Difficulty, grade.Delta))
	if grade.Status == StatusPending {
		item.QuestionMode = ""
	} else {
		item.QuestionMode = ModeOral
	}
	return nil
}

// setPackSlotDifficulty lets the teacher swap the difficulty of a slot that
// has not been played yet. Locked packs may be edited this way.
func setPackSlotDifficulty(s *GameState, playerID string, index int, difficulty Difficulty) error {
	if !difficulty.Valid() {
		return fmt.Errorf("difficulty %q: %w", difficulty, ErrInvalidArgument)
	}
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(player.Round3Pack) {
		return fmt.Errorf("pack index %d: %w", index, ErrInvalidArgument)
	}
	item := &player.Round3Pack[index]
	if item.Status != StatusPending {
		return fmt.Errorf("slot %d already %s: %w", index, item.Status, ErrWrongPhase)
	}
	// The slot the revealed question will be graded against stays put.
	if s.Round3TurnPlayerID == playerID && s.ActiveQuestion != nil && !s.ActiveQuestion.Placeholder &&
		s.ActiveQuestion.Difficulty == item.Difficulty && pendingSlot(player, item.Difficulty) == index {
		return fmt.Errorf("slot %d is in play: %w", index, ErrWrongPhase)
	}
	item.Difficulty = difficulty
	return nil
}

type quizOutcome struct {
	correct bool
	delta   int
}

// autoGradeQuiz compares the turn player's quiz answer with the active
// question and grades the matching pending slot.
func autoGradeQuiz(s *GameState, now time.Time, wrongDelay time.Duration) (quizOutcome, error) {
	if s.Round != Round3 {
		return quizOutcome{}, fmt.Errorf("auto grade in %s: %w", s.Round, ErrWrongPhase)
	}
	if s.Round3Phase == PhaseShowWrongDelay || s.Round3Phase == PhaseStealWindow {
		return quizOutcome{}, fmt.Errorf("auto grade during %s: %w", s.Round3Phase, ErrWrongPhase)
	}
	question := s.ActiveQuestion
	if question == nil || question.Placeholder {
		return quizOutcome{}, ErrNoActiveQuestion
	}
	if s.Round3TurnPlayerID == "" {
		return quizOutcome{}, ErrNotTurnPlayer
	}
	player, err := s.player(s.Round3TurnPlayerID)
	if err != nil {
		return quizOutcome{}, err
	}
	index := pendingSlot(player, question.Difficulty)
	if index < 0 {
		return quizOutcome{}, fmt.Errorf("%s for %s: %w", question.Difficulty, player.Name, ErrNoPendingSlot)
	}

	answer := strings.TrimSpace(player.Round3QuizAnswer)
	correct := answer != "" && strings.EqualFold(answer, strings.TrimSpace(question.Answer))
	status := StatusWrong
	if correct {
		status = StatusCorrect
	}
	regrade(player, index, status, gradeDelta(status, question.Difficulty, nil))
	player.Round3Pack[index].QuestionMode = ModeQuiz
	outcome := quizOutcome{correct: correct, delta: player.Round3Pack[index].AppliedDelta}

	s.clearBuzzes()
	s.ActiveStealPlayerID = ""
	s.StealAttemptedIDs = nil
	s.BuzzerLocked = true
	if correct {
		s.ShowAnswer = true
		s.Round3TurnPlayerID = ""
		s.Round3Phase = PhaseIdle
		s.TimerEndTime = nil
		s.Message = fmt.Sprintf("%s is correct!", player.Name)
		return outcome, nil
	}
	s.ShowAnswer = false
	s.Round3Phase = PhaseShowWrongDelay
	end := now.Add(wrongDelay)
	s.TimerEndTime = &end
	s.Message = fmt.Sprintf("%s is wrong!", player.Name)
	return outcome, nil
}

// openStealWindow lets every non-turn player who has not already tried
// buzz in for the open question.
func openStealWindow(s *GameState, now time.Time, window time.Duration) error {
	if s.Round != Round3 {
		return fmt.Errorf("steal window in %s: %w", s.Round, ErrWrongPhase)
	}
	if s.ActiveQuestion == nil || s.ActiveQuestion.Placeholder {
		return ErrNoActiveQuestion
	}
	if s.Round3Phase == PhaseStealWindow {
		return fmt.Errorf("steal window already open: %w", ErrWrongPhase)
	}
	end := now.Add(window)
	s.Round3Phase = PhaseStealWindow
	s.TimerEndTime = &end
	s.ActiveStealPlayerID = ""
	s.BuzzerLocked = false
	s.Message = "Steal window open!"
	s.clearBuzzes()
	return nil
}

func startMainAnswer(s *GameState, now time.Time, fallback time.Duration) error {
	if s.Round != Round3 {
		return fmt.Errorf("main answer in %s: %w", s.Round, ErrWrongPhase)
	}
	if s.Round3TurnPlayerID == "" {
		return ErrNotTurnPlayer
	}
	if s.ActiveQuestion == nil || s.ActiveQuestion.Placeholder {
		return ErrNoActiveQuestion
	}
	end := now.Add(AnswerDuration(s.ActiveQuestion.Difficulty, fallback))
	s.Round3Phase = PhaseMainAnswer
	s.TimerEndTime = &end
	s.BuzzerLocked = true
	return nil
}

func activateSteal(s *GameState, playerID string) error {
	if s.Round != Round3 || s.Round3Phase != PhaseStealWindow {
		return fmt.Errorf("activate steal: %w", ErrWrongPhase)
	}
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if playerID == s.Round3TurnPlayerID {
		return fmt.Errorf("turn player cannot steal: %w", ErrInvalidArgument)
	}
	if player.BuzzedAt == nil {
		return fmt.Errorf("%s has not buzzed: %w", player.Name, ErrInvalidArgument)
	}
	s.ActiveStealPlayerID = playerID
	s.BuzzerLocked = true
	s.TimerEndTime = nil
	s.Message = fmt.Sprintf("%s is stealing!", player.Name)
	return nil
}

// resolveSteal settles one steal attempt. A correct steal ends the turn; a
// wrong one penalizes only the stealer and reopens buzzing for the rest.
func resolveSteal(s *GameState, playerID string, correct bool, points int, now time.Time, window time.Duration) error {
	if s.Round != Round3 || s.Round3Phase != PhaseStealWindow {
		return fmt.Errorf("resolve steal: %w", ErrWrongPhase)
	}
	if s.ActiveQuestion == nil {
		return ErrNoActiveQuestion
	}
	player, err := s.player(playerID)
	if err != nil {
		return err
	}
	if playerID == s.Round3TurnPlayerID {
		return fmt.Errorf("turn player cannot steal: %w", ErrInvalidArgument)
	}
	// Only the activated stealer can be resolved, and only once.
	if s.ActiveStealPlayerID == "" || s.ActiveStealPlayerID != playerID {
		return fmt.Errorf("%s is not the active stealer: %w", player.Name, ErrWrongPhase)
	}
	points = abs(points)
	difficulty := s.ActiveQuestion.Difficulty
	if correct {
		if points == 0 {
			points = Reward(difficulty)
		}
		applyDelta(player, points)
		s.ActiveQuestion = nil
		s.Round3TurnPlayerID = ""
		s.ActiveStealPlayerID = ""
		s.StealAttemptedIDs = nil
		s.TimerEndTime = nil
		s.ShowAnswer = false
		s.Round3Phase = PhaseIdle
		s.BuzzerLocked = true
		s.Message = fmt.Sprintf("%s stole %d points!", player.Name, points)
		s.clearBuzzes()
		return nil
	}
	if points == 0 {
		points = Penalty(difficulty)
	}
	applyDelta(player, -points)
	if !s.stealAttempted(playerID) {
		s.StealAttemptedIDs = append(s.StealAttemptedIDs, playerID)
	}
	end := now.Add(window)
	s.ActiveStealPlayerID = ""
	s.TimerEndTime = &end
	s.BuzzerLocked = false
	s.Message = fmt.Sprintf("%s missed the steal!", player.Name)
	s.clearBuzzes()
	return nil
}

func toggleShowAnswer(s *GameState) error {
	s.ShowAnswer = !s.ShowAnswer
	return nil
}

func setViewingPlayer(s *GameState, playerID string) error {
	if playerID != "" {
		if _, err := s.player(playerID); err != nil {
			return err
		}
	}
	s.ViewingPlayerID = playerID
	return nil
}

func setRound3Mode(s *GameState, mode Round3Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("round 3 mode %q: %w", mode, ErrInvalidArgument)
	}
	s.Round3Mode = mode
	return nil
}

func setSelectionMode(s *GameState, mode SelectionMode) error {
	if !mode.Valid() {
		return fmt.Errorf("selection mode %q: %w", mode, ErrInvalidArgument)
	}
	s.Round3SelectionMode = mode
	return nil
}

func kickPlayer(s *GameState, playerID string) error {
	index := -1
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrPlayerNotFound
	}
	s.Players = append(s.Players[:index], s.Players[index+1:]...)
	if s.Round1TurnPlayerID == playerID {
		s.Round1TurnPlayerID = ""
	}
	if s.Round3TurnPlayerID == playerID {
		s.Round3TurnPlayerID = ""
		s.Round3Phase = PhaseIdle
		s.TimerEndTime = nil
	}
	if s.ActiveStealPlayerID == playerID {
		s.ActiveStealPlayerID = ""
	}
	if s.ViewingPlayerID == playerID {
		s.ViewingPlayerID = ""
	}
	return nil
}

func addPlayer(s *GameState, playerID, name string, now time.Time) (bool, error) {
	if _, ok := s.FindPlayer(playerID); ok {
		return false, nil
	}
	switch {
	case s.Round == RoundGameOver:
		return false, ErrGameOver
	case s.Round != RoundLobby:
		return false, ErrGameLocked
	}
	s.Players = append(s.Players, Player{
		ID:         playerID,
		Name:       name,
		Round3Pack: DefaultPack(),
		JoinedAt:   now,
	})
	return true, nil
}

const gameOverMessage = "CONGRATULATIONS!"

func endGame(s *GameState) error {
	if s.Round == RoundGameOver {
		return ErrGameOver
	}
	s.Round = RoundGameOver
	s.Message = gameOverMessage
	s.ActiveQuestion = nil
	s.TimerEndTime = nil
	s.Round2StartedAt = nil
	s.BuzzerLocked = true
	s.Round1TurnPlayerID = ""
	s.Round3TurnPlayerID = ""
	s.ActiveStealPlayerID = ""
	s.StealAttemptedIDs = nil
	s.Round3Phase = PhaseIdle
	s.clearBuzzes()
	return nil
}

// resetGame replaces the document with a fresh one that keeps the roster
// with zeroed progress.
func resetGame(s *GameState, now time.Time) error {
	fresh := NewGameState(s.RoomID, s.CreatedAt)
	fresh.UpdatedAt = now
	for _, player := range s.Players {
		fresh.Players = append(fresh.Players, Player{
			ID:         player.ID,
			Name:       player.Name,
			Round3Pack: DefaultPack(),
			JoinedAt:   player.JoinedAt,
		})
	}
	*s = *fresh
	return nil
}
