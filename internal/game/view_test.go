package game

import (
	"testing"
	"time"
)

func TestViewForHidesAnswerUntilShown(t *testing.T) {
	state := NewGameState("VIEW", time.Now())
	state.ActiveQuestion = &Question{ID: "q", Content: "c", Answer: "42", Difficulty: Easy}

	if got := ViewFor(state, RoleStudent).ActiveQuestion.Answer; got != "" {
		t.Fatalf("expected hidden answer for student, got %q", got)
	}
	if got := ViewFor(state, RoleSpectator).ActiveQuestion.Answer; got != "" {
		t.Fatalf("expected hidden answer for spectator, got %q", got)
	}
	if got := ViewFor(state, RoleTeacher).ActiveQuestion.Answer; got != "42" {
		t.Fatalf("expected teacher to see answer, got %q", got)
	}
	if state.ActiveQuestion.Answer != "42" {
		t.Fatalf("view must not modify the source state")
	}
	state.ShowAnswer = true
	if got := ViewFor(state, RoleStudent).ActiveQuestion.Answer; got != "42" {
		t.Fatalf("expected revealed answer, got %q", got)
	}
}

func TestParseRoleDefaultsToStudent(t *testing.T) {
	cases := map[string]Role{
		"teacher":   RoleTeacher,
		" Teacher ": RoleTeacher,
		"spectator": RoleSpectator,
		"":          RoleStudent,
		"admin":     RoleStudent,
	}
	for input, want := range cases {
		if got := ParseRole(input); got != want {
			t.Fatalf("ParseRole(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestLeaderboardRanksTies(t *testing.T) {
	state := NewGameState("RANK", time.Now())
	state.Players = []Player{
		{ID: "1", Name: "cy", Score: 10},
		{ID: "2", Name: "Bob", Score: 30},
		{ID: "3", Name: "ada", Score: 10},
		{ID: "4", Name: "Dee", Score: 0},
	}
	standings := Leaderboard(state)
	wantOrder := []string{"2", "3", "1", "4"}
	wantRank := []int{1, 2, 2, 4}
	for i, standing := range standings {
		if standing.PlayerID != wantOrder[i] || standing.Rank != wantRank[i] {
			t.Fatalf("position %d: got %+v", i, standing)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	state := NewGameState("CLONE", now)
	state.Players = append(state.Players, Player{ID: "p", BuzzedAt: &now, Round3Pack: DefaultPack()})
	state.ActiveQuestion = &Question{ID: "q", Options: []string{"a", "b"}}
	state.UsedQuestionIDs = append(state.UsedQuestionIDs, "q")

	clone := state.Clone()
	clone.Players[0].Round3Pack[0].Status = StatusCorrect
	*clone.Players[0].BuzzedAt = now.Add(time.Hour)
	clone.ActiveQuestion.Options[0] = "z"
	clone.UsedQuestionIDs[0] = "other"

	if state.Players[0].Round3Pack[0].Status != StatusPending ||
		!state.Players[0].BuzzedAt.Equal(now) ||
		state.ActiveQuestion.Options[0] != "a" ||
		state.UsedQuestionIDs[0] != "q" {
		t.Fatalf("clone shares memory with source")
	}
}

func TestSetRoundClearsTransientState(t *testing.T) {
	now := time.Now()
	state := NewGameState("ROUND", now)
	state.Players = []Player{{ID: "p", BuzzedAt: &now}}
	state.ActiveQuestion = &Question{ID: "q"}
	state.TimerEndTime = &now
	state.ShowAnswer = true
	state.ViewingPlayerID = "p"
	state.Round1TurnPlayerID = "p"
	state.Round3TurnPlayerID = "p"
	state.Round3Phase = PhaseStealWindow
	state.Round3Mode = ModeQuiz
	state.UsedQuestionIDs = []string{"q"}

	if err := setRound(state, Round2); err != nil {
		t.Fatalf("set round: %v", err)
	}
	if state.ActiveQuestion != nil || state.TimerEndTime != nil || state.ShowAnswer || state.ViewingPlayerID != "" {
		t.Fatalf("expected display state cleared")
	}
	if state.Round1TurnPlayerID != "" || state.Round3TurnPlayerID != "" || state.Players[0].BuzzedAt != nil {
		t.Fatalf("expected turn and buzz state cleared")
	}
	if state.Round3Phase != PhaseIdle || state.Round3Mode != ModeOral {
		t.Fatalf("expected round 3 sub-state reset")
	}
	if len(state.UsedQuestionIDs) != 1 {
		t.Fatalf("used question ids must survive round changes")
	}
	if err := setRound(state, Round("ROUND_9")); err == nil {
		t.Fatalf("expected invalid round error")
	}
}

func TestNormalizeRoomCodeAndName(t *testing.T) {
	code, err := NormalizeRoomCode(" class-14 ")
	if err != nil || code != "CLASS-14" {
		t.Fatalf("expected CLASS-14, got %q err=%v", code, err)
	}
	if got := NormalizeName("  Ada   Lovelace  "); got != "Ada Lovelace" {
		t.Fatalf("expected collapsed name, got %q", got)
	}
	if got := NormalizeName("abcdefghijklmnopqrstuvwxyz"); len(got) != 24 {
		t.Fatalf("expected truncated name, got %q", got)
	}
}

func TestArchiveIDReplacesSeparators(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 600_000_000, time.UTC)
	if got := ArchiveID("ROOM", at); got != "ROOM_2026-01-02T03-04-05-600Z" {
		t.Fatalf("unexpected archive id %s", got)
	}
}
