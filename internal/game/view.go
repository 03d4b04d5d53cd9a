package game

import (
	"sort"
	"strings"
)

type Role string

const (
	RoleTeacher   Role = "teacher"
	RoleStudent   Role = "student"
	RoleSpectator Role = "spectator"
)

func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleTeacher:
		return RoleTeacher
	case RoleSpectator:
		return RoleSpectator
	default:
		return RoleStudent
	}
}

// ViewFor returns the copy of state a role may see. Only the teacher sees
// the active answer before it is revealed.
func ViewFor(state *GameState, role Role) *GameState {
	view := state.Clone()
	if view == nil || role == RoleTeacher {
		return view
	}
	if view.ActiveQuestion != nil && !view.ShowAnswer {
		view.ActiveQuestion.Answer = ""
	}
	return view
}

type Standing struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// Leaderboard ranks players by score, ties sharing a rank and ordered by name.
func Leaderboard(state *GameState) []Standing {
	if state == nil {
		return nil
	}
	standings := make([]Standing, 0, len(state.Players))
	for _, player := range state.Players {
		standings = append(standings, Standing{
			PlayerID: player.ID,
			Name:     player.Name,
			Score:    player.Score,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return strings.ToLower(standings[i].Name) < strings.ToLower(standings[j].Name)
	})
	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}
