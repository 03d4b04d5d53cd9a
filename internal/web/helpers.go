package web

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func esc(value string) string {
	return templ.EscapeString(value)
}

func roundLabel(round string) string {
	switch round {
	case "LOBBY":
		return "Lobby"
	case "ROUND_1":
		return "Round 1 · Reflex"
	case "ROUND_2":
		return "Round 2 · Obstacle"
	case "ROUND_3":
		return "Round 3 · Tactical Finish"
	case "GAME_OVER":
		return "Game Over"
	}
	return strings.ReplaceAll(round, "_", " ")
}
