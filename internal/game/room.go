package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxRoomCodeLength = 32
	maxPlayerName     = 24
	defaultPlayerName = "Anonymous"
)

// NormalizeRoomCode trims and upper-cases a teacher-chosen room code.
// Letters, digits, '-' and '_' are accepted.
func NormalizeRoomCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" || len(normalized) > maxRoomCodeLength {
		return "", fmt.Errorf("%q: %w", code, ErrInvalidRoomCode)
	}
	for _, r := range normalized {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return "", fmt.Errorf("%q: %w", code, ErrInvalidRoomCode)
		}
	}
	return normalized, nil
}

// NormalizeName collapses whitespace and truncates to the display limit.
func NormalizeName(name string) string {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" {
		return defaultPlayerName
	}
	if utf8.RuneCountInString(normalized) > maxPlayerName {
		runes := []rune(normalized)
		normalized = strings.TrimSpace(string(runes[:maxPlayerName]))
	}
	return normalized
}
