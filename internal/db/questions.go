package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"coding-showdown/internal/game"

	"gorm.io/gorm"
)

var questionColumns = []string{"id", "round", "difficulty", "category", "points", "content", "answer", "options", "code"}

// LoadQuestionLibrary reads questions from a CSV and upserts them into the
// question_library table keyed by question id.
func LoadQuestionLibrary(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	records, err := ReadQuestions(file)
	if err != nil {
		return 0, err
	}
	return UpsertQuestions(conn, records)
}

func UpsertQuestions(conn *gorm.DB, records []Question) (int, error) {
	inserted := 0
	for _, record := range records {
		entry := record
		if err := conn.Where(Question{QuestionKey: entry.QuestionKey}).
			Assign(Question{
				Round:      entry.Round,
				Difficulty: entry.Difficulty,
				Category:   entry.Category,
				Points:     entry.Points,
				Content:    entry.Content,
				Answer:     entry.Answer,
				Options:    entry.Options,
				Code:       entry.Code,
			}).
			FirstOrCreate(&entry).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// ReadQuestions parses a question CSV. The header names the columns; id,
// round, difficulty and content are required. Options are '|' separated and
// literal newlines in code may be written as \n.
func ReadQuestions(r io.Reader) ([]Question, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "round", "difficulty", "content"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("question csv: missing %q column", required)
		}
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	seen := make(map[string]int)
	var records []Question
	for line, row := range rows[1:] {
		lineNo := line + 2
		key := field(row, "id")
		if key == "" {
			continue
		}
		if previous, ok := seen[key]; ok {
			return nil, fmt.Errorf("question csv line %d: duplicate id %q (first on line %d)", lineNo, key, previous)
		}
		seen[key] = lineNo
		round, err := parseRound(field(row, "round"))
		if err != nil {
			return nil, fmt.Errorf("question csv line %d: %w", lineNo, err)
		}
		difficulty := game.Difficulty(strings.ToUpper(field(row, "difficulty")))
		if !difficulty.Valid() {
			return nil, fmt.Errorf("question csv line %d: invalid difficulty %q", lineNo, field(row, "difficulty"))
		}
		points := 0
		if raw := field(row, "points"); raw != "" {
			points, err = strconv.Atoi(raw)
			if err != nil || points < 0 {
				return nil, fmt.Errorf("question csv line %d: invalid points %q", lineNo, raw)
			}
		}
		content := field(row, "content")
		if content == "" {
			return nil, fmt.Errorf("question csv line %d: content is required", lineNo)
		}
		var options []string
		if raw := field(row, "options"); raw != "" {
			for _, option := range strings.Split(raw, "|") {
				if option = strings.TrimSpace(option); option != "" {
					options = append(options, option)
				}
			}
		}
		records = append(records, Question{
			QuestionKey: key,
			Round:       round,
			Difficulty:  string(difficulty),
			Category:    strings.ToUpper(field(row, "category")),
			Points:      points,
			Content:     content,
			Answer:      field(row, "answer"),
			Options:     options,
			Code:        strings.ReplaceAll(field(row, "code"), `\n`, "\n"),
		})
	}
	return records, nil
}

func parseRound(raw string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "1", string(game.Round1):
		return 1, nil
	case "2", string(game.Round2):
		return 2, nil
	case "3", string(game.Round3):
		return 3, nil
	}
	return 0, fmt.Errorf("invalid round %q", raw)
}

// QuestionBank merges the question library into base. Ids that collide with
// the base catalog are rejected.
func QuestionBank(conn *gorm.DB, base *game.Bank) (*game.Bank, int, error) {
	if conn == nil {
		return base, 0, nil
	}
	var rows []Question
	if err := conn.Order("id asc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	byRound := make(map[game.Round][]game.Question, 3)
	for _, row := range rows {
		round := roundOf(row.Round)
		byRound[round] = append(byRound[round], game.Question{
			ID:         row.QuestionKey,
			Content:    row.Content,
			Answer:     row.Answer,
			Options:    []string(row.Options),
			Code:       row.Code,
			Difficulty: game.Difficulty(row.Difficulty),
			Category:   row.Category,
			Points:     row.Points,
		})
	}
	bank := base
	for _, round := range []game.Round{game.Round1, game.Round2, game.Round3} {
		if len(byRound[round]) == 0 {
			continue
		}
		merged, err := bank.Merge(round, byRound[round])
		if err != nil {
			return nil, 0, err
		}
		bank = merged
	}
	return bank, len(rows), nil
}

func roundOf(n int) game.Round {
	switch n {
	case 1:
		return game.Round1
	case 2:
		return game.Round2
	default:
		return game.Round3
	}
}
