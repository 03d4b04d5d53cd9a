package game

import (
	"fmt"
	"strings"
)

// Bank holds the immutable question pools for each playable round.
type Bank struct {
	pools map[Round][]Question
	byID  map[string]Question
}

func NewBank(round1, round2, round3 []Question) (*Bank, error) {
	bank := &Bank{
		pools: make(map[Round][]Question, 3),
		byID:  make(map[string]Question),
	}
	for _, pool := range []struct {
		round     Round
		questions []Question
	}{
		{Round1, round1},
		{Round2, round2},
		{Round3, round3},
	} {
		if err := bank.add(pool.round, pool.questions); err != nil {
			return nil, err
		}
	}
	return bank, nil
}

func (b *Bank) add(round Round, questions []Question) error {
	for _, question := range questions {
		if err := validateQuestion(question); err != nil {
			return err
		}
		if _, exists := b.byID[question.ID]; exists {
			return fmt.Errorf("duplicate question id %q", question.ID)
		}
		stored := *question.clone()
		b.byID[question.ID] = stored
		b.pools[round] = append(b.pools[round], stored)
	}
	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question id is required: %w", ErrInvalidArgument)
	}
	if strings.TrimSpace(q.Content) == "" {
		return fmt.Errorf("question %s: content is required: %w", q.ID, ErrInvalidArgument)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("question %s: invalid difficulty %q: %w", q.ID, q.Difficulty, ErrInvalidArgument)
	}
	if q.Points < 0 {
		return fmt.Errorf("question %s: points must not be negative: %w", q.ID, ErrInvalidArgument)
	}
	return nil
}

// Merge returns a new bank with the extra questions appended to the pool
// of the given round. Duplicate ids are rejected.
func (b *Bank) Merge(round Round, questions []Question) (*Bank, error) {
	if round != Round1 && round != Round2 && round != Round3 {
		return nil, fmt.Errorf("merge into %s: %w", round, ErrInvalidArgument)
	}
	merged := &Bank{
		pools: make(map[Round][]Question, len(b.pools)),
		byID:  make(map[string]Question, len(b.byID)+len(questions)),
	}
	for r, pool := range b.pools {
		merged.pools[r] = append([]Question(nil), pool...)
	}
	for id, question := range b.byID {
		merged.byID[id] = question
	}
	if err := merged.add(round, questions); err != nil {
		return nil, err
	}
	return merged, nil
}

// Pool returns the questions of a round in catalog order.
func (b *Bank) Pool(round Round) []Question {
	return b.pools[round]
}

func (b *Bank) Question(id string) (Question, bool) {
	question, ok := b.byID[id]
	return question, ok
}

func (b *Bank) Len() int {
	return len(b.byID)
}

type Filter struct {
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Category   string     `json:"category,omitempty"`
}

func (f Filter) Match(q Question) bool {
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.Category != "" && !strings.EqualFold(q.Category, f.Category) {
		return false
	}
	return true
}

// FilterAvailable returns the questions of pool that satisfy match and are
// not listed in used. An empty result is not an error.
func FilterAvailable(pool []Question, match func(Question) bool, used []string) []Question {
	seen := make(map[string]struct{}, len(used))
	for _, id := range used {
		seen[id] = struct{}{}
	}
	available := make([]Question, 0, len(pool))
	for _, question := range pool {
		if _, ok := seen[question.ID]; ok {
			continue
		}
		if match != nil && !match(question) {
			continue
		}
		available = append(available, question)
	}
	return available
}

// selectQuestion picks from the available questions by policy. pick returns
// a uniform index in [0, n).
func selectQuestion(available []Question, mode SelectionMode, pick func(n int) int) (Question, bool) {
	if len(available) == 0 {
		return Question{}, false
	}
	if mode == SelectSequential || pick == nil {
		return available[0], true
	}
	return available[pick(len(available))], true
}

func exhaustedQuestion(id string, filter Filter) *Question {
	label := "matching"
	if filter.Difficulty != "" {
		label = string(filter.Difficulty)
	}
	if filter.Category != "" {
		label = strings.TrimSpace(label + " " + strings.ToUpper(filter.Category))
	}
	return &Question{
		ID:          id,
		Content:     fmt.Sprintf("No %s questions remaining!", label),
		Difficulty:  filter.Difficulty,
		Category:    filter.Category,
		Points:      0,
		Placeholder: true,
	}
}
