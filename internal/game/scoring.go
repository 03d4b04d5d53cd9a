package game

import "time"

type scale struct {
	reward  int
	penalty int
	timer   time.Duration
}

var scales = map[Difficulty]scale{
	Easy:   {reward: 20, penalty: 10, timer: 20 * time.Second},
	Medium: {reward: 30, penalty: 15, timer: 60 * time.Second},
	Hard:   {reward: 40, penalty: 20, timer: 120 * time.Second},
}

const defaultRound2Timer = 25 * time.Second

// Reward is the Round 3 points for a correct answer at a difficulty.
func Reward(d Difficulty) int {
	return scales[d].reward
}

// Penalty is the Round 3 deduction for a wrong answer at a difficulty.
func Penalty(d Difficulty) int {
	return scales[d].penalty
}

// AnswerDuration is the main answer countdown for a difficulty. Unknown
// difficulties get fallback.
func AnswerDuration(d Difficulty, fallback time.Duration) time.Duration {
	if s, ok := scales[d]; ok {
		return s.timer
	}
	return fallback
}

// applyDelta adds delta to the player's score clamped at zero and returns
// the change actually applied.
func applyDelta(player *Player, delta int) int {
	before := player.Score
	after := before + delta
	if after < 0 {
		after = 0
	}
	player.Score = after
	return after - before
}

// gradeDelta is the signed delta a grading status carries. A custom
// magnitude overrides the scale; its sign follows the status.
func gradeDelta(status ItemStatus, difficulty Difficulty, custom *int) int {
	switch status {
	case StatusCorrect:
		if custom != nil {
			return abs(*custom)
		}
		return Reward(difficulty)
	case StatusWrong:
		if custom != nil {
			return -abs(*custom)
		}
		return -Penalty(difficulty)
	default:
		return 0
	}
}

// regrade sets the slot's status, reversing the previously applied delta
// before applying the new one so only the final grading counts.
func regrade(player *Player, index int, status ItemStatus, delta int) {
	item := &player.Round3Pack[index]
	base := player.Score - item.AppliedDelta
	if base < 0 {
		base = 0
	}
	player.Score = base
	item.AppliedDelta = applyDelta(player, delta)
	item.Status = status
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
