package web

type ScoreRow struct {
	Rank    int
	Name    string
	Score   int
	HasTurn bool
	Buzzed  bool
}

type ScoreboardData struct {
	RoomID   string
	Round    string
	Message  string
	Question string
	Code     string
	Answer   string
	Rows     []ScoreRow
	Final    bool
}
