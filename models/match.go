package models

import "fmt"

type BracketSide string

const (
	WinnersSide BracketSide = "winners"
	LosersSide  BracketSide = "losers"
)

// Match is a single bracket slot. ID is the deterministic bracket UID,
// unique within its tournament.
type Match struct {
	ID          string      `json:"id" db:"bracket_uid"`
	Side        BracketSide `json:"side" db:"bracket_side"`
	Round       int         `json:"round" db:"round"`
	MatchNumber int         `json:"match_number" db:"match_number"`
	Player1     *int        `json:"player1" db:"player1_id"`
	Player2     *int        `json:"player2" db:"player2_id"`
	Winner      *int        `json:"winner" db:"winner_id"`
	Score1      *int        `json:"score1" db:"score1"`
	Score2      *int        `json:"score2" db:"score2"`
	Completed   bool        `json:"completed" db:"completed"`
}

func MatchUID(side BracketSide, round, matchNumber int) string {
	if side == LosersSide {
		return fmt.Sprintf("LR%dM%d", round, matchNumber)
	}
	return fmt.Sprintf("R%dM%d", round, matchNumber)
}

// Players returns the ids occupying the two slots, skipping empty ones.
func (m *Match) Players() []int {
	ids := make([]int, 0, 2)
	if m.Player1 != nil {
		ids = append(ids, *m.Player1)
	}
	if m.Player2 != nil {
		ids = append(ids, *m.Player2)
	}
	return ids
}
