package brackets

import (
	"fmt"
	"time"

	"github.com/knightsclub/chessclub/models"
)

type MatchResult struct {
	MatchID  string
	Score1   int
	Score2   int
	WinnerID int
}

// Advancement describes what a recorded result changed.
type Advancement struct {
	Match models.Match
	// Next is the successor match after the winner was placed, nil for the final.
	Next      *models.Match
	Started   bool
	Completed bool
}

// RecordResult writes a result into the tournament, advances the winner and
// moves the tournament through its statuses. On error t is unchanged.
func RecordResult(t *models.Tournament, res MatchResult, now time.Time) (*Advancement, error) {
	if res.Score1 == res.Score2 {
		return nil, fmt.Errorf("%w: %d-%d", ErrTiedScore, res.Score1, res.Score2)
	}

	idx := findMatch(t.Matches, res.MatchID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, res.MatchID)
	}
	m := &t.Matches[idx]
	if m.Completed {
		return nil, fmt.Errorf("%w: %s", ErrMatchAlreadyCompleted, m.ID)
	}

	expected := m.Player2
	if res.Score1 > res.Score2 {
		expected = m.Player1
	}
	if expected == nil || *expected != res.WinnerID {
		return nil, fmt.Errorf("%w: match %s, winner %d", ErrWinnerScoreMismatch, m.ID, res.WinnerID)
	}

	rounds := t.RoundsTotal
	if rounds == 0 {
		rounds = maxRound(t.Matches)
	}

	next := -1
	if m.Round < rounds {
		next = findSlot(t.Matches, m.Round+1, (m.MatchNumber+1)/2)
		if next < 0 {
			return nil, fmt.Errorf("%w: successor of %s", ErrMatchNotFound, m.ID)
		}
	}

	score1, score2, winner := res.Score1, res.Score2, res.WinnerID
	m.Score1, m.Score2, m.Winner = &score1, &score2, &winner
	m.Completed = true

	adv := &Advancement{}
	if t.Status == models.StatusUpcoming {
		t.Status = models.StatusInProgress
		t.StartedAt = &now
		adv.Started = true
	}

	if next >= 0 {
		w := winner
		if m.MatchNumber%2 == 1 {
			t.Matches[next].Player1 = &w
		} else {
			t.Matches[next].Player2 = &w
		}
		n := t.Matches[next]
		adv.Next = &n
	} else {
		status, err := NextStatus(t.Status)
		if err == nil {
			t.Status = status
		}
		w := winner
		t.WinnerID = &w
		t.CompletedAt = &now
		adv.Completed = true
	}

	adv.Match = *m
	return adv, nil
}

func findMatch(matches []models.Match, id string) int {
	for i := range matches {
		if matches[i].ID == id {
			return i
		}
	}
	return -1
}

func findSlot(matches []models.Match, round, number int) int {
	for i := range matches {
		if matches[i].Round == round && matches[i].MatchNumber == number {
			return i
		}
	}
	return -1
}

func maxRound(matches []models.Match) int {
	max := 0
	for _, m := range matches {
		if m.Round > max {
			max = m.Round
		}
	}
	return max
}
