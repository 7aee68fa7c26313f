package brackets

import (
	"fmt"

	"github.com/knightsclub/chessclub/models"
)

// ValidateManualPairing checks an admin-supplied match list against the
// tournament's roster and returns the bracket to store on success. Only the
// round 1 matches of the submission are used; later rounds come back empty.
// The tournament itself is never modified.
func ValidateManualPairing(t *models.Tournament, submitted []models.Match) (*Bracket, error) {
	rounds, size, err := BracketShape(len(t.Participants))
	if err != nil {
		return nil, err
	}

	if len(submitted) != size-1 {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongMatchCount, size-1, len(submitted))
	}

	firstRound := make([]*models.Match, size/2)
	for i := range submitted {
		m := &submitted[i]
		if m.Round != 1 {
			continue
		}
		if m.MatchNumber < 1 || m.MatchNumber > size/2 || firstRound[m.MatchNumber-1] != nil {
			return nil, fmt.Errorf("%w: invalid first round match number %d", ErrWrongMatchCount, m.MatchNumber)
		}
		firstRound[m.MatchNumber-1] = m
	}
	for i, m := range firstRound {
		if m == nil {
			return nil, fmt.Errorf("%w: first round match %d missing", ErrWrongMatchCount, i+1)
		}
	}

	registered := make(map[int]bool, len(t.Participants))
	for _, id := range t.Participants {
		registered[id] = true
	}
	for _, m := range firstRound {
		for _, id := range m.Players() {
			if !registered[id] {
				return nil, fmt.Errorf("%w: %d", ErrUnknownParticipant, id)
			}
		}
	}

	seen := make(map[int]bool, len(t.Participants))
	for _, m := range firstRound {
		for _, id := range m.Players() {
			if seen[id] {
				return nil, fmt.Errorf("%w: %d", ErrDuplicateParticipant, id)
			}
			seen[id] = true
		}
	}

	if len(t.Participants) == size {
		for _, id := range t.Participants {
			if !seen[id] {
				return nil, fmt.Errorf("%w: participant %d is not paired", ErrIncompletePairing, id)
			}
		}
	}

	matches := make([]models.Match, 0, size-1)
	for i, m := range firstRound {
		slot := newMatch(models.WinnersSide, 1, i+1)
		slot.Player1 = copyID(m.Player1)
		slot.Player2 = copyID(m.Player2)
		matches = append(matches, slot)
	}
	matches = append(matches, emptyRounds(rounds, 2)...)

	b := &Bracket{Rounds: rounds, Winners: matches}
	if t.Type == models.DoubleElimination {
		b.Losers = losersPlaceholders(rounds)
	}
	return b, nil
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
