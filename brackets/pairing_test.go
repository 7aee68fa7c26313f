package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knightsclub/chessclub/models"
)

func pairing(pairs ...[2]int) []models.Match {
	matches := make([]models.Match, 0, len(pairs)*2)
	for i, p := range pairs {
		matches = append(matches, models.Match{
			Round:       1,
			MatchNumber: i + 1,
			Player1:     intPtr(p[0]),
			Player2:     intPtr(p[1]),
		})
	}
	// later rounds as a client would send them
	rounds, _, _ := BracketShape(len(pairs) * 2)
	matches = append(matches, emptyRounds(rounds, 2)...)
	return matches
}

func upcomingTournament(participants ...int) *models.Tournament {
	return &models.Tournament{
		ID:           1,
		Type:         models.SingleElimination,
		Status:       models.StatusUpcoming,
		Participants: participants,
		Matches:      []models.Match{},
	}
}

func TestValidateManualPairing(t *testing.T) {
	tour := upcomingTournament(1, 2, 3, 4)

	testCases := []struct {
		name      string
		tour      *models.Tournament
		submitted []models.Match
		wantErr   error
	}{
		{
			name:      "valid",
			tour:      tour,
			submitted: pairing([2]int{1, 4}, [2]int{2, 3}),
		},
		{
			name:      "non power of two roster",
			tour:      upcomingTournament(1, 2, 3),
			submitted: pairing([2]int{1, 2}, [2]int{3, 4}),
			wantErr:   ErrInvalidBracketSize,
		},
		{
			name:      "too few matches",
			tour:      tour,
			submitted: pairing([2]int{1, 4}, [2]int{2, 3})[:2],
			wantErr:   ErrWrongMatchCount,
		},
		{
			name: "first round numbers wrong",
			tour: tour,
			submitted: []models.Match{
				{Round: 1, MatchNumber: 1, Player1: intPtr(1), Player2: intPtr(2)},
				{Round: 1, MatchNumber: 1, Player1: intPtr(3), Player2: intPtr(4)},
				{Round: 2, MatchNumber: 1},
			},
			wantErr: ErrWrongMatchCount,
		},
		{
			name:      "unknown participant",
			tour:      tour,
			submitted: pairing([2]int{1, 9}, [2]int{2, 3}),
			wantErr:   ErrUnknownParticipant,
		},
		{
			name:      "duplicate participant",
			tour:      tour,
			submitted: pairing([2]int{1, 2}, [2]int{2, 3}),
			wantErr:   ErrDuplicateParticipant,
		},
		{
			name: "incomplete pairing",
			tour: tour,
			submitted: []models.Match{
				{Round: 1, MatchNumber: 1, Player1: intPtr(1), Player2: intPtr(2)},
				{Round: 1, MatchNumber: 2, Player1: intPtr(3)},
				{Round: 2, MatchNumber: 1},
			},
			wantErr: ErrIncompletePairing,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ValidateManualPairing(tc.tour, tc.submitted)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, b.Rounds)
			require.Len(t, b.Winners, 3)
			assert.Equal(t, 1, *b.Winners[0].Player1)
			assert.Equal(t, 4, *b.Winners[0].Player2)
			assert.Equal(t, "R2M1", b.Winners[2].ID)
		})
	}
}

func TestValidateManualPairingLeavesTournamentUntouched(t *testing.T) {
	tour := upcomingTournament(1, 2, 3, 4)
	existing, err := BuildBracket([]int{1, 2, 3, 4}, models.SingleElimination)
	require.NoError(t, err)
	existing.Apply(tour)
	before := append([]models.Match(nil), tour.Matches...)

	_, err = ValidateManualPairing(tour, pairing([2]int{1, 2}, [2]int{1, 3}))
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
	assert.Equal(t, before, tour.Matches)
}

func TestValidateManualPairingResetsLaterRounds(t *testing.T) {
	tour := upcomingTournament(1, 2, 3, 4)
	tour.Type = models.DoubleElimination
	submitted := pairing([2]int{1, 2}, [2]int{3, 4})
	submitted[0].Winner = intPtr(1)
	submitted[0].Completed = true
	submitted[2].Player1 = intPtr(1)

	b, err := ValidateManualPairing(tour, submitted)
	require.NoError(t, err)
	assert.False(t, b.Winners[0].Completed)
	assert.Nil(t, b.Winners[0].Winner)
	assert.Nil(t, b.Winners[2].Player1)
	assert.Len(t, b.Losers, 1)
}
