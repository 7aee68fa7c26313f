package brackets

import (
	"fmt"

	"github.com/knightsclub/chessclub/models"
)

// Bracket is the full set of match slots produced for a tournament.
type Bracket struct {
	Rounds  int
	Winners []models.Match
	Losers  []models.Match
}

// Apply replaces the tournament's match lists with the bracket.
func (b *Bracket) Apply(t *models.Tournament) {
	t.Matches = b.Winners
	t.LosersMatches = b.Losers
	t.RoundsTotal = b.Rounds
}

type BracketGenerator interface {
	// GenerateBracket expects ids already in seeding order and never re-sorts them.
	GenerateBracket(seeded []int) (*Bracket, error)

	GetName() string
}

func GeneratorFor(t models.TournamentType) (BracketGenerator, error) {
	switch t {
	case models.SingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.DoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}
}

// BuildBracket builds the bracket for seeded participant ids.
func BuildBracket(seeded []int, t models.TournamentType) (*Bracket, error) {
	gen, err := GeneratorFor(t)
	if err != nil {
		return nil, err
	}
	return gen.GenerateBracket(seeded)
}

// BracketShape returns the round count and bracket size for n participants.
// Only full brackets are supported, so n must be a power of two.
func BracketShape(n int) (rounds, size int, err error) {
	if n < 2 || n&(n-1) != 0 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrInvalidBracketSize, n)
	}
	size = 1
	for size < n {
		size <<= 1
		rounds++
	}
	return rounds, size, nil
}

// MatchesInRound is the number of matches in round r of a bracket with the
// given number of rounds.
func MatchesInRound(rounds, r int) int {
	if r < 1 || r > rounds {
		return 0
	}
	return 1 << uint(rounds-r)
}

func newMatch(side models.BracketSide, round, number int) models.Match {
	return models.Match{
		ID:          models.MatchUID(side, round, number),
		Side:        side,
		Round:       round,
		MatchNumber: number,
	}
}

// emptyRounds creates rounds from..to of the winners bracket with empty slots.
func emptyRounds(rounds, from int) []models.Match {
	var matches []models.Match
	for r := from; r <= rounds; r++ {
		for i := 1; i <= MatchesInRound(rounds, r); i++ {
			matches = append(matches, newMatch(models.WinnersSide, r, i))
		}
	}
	return matches
}
