package brackets

import (
	"github.com/knightsclub/chessclub/models"
)

// DoubleEliminationGenerator builds the winners bracket exactly like single
// elimination and allocates a losers bracket of placeholders. The losers
// bracket is not fed by RecordResult.
type DoubleEliminationGenerator struct {
	winners SingleEliminationGenerator
}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GenerateBracket(seeded []int) (*Bracket, error) {
	b, err := g.winners.GenerateBracket(seeded)
	if err != nil {
		return nil, err
	}
	b.Losers = losersPlaceholders(b.Rounds)
	return b, nil
}

// losersPlaceholders has rounds-1 rounds, halving from 2^(rounds-2) matches.
func losersPlaceholders(rounds int) []models.Match {
	var matches []models.Match
	for r := 1; r < rounds; r++ {
		for i := 1; i <= 1<<uint(rounds-r-1); i++ {
			matches = append(matches, newMatch(models.LosersSide, r, i))
		}
	}
	return matches
}
