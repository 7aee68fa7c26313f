package brackets

import (
	"github.com/knightsclub/chessclub/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket pairs rank-adjacent seeds in round 1 (1 vs 2, 3 vs 4, ...)
// and leaves every later slot empty until a winner is advanced into it.
// Match m of round r feeds match ceil(m/2) of round r+1.
func (g *SingleEliminationGenerator) GenerateBracket(seeded []int) (*Bracket, error) {
	rounds, size, err := BracketShape(len(seeded))
	if err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, size-1)
	for i := 1; i <= size/2; i++ {
		m := newMatch(models.WinnersSide, 1, i)
		p1, p2 := seeded[2*i-2], seeded[2*i-1]
		m.Player1 = &p1
		m.Player2 = &p2
		matches = append(matches, m)
	}
	matches = append(matches, emptyRounds(rounds, 2)...)

	return &Bracket{Rounds: rounds, Winners: matches}, nil
}
