package services

import "github.com/knightsclub/chessclub/models"

// TournamentView is a tournament with participant and match slots resolved
// to user records where they exist.
type TournamentView struct {
	models.Tournament
	Participants  []models.ParticipantRef `json:"participants"`
	Matches       []MatchView             `json:"matches"`
	LosersMatches []MatchView             `json:"losers_matches,omitempty"`
	Winner        *models.ParticipantRef  `json:"winner,omitempty"`
}

type MatchView struct {
	models.Match
	Player1 *models.ParticipantRef `json:"player1"`
	Player2 *models.ParticipantRef `json:"player2"`
	Winner  *models.ParticipantRef `json:"winner"`
}

func NewTournamentView(t *models.Tournament, users []*models.User) *TournamentView {
	byID := make(map[int]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ref := func(id *int) *models.ParticipantRef {
		if id == nil {
			return nil
		}
		r := models.RefByID(*id)
		if u, ok := byID[*id]; ok {
			r = models.RefByUser(u)
		}
		return &r
	}

	v := &TournamentView{
		Tournament:   *t,
		Participants: make([]models.ParticipantRef, 0, len(t.Participants)),
		Matches:      make([]MatchView, 0, len(t.Matches)),
		Winner:       ref(t.WinnerID),
	}
	for i := range t.Participants {
		v.Participants = append(v.Participants, *ref(&t.Participants[i]))
	}
	for _, m := range t.Matches {
		v.Matches = append(v.Matches, MatchView{Match: m, Player1: ref(m.Player1), Player2: ref(m.Player2), Winner: ref(m.Winner)})
	}
	for _, m := range t.LosersMatches {
		v.LosersMatches = append(v.LosersMatches, MatchView{Match: m, Player1: ref(m.Player1), Player2: ref(m.Player2), Winner: ref(m.Winner)})
	}
	return v
}

func referencedUsers(t *models.Tournament) []int {
	seen := make(map[int]bool)
	ids := make([]int, 0, len(t.Participants))
	add := func(id *int) {
		if id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	for i := range t.Participants {
		add(&t.Participants[i])
	}
	for _, m := range t.Matches {
		add(m.Player1)
		add(m.Player2)
	}
	add(t.WinnerID)
	return ids
}
