package models

import "time"

type TournamentStatus string

const (
	StatusUpcoming   TournamentStatus = "upcoming"
	StatusInProgress TournamentStatus = "in-progress"
	StatusCompleted  TournamentStatus = "completed"
)

type TournamentType string

const (
	SingleElimination TournamentType = "single"
	DoubleElimination TournamentType = "double"
)

func (t TournamentType) Valid() bool {
	return t == SingleElimination || t == DoubleElimination
}

// Tournament is the aggregate root. Participants keeps registration order,
// not seeding order.
type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Type         TournamentType   `json:"type" db:"tournament_type"`
	Status       TournamentStatus `json:"status" db:"status"`
	Participants []int            `json:"participants" db:"-"`
	Matches      []Match          `json:"matches" db:"-"`
	// Losers bracket placeholders for double elimination. Never advanced.
	LosersMatches []Match `json:"losers_matches,omitempty" db:"-"`
	RoundsTotal   int     `json:"rounds_total" db:"rounds_total"`
	WinnerID      *int    `json:"winner_id,omitempty" db:"winner_id"`

	EventDate    time.Time `json:"event_date" db:"event_date"`
	TimeControl  string    `json:"time_control" db:"time_control"`
	AdminComment string    `json:"admin_comment" db:"admin_comment"`
	ArchiveKey   *string   `json:"-" db:"archive_key"`
	ArchiveURL   *string   `json:"archive_url,omitempty" db:"archive_url"`

	CreatedBy   int        `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Version     int        `json:"version" db:"version"`
}

func (t *Tournament) HasParticipant(userID int) bool {
	for _, id := range t.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// ClearBracket drops every match slot. Used whenever the roster changes.
func (t *Tournament) ClearBracket() {
	t.Matches = []Match{}
	t.LosersMatches = nil
	t.RoundsTotal = 0
}
