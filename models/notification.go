package models

import "time"

type NotificationType string

const (
	NotificationTournamentCreated   NotificationType = "tournament_created"
	NotificationTournamentUpdated   NotificationType = "tournament_updated"
	NotificationPairingGenerated    NotificationType = "pairing_generated"
	NotificationTournamentStarted   NotificationType = "tournament_started"
	NotificationMatchResult         NotificationType = "match_result"
	NotificationTournamentCompleted NotificationType = "tournament_completed"
)

type Notification struct {
	ID           int              `json:"id" db:"id"`
	UserID       int              `json:"user_id" db:"user_id"`
	Type         NotificationType `json:"type" db:"type"`
	Title        string           `json:"title" db:"title"`
	Message      string           `json:"message" db:"message"`
	Link         *string          `json:"link,omitempty" db:"link"`
	TournamentID *int             `json:"tournament_id,omitempty" db:"tournament_id"`
	Read         bool             `json:"read" db:"read"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}
