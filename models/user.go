package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ExternalRatings is the last snapshot pulled from chess.com for a user.
type ExternalRatings struct {
	Username   string     `json:"username,omitempty" db:"chesscom_username"`
	Rapid      *int       `json:"rapid,omitempty" db:"chesscom_rapid"`
	Blitz      *int       `json:"blitz,omitempty" db:"chesscom_blitz"`
	Bullet     *int       `json:"bullet,omitempty" db:"chesscom_bullet"`
	LastSynced *time.Time `json:"last_synced,omitempty" db:"chesscom_last_synced"`
}

type User struct {
	ID           int              `json:"id" db:"id"`
	FirstName    string           `json:"first_name" db:"first_name"`
	LastName     string           `json:"last_name" db:"last_name"`
	Email        string           `json:"email,omitempty" db:"email"`
	PasswordHash string           `json:"-" db:"password_hash"`
	Role         UserRole         `json:"role,omitempty" db:"role"`
	ManualRating *int             `json:"manual_rating,omitempty" db:"manual_rating"`
	ChessCom     *ExternalRatings `json:"chesscom,omitempty" db:"-"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

func (u *User) DisplayName() string {
	if u == nil {
		return "TBD"
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
