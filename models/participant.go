package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidParticipantRef = errors.New("participant reference must be an id or an object with an id")

// ParticipantRef holds a participant either as a bare id or as a hydrated
// user record. Use ID to read it regardless of which variant is set.
type ParticipantRef struct {
	id   int
	user *User
}

func RefByID(id int) ParticipantRef {
	return ParticipantRef{id: id}
}

func RefByUser(u *User) ParticipantRef {
	if u == nil {
		return ParticipantRef{}
	}
	return ParticipantRef{id: u.ID, user: u}
}

func (r ParticipantRef) ID() int {
	if r.user != nil {
		return r.user.ID
	}
	return r.id
}

func (r ParticipantRef) User() (*User, bool) {
	return r.user, r.user != nil
}

// IDPtr converts an optional reference to the *int form stored on matches.
func IDPtr(r *ParticipantRef) *int {
	if r == nil || r.ID() == 0 {
		return nil
	}
	id := r.ID()
	return &id
}

func (r ParticipantRef) MarshalJSON() ([]byte, error) {
	if r.user != nil {
		return json.Marshal(struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}{ID: r.user.ID, Name: r.user.DisplayName()})
	}
	return json.Marshal(r.id)
}

func (r *ParticipantRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidParticipantRef
	}

	switch data[0] {
	case '{':
		var obj struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParticipantRef, err)
		}
		if obj.ID == nil {
			return ErrInvalidParticipantRef
		}
		return r.UnmarshalJSON(obj.ID)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParticipantRef, err)
		}
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidParticipantRef, s)
		}
		*r = RefByID(id)
		return nil
	default:
		var id int
		if err := json.Unmarshal(data, &id); err != nil || id <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidParticipantRef, string(data))
		}
		*r = RefByID(id)
		return nil
	}
}
