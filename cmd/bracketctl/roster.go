package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/knightsclub/chessclub/models"
)

type rosterEntry struct {
	ID           int    `yaml:"id"`
	Name         string `yaml:"name"`
	ManualRating *int   `yaml:"manual_rating,omitempty"`
	Rapid        *int   `yaml:"rapid,omitempty"`
	Blitz        *int   `yaml:"blitz,omitempty"`
	Bullet       *int   `yaml:"bullet,omitempty"`
}

func (e rosterEntry) user() *models.User {
	first, last, _ := strings.Cut(strings.TrimSpace(e.Name), " ")
	u := &models.User{
		ID:           e.ID,
		FirstName:    first,
		LastName:     strings.TrimSpace(last),
		ManualRating: e.ManualRating,
	}
	if e.Rapid != nil || e.Blitz != nil || e.Bullet != nil {
		u.ChessCom = &models.ExternalRatings{Rapid: e.Rapid, Blitz: e.Blitz, Bullet: e.Bullet}
	}
	return u
}

// readRoster decodes a YAML list of players. Ids must be positive and unique.
func readRoster(r io.Reader) ([]*models.User, error) {
	var entries []rosterEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("roster is empty")
		}
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	seen := make(map[int]bool, len(entries))
	users := make([]*models.User, 0, len(entries))
	for i, e := range entries {
		if e.ID <= 0 {
			return nil, fmt.Errorf("roster entry %d: id must be positive", i+1)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("roster entry %d: duplicate id %d", i+1, e.ID)
		}
		seen[e.ID] = true
		users = append(users, e.user())
	}
	return users, nil
}
