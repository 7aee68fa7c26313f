package brackets

import (
	"fmt"

	"github.com/knightsclub/chessclub/models"
)

// NextStatus returns the only status reachable from s.
func NextStatus(s models.TournamentStatus) (models.TournamentStatus, error) {
	switch s {
	case models.StatusUpcoming:
		return models.StatusInProgress, nil
	case models.StatusInProgress:
		return models.StatusCompleted, nil
	default:
		return s, fmt.Errorf("%w: no status after %q", ErrIllegalStateTransition, s)
	}
}

// CanModifyRoster reports whether participants may be added or removed.
func CanModifyRoster(t *models.Tournament) error {
	return requireUpcoming(t, "change participants")
}

// CanEditDetails reports whether name, type, date or roster may be edited.
func CanEditDetails(t *models.Tournament) error {
	return requireUpcoming(t, "edit tournament")
}

// CanRepair reports whether the bracket may be (re)generated.
func CanRepair(t *models.Tournament) error {
	return requireUpcoming(t, "generate pairings")
}

func requireUpcoming(t *models.Tournament, action string) error {
	if t.Status != models.StatusUpcoming {
		return fmt.Errorf("%w: cannot %s while tournament is %s", ErrIllegalStateTransition, action, t.Status)
	}
	return nil
}
