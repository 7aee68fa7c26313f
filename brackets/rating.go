package brackets

import "github.com/knightsclub/chessclub/models"

// ResolveRating picks the single rating used for seeding:
// manual, then chess.com rapid, blitz, bullet. Unrated users get 0.
func ResolveRating(u *models.User) int {
	if u == nil {
		return 0
	}
	if positive(u.ManualRating) {
		return *u.ManualRating
	}
	if ext := u.ChessCom; ext != nil {
		for _, r := range []*int{ext.Rapid, ext.Blitz, ext.Bullet} {
			if positive(r) {
				return *r
			}
		}
	}
	return 0
}

func positive(v *int) bool {
	return v != nil && *v > 0
}
