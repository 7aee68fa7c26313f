package brackets

import (
	"sort"

	"github.com/knightsclub/chessclub/models"
)

// SeedOrder returns a new slice sorted by resolved rating, highest first.
// Equal ratings keep their input order.
func SeedOrder(users []*models.User) []*models.User {
	seeded := make([]*models.User, len(users))
	copy(seeded, users)

	ratings := make(map[*models.User]int, len(seeded))
	for _, u := range seeded {
		ratings[u] = ResolveRating(u)
	}

	sort.SliceStable(seeded, func(i, j int) bool {
		return ratings[seeded[i]] > ratings[seeded[j]]
	})
	return seeded
}

// SeededIDs seeds the given users and returns only their ids.
func SeededIDs(users []*models.User) []int {
	seeded := SeedOrder(users)
	ids := make([]int, 0, len(seeded))
	for _, u := range seeded {
		if u != nil {
			ids = append(ids, u.ID)
		}
	}
	return ids
}
