package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knightsclub/chessclub/db"
	"github.com/knightsclub/chessclub/models"
)

// setupTestDB connects to TEST_DATABASE_URL and applies migrations.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := db.Connect(dsn, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

func createTestUsers(t *testing.T, conn *sql.DB, n int) []int {
	t.Helper()
	users := NewPostgresUserRepository(conn)
	ids := make([]int, n)
	for i := range ids {
		u := &models.User{
			FirstName:    fmt.Sprintf("Player%d", i),
			Email:        fmt.Sprintf("player%d-%d@example.com", i, time.Now().UnixNano()),
			PasswordHash: "x",
			Role:         models.RoleUser,
		}
		require.NoError(t, users.Create(context.Background(), u))
		ids[i] = u.ID
	}
	t.Cleanup(func() {
		conn.ExecContext(context.Background(), `DELETE FROM users WHERE id = ANY($1)`, pq.Array(ids))
	})
	return ids
}

func TestTournamentRepositorySaveAgainstPostgres(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresTournamentRepository(conn)
	ids := createTestUsers(t, conn, 2)

	tour := &models.Tournament{
		Name:         "Integration Open",
		Type:         models.SingleElimination,
		Status:       models.StatusUpcoming,
		Participants: ids,
		EventDate:    time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC),
		CreatedBy:    ids[0],
	}
	require.NoError(t, repo.Create(ctx, tour))
	t.Cleanup(func() { repo.Delete(context.Background(), tour.ID) })
	require.Equal(t, 1, tour.Version)

	stale := *tour

	t.Run("successful save bumps version", func(t *testing.T) {
		tour.Matches = []models.Match{{
			ID: "R1M1", Side: models.WinnersSide, Round: 1, MatchNumber: 1,
			Player1: &ids[0], Player2: &ids[1],
		}}
		tour.RoundsTotal = 1
		tour.Status = models.StatusInProgress
		require.NoError(t, repo.Save(ctx, tour))
		assert.Equal(t, 2, tour.Version)

		got, err := repo.GetByID(ctx, tour.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version)
		assert.Equal(t, ids, got.Participants)
		require.Len(t, got.Matches, 1)
		assert.Equal(t, "R1M1", got.Matches[0].ID)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale.AdminComment = "late write"
		err := repo.Save(ctx, &stale)
		assert.ErrorIs(t, err, ErrVersionConflict)
		assert.Equal(t, 1, stale.Version)

		got, err := repo.GetByID(ctx, tour.ID)
		require.NoError(t, err)
		assert.Empty(t, got.AdminComment)
	})

	t.Run("missing tournament", func(t *testing.T) {
		gone := *tour
		gone.ID = -1
		assert.ErrorIs(t, repo.Save(ctx, &gone), ErrTournamentNotFound)
	})

	t.Run("registered user cannot be deleted", func(t *testing.T) {
		_, err := conn.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, ids[1])
		var pqErr *pq.Error
		require.ErrorAs(t, err, &pqErr)
		assert.Equal(t, pq.ErrorCode("23503"), pqErr.Code)

		got, err := repo.GetByID(ctx, tour.ID)
		require.NoError(t, err)
		assert.Equal(t, ids, got.Participants)
	})
}
