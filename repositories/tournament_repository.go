package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/knightsclub/chessclub/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrVersionConflict          = errors.New("tournament was modified concurrently")
	ErrTournamentInvalidUser    = errors.New("invalid user reference")
	ErrTournamentDuplicateEntry = errors.New("duplicate participant or match")
)

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

// TournamentRepository persists the tournament aggregate: the tournament row
// together with its participants and match slots.
type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	// Save replaces the stored aggregate if its version still equals
	// tournament.Version and bumps the version on success.
	Save(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `
	t.id, t.name, t.tournament_type, t.status, t.event_date, t.time_control, t.admin_comment,
	t.rounds_total, t.winner_id, t.archive_key, t.archive_url, t.created_by, t.created_at,
	t.started_at, t.completed_at, t.version,
	ARRAY(SELECT p.user_id FROM tournament_participants p WHERE p.tournament_id = t.id ORDER BY p.position)`

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t            models.Tournament
		createdBy    sql.NullInt64
		participants pq.Int64Array
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Type, &t.Status, &t.EventDate, &t.TimeControl, &t.AdminComment,
		&t.RoundsTotal, &t.WinnerID, &t.ArchiveKey, &t.ArchiveURL, &createdBy, &t.CreatedAt,
		&t.StartedAt, &t.CompletedAt, &t.Version,
		&participants,
	)
	if err != nil {
		return nil, err
	}
	t.CreatedBy = int(createdBy.Int64)
	t.Participants = toInts(participants)
	return &t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO tournaments (
				name, tournament_type, status, event_date, time_control, admin_comment,
				rounds_total, created_by, version
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
			RETURNING id, created_at, version`

		err := tx.QueryRowContext(ctx, query,
			t.Name, t.Type, t.Status, t.EventDate, t.TimeControl, t.AdminComment,
			t.RoundsTotal, nullableID(t.CreatedBy),
		).Scan(&t.ID, &t.CreatedAt, &t.Version)
		if err != nil {
			return r.handleTournamentError(err)
		}

		if err := r.replaceParticipants(ctx, tx, t); err != nil {
			return err
		}
		return r.replaceMatches(ctx, tx, t)
	})
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments t WHERE t.id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	if err := r.loadMatches(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments t WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY t.event_date DESC, t.id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tournaments, nil
}

func (r *postgresTournamentRepository) Save(ctx context.Context, t *models.Tournament) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			UPDATE tournaments SET
				name = $1,
				tournament_type = $2,
				status = $3,
				event_date = $4,
				time_control = $5,
				admin_comment = $6,
				rounds_total = $7,
				winner_id = $8,
				archive_key = $9,
				archive_url = $10,
				started_at = $11,
				completed_at = $12,
				version = version + 1
			WHERE id = $13 AND version = $14`

		result, err := tx.ExecContext(ctx, query,
			t.Name, t.Type, t.Status, t.EventDate, t.TimeControl, t.AdminComment,
			t.RoundsTotal, t.WinnerID, t.ArchiveKey, t.ArchiveURL, t.StartedAt, t.CompletedAt,
			t.ID, t.Version,
		)
		if err != nil {
			return r.handleTournamentError(err)
		}
		if err := checkAffectedRows(result, ErrVersionConflict); err != nil {
			if errors.Is(err, ErrVersionConflict) && !r.exists(ctx, tx, t.ID) {
				return ErrTournamentNotFound
			}
			return err
		}

		if err := r.replaceParticipants(ctx, tx, t); err != nil {
			return err
		}
		return r.replaceMatches(ctx, tx, t)
	})
	if err != nil {
		return err
	}

	t.Version++
	return nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) exists(ctx context.Context, exec SQLExecutor, id int) bool {
	var found bool
	err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, id).Scan(&found)
	return err == nil && found
}

func (r *postgresTournamentRepository) replaceParticipants(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM tournament_participants WHERE tournament_id = $1`, t.ID); err != nil {
		return fmt.Errorf("failed to clear participants of tournament %d: %w", t.ID, err)
	}
	if len(t.Participants) == 0 {
		return nil
	}

	query := `
		INSERT INTO tournament_participants (tournament_id, user_id, position)
		SELECT $1, p.user_id, p.position
		FROM unnest($2::int[]) WITH ORDINALITY AS p(user_id, position)`
	if _, err := exec.ExecContext(ctx, query, t.ID, toInt64s(t.Participants)); err != nil {
		return r.handleTournamentError(err)
	}
	return nil
}

func (r *postgresTournamentRepository) replaceMatches(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM tournament_matches WHERE tournament_id = $1`, t.ID); err != nil {
		return fmt.Errorf("failed to clear matches of tournament %d: %w", t.ID, err)
	}

	query := `
		INSERT INTO tournament_matches (
			tournament_id, bracket_uid, bracket_side, round, match_number,
			player1_id, player2_id, winner_id, score1, score2, completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, list := range [][]models.Match{t.Matches, t.LosersMatches} {
		for _, m := range list {
			_, err := exec.ExecContext(ctx, query,
				t.ID, m.ID, m.Side, m.Round, m.MatchNumber,
				m.Player1, m.Player2, m.Winner, m.Score1, m.Score2, m.Completed,
			)
			if err != nil {
				return r.handleTournamentError(err)
			}
		}
	}
	return nil
}

func (r *postgresTournamentRepository) loadMatches(ctx context.Context, t *models.Tournament) error {
	query := `
		SELECT bracket_uid, bracket_side, round, match_number,
		       player1_id, player2_id, winner_id, score1, score2, completed
		FROM tournament_matches
		WHERE tournament_id = $1
		ORDER BY bracket_side DESC, round, match_number`

	rows, err := r.db.QueryContext(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("failed to load matches of tournament %d: %w", t.ID, err)
	}
	defer rows.Close()

	t.Matches = []models.Match{}
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.Side, &m.Round, &m.MatchNumber,
			&m.Player1, &m.Player2, &m.Winner, &m.Score1, &m.Score2, &m.Completed,
		); err != nil {
			return fmt.Errorf("failed to scan match: %w", err)
		}
		if m.Side == models.LosersSide {
			t.LosersMatches = append(t.LosersMatches, m)
		} else {
			t.Matches = append(t.Matches, m)
		}
	}
	return rows.Err()
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqErrorCode(err); ok {
		switch code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrTournamentDuplicateEntry, constraint)
		case "23503":
			return fmt.Errorf("%w: %s", ErrTournamentInvalidUser, constraint)
		}
	}
	return err
}

func nullableID(id int) *int {
	if id <= 0 {
		return nil
	}
	return &id
}
