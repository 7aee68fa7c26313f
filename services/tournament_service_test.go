package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knightsclub/chessclub/brackets"
	"github.com/knightsclub/chessclub/models"
)

type serviceFixture struct {
	svc         TournamentService
	repo        *fakeTournamentRepo
	users       *fakeUserRepo
	notifier    *recordingNotifier
	archiver    *recordingArchiver
	broadcaster *recordingBroadcaster
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	users := newFakeUserRepo(
		&models.User{ID: 1, FirstName: "Alice", ManualRating: intPtr(1800)},
		&models.User{ID: 2, FirstName: "Bob", ManualRating: intPtr(1600)},
		&models.User{ID: 3, FirstName: "Carol", ManualRating: intPtr(1400)},
		&models.User{ID: 4, FirstName: "Dave", ManualRating: intPtr(1200)},
		&models.User{ID: 5, FirstName: "Eve", ChessCom: &models.ExternalRatings{Blitz: intPtr(2000)}},
	)
	f := &serviceFixture{
		repo:        newFakeTournamentRepo(),
		users:       users,
		notifier:    &recordingNotifier{},
		archiver:    &recordingArchiver{},
		broadcaster: &recordingBroadcaster{},
	}
	svc := NewTournamentService(f.repo, f.users, f.notifier, f.archiver, f.broadcaster, discardLogger())
	svc.(*tournamentService).now = func() time.Time {
		return time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	}
	f.svc = svc
	return f
}

func (f *serviceFixture) create(t *testing.T, typ models.TournamentType, participants ...int) *models.Tournament {
	t.Helper()
	tour, err := f.svc.CreateTournament(context.Background(), 99, CreateTournamentInput{
		Name:         "Spring Open",
		Type:         typ,
		EventDate:    time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Participants: participants,
	})
	require.NoError(t, err)
	return tour
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		input CreateTournamentInput
	}{
		{name: "missing name", input: CreateTournamentInput{Type: models.SingleElimination, EventDate: date}},
		{name: "bad type", input: CreateTournamentInput{Name: "x", Type: "swiss", EventDate: date}},
		{name: "missing date", input: CreateTournamentInput{Name: "x", Type: models.SingleElimination}},
		{name: "duplicate participant", input: CreateTournamentInput{Name: "x", Type: models.SingleElimination, EventDate: date, Participants: []int{1, 1}}},
		{name: "unknown participant", input: CreateTournamentInput{Name: "x", Type: models.SingleElimination, EventDate: date, Participants: []int{1, 77}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateTournament(context.Background(), 99, tc.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestCreateTournament(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2)

	assert.Equal(t, models.StatusUpcoming, tour.Status)
	assert.Equal(t, 99, tour.CreatedBy)
	assert.Empty(t, tour.Matches)
	assert.Len(t, f.notifier.ofType(models.NotificationTournamentCreated), 2)
}

func TestGeneratePairingsSeedsByRating(t *testing.T) {
	f := newFixture(t)
	// registration order differs from rating order; user 5 rated via blitz
	tour := f.create(t, models.SingleElimination, 4, 2, 5, 1)

	got, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, got.RoundsTotal)
	require.Len(t, got.Matches, 3)
	assert.Equal(t, 5, *got.Matches[0].Player1)
	assert.Equal(t, 1, *got.Matches[0].Player2)
	assert.Equal(t, 2, *got.Matches[1].Player1)
	assert.Equal(t, 4, *got.Matches[1].Player2)

	stored := f.repo.stored(tour.ID)
	assert.Equal(t, got.Matches, stored.Matches)
	assert.Equal(t, []int{4, 2, 5, 1}, stored.Participants)
	assert.Len(t, f.notifier.ofType(models.NotificationPairingGenerated), 4)
	assert.Contains(t, f.broadcaster.reasons, "pairings_generated")
}

func TestGeneratePairingsMissingUserRecord(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 3, 4)
	delete(f.users.users, 3)

	_, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "participant 3")

	stored := f.repo.stored(tour.ID)
	assert.Empty(t, stored.Matches)
	assert.Empty(t, f.notifier.ofType(models.NotificationPairingGenerated))
}

func TestGeneratePairingsRejections(t *testing.T) {
	f := newFixture(t)

	odd := f.create(t, models.SingleElimination, 1, 2, 3)
	_, err := f.svc.GeneratePairings(context.Background(), odd.ID)
	assert.ErrorIs(t, err, brackets.ErrInvalidBracketSize)
	assert.Empty(t, f.repo.stored(odd.ID).Matches)

	_, err = f.svc.GeneratePairings(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	started := f.create(t, models.SingleElimination, 1, 2)
	_, err = f.svc.GeneratePairings(context.Background(), started.ID)
	require.NoError(t, err)
	_, err = f.svc.RecordMatchResult(context.Background(), started.ID, RecordResultInput{MatchID: "R1M1", Score1: 1, Score2: 0, WinnerID: 1})
	require.NoError(t, err)

	_, err = f.svc.GeneratePairings(context.Background(), started.ID)
	assert.ErrorIs(t, err, brackets.ErrIllegalStateTransition)
}

func TestRegisterAndUnregister(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2)
	_, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.NoError(t, err)

	got, err := f.svc.Register(context.Background(), tour.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got.Participants)
	assert.Empty(t, got.Matches, "roster change must clear the bracket")
	assert.Zero(t, got.RoundsTotal)

	_, err = f.svc.Register(context.Background(), tour.ID, 3)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	got, err = f.svc.Unregister(context.Background(), tour.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got.Participants)

	_, err = f.svc.Unregister(context.Background(), tour.ID, 2)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegisterRejectedOnceStarted(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2)
	_, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.NoError(t, err)
	_, err = f.svc.RecordMatchResult(context.Background(), tour.ID, RecordResultInput{MatchID: "R1M1", Score1: 0, Score2: 1, WinnerID: 2})
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), tour.ID, 3)
	assert.ErrorIs(t, err, brackets.ErrIllegalStateTransition)
	_, err = f.svc.Unregister(context.Background(), tour.ID, 1)
	assert.ErrorIs(t, err, brackets.ErrIllegalStateTransition)
}

func TestUpdateTournament(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2)
	_, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.NoError(t, err)

	name := "Summer Open"
	got, err := f.svc.UpdateTournament(context.Background(), tour.ID, UpdateTournamentInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Len(t, got.Matches, 1, "metadata edits keep the bracket")

	roster := []int{1, 2, 3, 4}
	got, err = f.svc.UpdateTournament(context.Background(), tour.ID, UpdateTournamentInput{Participants: &roster})
	require.NoError(t, err)
	assert.Empty(t, got.Matches)
	assert.Equal(t, roster, got.Participants)
	assert.NotEmpty(t, f.notifier.ofType(models.NotificationTournamentUpdated))

	blank := "  "
	_, err = f.svc.UpdateTournament(context.Background(), tour.ID, UpdateTournamentInput{Name: &blank})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestManualPairing(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.DoubleElimination, 1, 2, 3, 4)

	submitted := []models.Match{
		{Round: 1, MatchNumber: 1, Player1: intPtr(1), Player2: intPtr(4)},
		{Round: 1, MatchNumber: 2, Player1: intPtr(2), Player2: intPtr(3)},
		{Round: 2, MatchNumber: 1},
	}
	got, err := f.svc.ManualPairing(context.Background(), tour.ID, submitted)
	require.NoError(t, err)
	assert.Equal(t, 4, *got.Matches[0].Player2)
	assert.Len(t, got.LosersMatches, 1)

	dup := []models.Match{
		{Round: 1, MatchNumber: 1, Player1: intPtr(1), Player2: intPtr(2)},
		{Round: 1, MatchNumber: 2, Player1: intPtr(2), Player2: intPtr(3)},
		{Round: 2, MatchNumber: 1},
	}
	before := f.repo.stored(tour.ID)
	_, err = f.svc.ManualPairing(context.Background(), tour.ID, dup)
	assert.ErrorIs(t, err, brackets.ErrDuplicateParticipant)
	assert.Equal(t, before.Matches, f.repo.stored(tour.ID).Matches)
	assert.Equal(t, before.Version, f.repo.stored(tour.ID).Version)
}

func TestRecordMatchResultFullTournament(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2, 3, 4)
	_, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.NoError(t, err)

	out, err := f.svc.RecordMatchResult(context.Background(), tour.ID, RecordResultInput{MatchID: "R1M1", Score1: 2, Score2: 0, WinnerID: 1})
	require.NoError(t, err)
	assert.True(t, out.Started)
	assert.Equal(t, models.StatusInProgress, out.Tournament.Status)
	assert.Len(t, f.notifier.ofType(models.NotificationTournamentStarted), 4)
	assert.Len(t, f.notifier.ofType(models.NotificationMatchResult), 2)

	_, err = f.svc.RecordMatchResult(context.Background(), tour.ID, RecordResultInput{MatchID: "R1M2", Score1: 2, Score2: 1, WinnerID: 3})
	require.NoError(t, err)

	out, err = f.svc.RecordMatchResult(context.Background(), tour.ID, RecordResultInput{MatchID: "R2M1", Score1: 2, Score2: 1, WinnerID: 1})
	require.NoError(t, err)
	assert.True(t, out.Completed)

	stored := f.repo.stored(tour.ID)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, 1, *stored.WinnerID)
	require.NotNil(t, stored.ArchiveURL, "archive location is persisted")
	assert.Equal(t, []int{tour.ID}, f.archiver.archived)

	completed := f.notifier.ofType(models.NotificationTournamentCompleted)
	require.Len(t, completed, 4)
	assert.Contains(t, completed[0].Message, "Alice won Spring Open")

	require.NoError(t, f.svc.DeleteTournament(context.Background(), tour.ID))
	assert.Equal(t, []int{tour.ID}, f.archiver.removed)
}

func TestRecordMatchResultErrorsLeaveStateUnchanged(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2)
	_, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.NoError(t, err)
	before := f.repo.stored(tour.ID)

	_, err = f.svc.RecordMatchResult(context.Background(), tour.ID, RecordResultInput{MatchID: "R1M1", Score1: 1, Score2: 1, WinnerID: 1})
	assert.ErrorIs(t, err, brackets.ErrTiedScore)
	_, err = f.svc.RecordMatchResult(context.Background(), tour.ID, RecordResultInput{MatchID: "R5M1", Score1: 1, Score2: 0, WinnerID: 1})
	assert.ErrorIs(t, err, brackets.ErrMatchNotFound)

	assert.Equal(t, before, f.repo.stored(tour.ID))
}

func TestSaveVersionConflict(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2)

	stale, err := f.repo.GetByID(context.Background(), tour.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), tour.ID, 3)
	require.NoError(t, err)

	svc := f.svc.(*tournamentService)
	stale.Name = "stale write"
	assert.ErrorIs(t, svc.save(context.Background(), stale), ErrVersionConflict)
	assert.Equal(t, "Spring Open", f.repo.stored(tour.ID).Name)
}

func TestGetTournamentHydratesParticipants(t *testing.T) {
	f := newFixture(t)
	tour := f.create(t, models.SingleElimination, 1, 2)
	_, err := f.svc.GeneratePairings(context.Background(), tour.ID)
	require.NoError(t, err)

	view, err := f.svc.GetTournament(context.Background(), tour.ID)
	require.NoError(t, err)
	require.Len(t, view.Participants, 2)
	u, ok := view.Participants[0].User()
	require.True(t, ok)
	assert.Equal(t, "Alice", u.FirstName)
	require.NotNil(t, view.Matches[0].Player1)
	assert.Equal(t, 1, view.Matches[0].Player1.ID())

	data, err := json.Marshal(view)
	require.NoError(t, err)
	var decoded struct {
		Participants []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"participants"`
		Matches []struct {
			ID      string          `json:"id"`
			Player1 json.RawMessage `json:"player1"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Bob", decoded.Participants[1].Name)
	assert.Equal(t, "R1M1", decoded.Matches[0].ID)
	assert.JSONEq(t, `{"id":1,"name":"Alice"}`, string(decoded.Matches[0].Player1))
}

func TestListAndDeleteTournaments(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, models.SingleElimination, 1, 2)
	f.create(t, models.SingleElimination)

	upcoming := models.StatusUpcoming
	list, err := f.svc.ListTournaments(context.Background(), ListTournamentsFilter{Status: &upcoming, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteTournament(context.Background(), a.ID))
	_, err = f.svc.GetTournament(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, f.svc.DeleteTournament(context.Background(), a.ID), ErrTournamentNotFound)
}
