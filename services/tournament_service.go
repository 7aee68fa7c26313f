package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/knightsclub/chessclub/brackets"
	"github.com/knightsclub/chessclub/models"
	"github.com/knightsclub/chessclub/repositories"
)

type TournamentService interface {
	CreateTournament(ctx context.Context, actorID int, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*TournamentView, error)
	ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error

	Register(ctx context.Context, id, userID int) (*models.Tournament, error)
	Unregister(ctx context.Context, id, userID int) (*models.Tournament, error)

	GeneratePairings(ctx context.Context, id int) (*models.Tournament, error)
	ManualPairing(ctx context.Context, id int, matches []models.Match) (*models.Tournament, error)
	RecordMatchResult(ctx context.Context, id int, input RecordResultInput) (*RecordResultOutput, error)
}

type CreateTournamentInput struct {
	Name         string                `json:"name"`
	Type         models.TournamentType `json:"type"`
	EventDate    time.Time             `json:"event_date"`
	TimeControl  string                `json:"time_control"`
	AdminComment string                `json:"admin_comment"`
	Participants []int                 `json:"participants"`
}

// UpdateTournamentInput only changes the fields that are set.
type UpdateTournamentInput struct {
	Name         *string                `json:"name"`
	Type         *models.TournamentType `json:"type"`
	EventDate    *time.Time             `json:"event_date"`
	TimeControl  *string                `json:"time_control"`
	AdminComment *string                `json:"admin_comment"`
	Participants *[]int                 `json:"participants"`
}

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type RecordResultInput struct {
	MatchID  string
	Score1   int
	Score2   int
	WinnerID int
}

type RecordResultOutput struct {
	Tournament *models.Tournament `json:"tournament"`
	Match      models.Match       `json:"match"`
	Started    bool               `json:"started"`
	Completed  bool               `json:"completed"`
}

const maxListLimit = 100

type tournamentService struct {
	repo        repositories.TournamentRepository
	users       repositories.UserRepository
	notifier    Notifier
	archiver    BracketArchiver
	broadcaster BracketBroadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func NewTournamentService(
	repo repositories.TournamentRepository,
	users repositories.UserRepository,
	notifier Notifier,
	archiver BracketArchiver,
	broadcaster BracketBroadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		repo:        repo,
		users:       users,
		notifier:    notifier,
		archiver:    archiver,
		broadcaster: broadcaster,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, actorID int, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be %q or %q", ErrValidationFailed, models.SingleElimination, models.DoubleElimination)
	}
	if input.EventDate.IsZero() {
		return nil, fmt.Errorf("%w: event date is required", ErrValidationFailed)
	}
	if err := s.checkParticipants(ctx, input.Participants); err != nil {
		return nil, err
	}

	participants := append([]int{}, input.Participants...)
	t := &models.Tournament{
		Name:         input.Name,
		Type:         input.Type,
		Status:       models.StatusUpcoming,
		Participants: participants,
		Matches:      []models.Match{},
		EventDate:    input.EventDate,
		TimeControl:  input.TimeControl,
		AdminComment: input.AdminComment,
		CreatedBy:    actorID,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, mapRepoError(err)
	}

	s.logger.Info("tournament created", slog.Int("tournament_id", t.ID), slog.Int("actor_id", actorID))
	s.notifier.NotifyMany(ctx, t.Participants, tournamentNotification(t, models.NotificationTournamentCreated,
		"New tournament",
		fmt.Sprintf("You have been added to %s on %s.", t.Name, t.EventDate.Format("2 Jan 2006"))))
	return t, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*TournamentView, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	users, err := s.users.ListByIDs(ctx, referencedUsers(t))
	if err != nil {
		return nil, fmt.Errorf("failed to load participants of tournament %d: %w", id, err)
	}
	return NewTournamentView(t, users), nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	tournaments, err := s.repo.List(ctx, repositories.ListTournamentsFilter{
		Status: filter.Status,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brackets.CanEditDetails(t); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
		}
		t.Name = name
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown tournament type %q", ErrValidationFailed, *input.Type)
		}
		if *input.Type != t.Type {
			t.Type = *input.Type
			t.ClearBracket()
		}
	}
	if input.EventDate != nil {
		if input.EventDate.IsZero() {
			return nil, fmt.Errorf("%w: event date is required", ErrValidationFailed)
		}
		t.EventDate = *input.EventDate
	}
	if input.TimeControl != nil {
		t.TimeControl = *input.TimeControl
	}
	if input.AdminComment != nil {
		t.AdminComment = *input.AdminComment
	}
	if input.Participants != nil && !sameIDs(t.Participants, *input.Participants) {
		if err := s.checkParticipants(ctx, *input.Participants); err != nil {
			return nil, err
		}
		t.Participants = append([]int{}, *input.Participants...)
		t.ClearBracket()
	}

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tournament updated", slog.Int("tournament_id", t.ID))
	s.notifier.NotifyMany(ctx, t.Participants, tournamentNotification(t, models.NotificationTournamentUpdated,
		"Tournament updated", fmt.Sprintf("Details of %s have changed.", t.Name)))
	s.broadcaster.BracketUpdated(t.ID, "tournament_updated")
	return t, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.archiver.Remove(ctx, t)
	s.logger.Info("tournament deleted", slog.Int("tournament_id", id))
	s.broadcaster.BracketUpdated(id, "tournament_deleted")
	return nil
}

func (s *tournamentService) Register(ctx context.Context, id, userID int) (*models.Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brackets.CanModifyRoster(t); err != nil {
		return nil, err
	}
	if t.HasParticipant(userID) {
		return nil, ErrAlreadyRegistered
	}

	t.Participants = append(t.Participants, userID)
	t.ClearBracket()
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("participant registered", slog.Int("tournament_id", t.ID), slog.Int("user_id", userID))
	s.broadcaster.BracketUpdated(t.ID, "roster_changed")
	return t, nil
}

func (s *tournamentService) Unregister(ctx context.Context, id, userID int) (*models.Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brackets.CanModifyRoster(t); err != nil {
		return nil, err
	}
	if !t.HasParticipant(userID) {
		return nil, ErrNotRegistered
	}

	remaining := make([]int, 0, len(t.Participants)-1)
	for _, p := range t.Participants {
		if p != userID {
			remaining = append(remaining, p)
		}
	}
	t.Participants = remaining
	t.ClearBracket()
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("participant unregistered", slog.Int("tournament_id", t.ID), slog.Int("user_id", userID))
	s.broadcaster.BracketUpdated(t.ID, "roster_changed")
	return t, nil
}

func (s *tournamentService) GeneratePairings(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brackets.CanRepair(t); err != nil {
		return nil, err
	}
	if _, _, err := brackets.BracketShape(len(t.Participants)); err != nil {
		return nil, err
	}

	found, err := s.users.ListByIDs(ctx, t.Participants)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants of tournament %d: %w", id, err)
	}
	byID := make(map[int]*models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	// Registration order is the tie-break, so feed users in that order.
	roster := make([]*models.User, len(t.Participants))
	for i, pid := range t.Participants {
		u, ok := byID[pid]
		if !ok {
			return nil, fmt.Errorf("participant %d of tournament %d has no user record", pid, id)
		}
		roster[i] = u
	}

	bracket, err := brackets.BuildBracket(brackets.SeededIDs(roster), t.Type)
	if err != nil {
		return nil, err
	}
	bracket.Apply(t)

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("pairings generated",
		slog.Int("tournament_id", t.ID),
		slog.Int("participants", len(t.Participants)),
		slog.Int("rounds", t.RoundsTotal),
	)
	s.notifyPairings(ctx, t)
	return t, nil
}

func (s *tournamentService) ManualPairing(ctx context.Context, id int, matches []models.Match) (*models.Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brackets.CanRepair(t); err != nil {
		return nil, err
	}

	bracket, err := brackets.ValidateManualPairing(t, matches)
	if err != nil {
		return nil, err
	}
	bracket.Apply(t)

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("manual pairings saved", slog.Int("tournament_id", t.ID))
	s.notifyPairings(ctx, t)
	return t, nil
}

func (s *tournamentService) RecordMatchResult(ctx context.Context, id int, input RecordResultInput) (*RecordResultOutput, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	adv, err := brackets.RecordResult(t, brackets.MatchResult{
		MatchID:  input.MatchID,
		Score1:   input.Score1,
		Score2:   input.Score2,
		WinnerID: input.WinnerID,
	}, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("match result recorded",
		slog.Int("tournament_id", t.ID),
		slog.String("match_id", adv.Match.ID),
		slog.Int("winner_id", input.WinnerID),
		slog.Bool("tournament_completed", adv.Completed),
	)

	s.notifyResult(ctx, t, adv)
	if adv.Completed {
		s.archive(ctx, t)
	}
	s.broadcaster.BracketUpdated(t.ID, "match_updated")

	return &RecordResultOutput{
		Tournament: t,
		Match:      adv.Match,
		Started:    adv.Started,
		Completed:  adv.Completed,
	}, nil
}

// archive uploads the final bracket and stores its location. The result is
// already saved, so a failure here only loses the archive link.
func (s *tournamentService) archive(ctx context.Context, t *models.Tournament) {
	key := t.ArchiveKey
	s.archiver.Archive(ctx, t)
	if t.ArchiveKey == key {
		return
	}
	if err := s.save(ctx, t); err != nil {
		s.logger.Warn("failed to store bracket archive location", slog.Int("tournament_id", t.ID), slog.Any("error", err))
	}
}

func (s *tournamentService) notifyPairings(ctx context.Context, t *models.Tournament) {
	s.notifier.NotifyMany(ctx, t.Participants, tournamentNotification(t, models.NotificationPairingGenerated,
		"Pairings published", fmt.Sprintf("Pairings for %s are ready. Check your first round opponent.", t.Name)))
	s.broadcaster.BracketUpdated(t.ID, "pairings_generated")
}

func (s *tournamentService) notifyResult(ctx context.Context, t *models.Tournament, adv *brackets.Advancement) {
	m := adv.Match
	score := fmt.Sprintf("%d-%d", *m.Score1, *m.Score2)
	for _, pid := range m.Players() {
		outcome := "lost"
		if m.Winner != nil && *m.Winner == pid {
			outcome = "won"
		}
		n := tournamentNotification(t, models.NotificationMatchResult, "Match result",
			fmt.Sprintf("You %s round %d match %d of %s (%s).", outcome, m.Round, m.MatchNumber, t.Name, score))
		n.UserID = pid
		s.notifier.Notify(ctx, n)
	}

	if adv.Started {
		s.notifier.NotifyMany(ctx, t.Participants, tournamentNotification(t, models.NotificationTournamentStarted,
			"Tournament started", fmt.Sprintf("%s is under way.", t.Name)))
	}
	if adv.Completed && t.WinnerID != nil {
		name := fmt.Sprintf("Player #%d", *t.WinnerID)
		if u, err := s.users.GetByID(ctx, *t.WinnerID); err == nil {
			name = u.DisplayName()
		}
		s.notifier.NotifyMany(ctx, t.Participants, tournamentNotification(t, models.NotificationTournamentCompleted,
			"Tournament completed", fmt.Sprintf("%s won %s.", name, t.Name)))
	}
}

func (s *tournamentService) load(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return t, nil
}

func (s *tournamentService) save(ctx context.Context, t *models.Tournament) error {
	if err := s.repo.Save(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			s.logger.Warn("tournament version conflict", slog.Int("tournament_id", t.ID), slog.Int("version", t.Version))
		}
		return mapRepoError(err)
	}
	return nil
}

// checkParticipants rejects duplicate, non-positive or unknown user ids.
func (s *tournamentService) checkParticipants(ctx context.Context, ids []int) error {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: invalid participant id %d", ErrValidationFailed, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: participant %d listed twice", ErrValidationFailed, id)
		}
		seen[id] = true
	}
	if len(ids) == 0 {
		return nil
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	if len(users) != len(ids) {
		for _, u := range users {
			delete(seen, u.ID)
		}
		for id := range seen {
			return fmt.Errorf("%w: unknown participant %d", ErrValidationFailed, id)
		}
	}
	return nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrVersionConflict):
		return ErrVersionConflict
	case errors.Is(err, repositories.ErrTournamentInvalidUser):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return err
	}
}

func tournamentNotification(t *models.Tournament, typ models.NotificationType, title, message string) models.Notification {
	link := fmt.Sprintf("/tournaments/%d", t.ID)
	id := t.ID
	return models.Notification{
		Type:         typ,
		Title:        title,
		Message:      message,
		Link:         &link,
		TournamentID: &id,
	}
}

func sameIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
