package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/knightsclub/chessclub/models"
	"github.com/knightsclub/chessclub/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func cloneTournament(t *models.Tournament) *models.Tournament {
	c := *t
	c.Participants = append([]int(nil), t.Participants...)
	c.Matches = append([]models.Match(nil), t.Matches...)
	if t.LosersMatches != nil {
		c.LosersMatches = append([]models.Match(nil), t.LosersMatches...)
	}
	return &c
}

type fakeTournamentRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.Tournament
	saves  int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, items: map[int]*models.Tournament{}}
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	t.Version = 1
	t.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.items[t.ID] = cloneTournament(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return cloneTournament(t), nil
}

func (r *fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Tournament{}
	for _, t := range r.items {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *cloneTournament(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = []models.Tournament{}
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeTournamentRepo) Save(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[t.ID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if stored.Version != t.Version {
		return repositories.ErrVersionConflict
	}
	t.Version++
	r.items[t.ID] = cloneTournament(t)
	r.saves++
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeTournamentRepo) stored(id int) *models.Tournament {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneTournament(r.items[id])
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{nextID: 1000, users: map[int]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = r.nextID
	r.nextID++
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) NotifyMany(ctx context.Context, userIDs []int, tmpl models.Notification) {
	for _, id := range userIDs {
		msg := tmpl
		msg.UserID = id
		n.Notify(ctx, msg)
	}
}

func (n *recordingNotifier) ofType(typ models.NotificationType) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Notification
	for _, msg := range n.sent {
		if msg.Type == typ {
			out = append(out, msg)
		}
	}
	return out
}

type recordingArchiver struct {
	archived []int
	removed  []int
}

func (a *recordingArchiver) Remove(_ context.Context, t *models.Tournament) {
	if t.ArchiveKey != nil {
		a.removed = append(a.removed, t.ID)
	}
}

func (a *recordingArchiver) Archive(_ context.Context, t *models.Tournament) {
	a.archived = append(a.archived, t.ID)
	key := "tournaments/archive.json"
	url := "https://cdn.example.com/" + key
	t.ArchiveKey = &key
	t.ArchiveURL = &url
}

type recordingBroadcaster struct {
	mu      sync.Mutex
	reasons []string
}

func (b *recordingBroadcaster) BracketUpdated(_ int, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reasons = append(b.reasons, reason)
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID int
	items  []models.Notification
	fail   map[int]error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.fail[n.UserID]; err != nil {
		return err
	}
	r.nextID++
	n.ID = r.nextID
	r.items = append(r.items, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID, limit int, unreadOnly bool) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		n := r.items[i]
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteAll(_ context.Context, userID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	var deleted int64
	for _, n := range r.items {
		if n.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	return deleted, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID int, ids []int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[int]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var updated int64
	for i := range r.items {
		n := &r.items[i]
		if n.UserID != userID || n.Read || (len(ids) > 0 && !want[n.ID]) {
			continue
		}
		n.Read = true
		updated++
	}
	return updated, nil
}
