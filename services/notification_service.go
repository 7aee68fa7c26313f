package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/knightsclub/chessclub/models"
	"github.com/knightsclub/chessclub/repositories"
)

const (
	notifyConcurrency        = 8
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// Notifier delivers notifications. Failures are logged and never returned,
// so callers can treat delivery as fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
	// NotifyMany sends a copy of tmpl to every distinct user in userIDs.
	NotifyMany(ctx context.Context, userIDs []int, tmpl models.Notification)
}

type NotificationService interface {
	Notifier
	ListForUser(ctx context.Context, userID, limit int, unreadOnly bool) (*NotificationList, error)
	MarkRead(ctx context.Context, userID int, ids []int) (int64, error)
	Clear(ctx context.Context, userID int) (int64, error)
}

type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, logger *slog.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, n models.Notification) {
	if err := s.repo.Create(context.WithoutCancel(ctx), &n); err != nil {
		s.logger.Error("failed to create notification",
			slog.Int("user_id", n.UserID),
			slog.String("type", string(n.Type)),
			slog.Any("error", err),
		)
	}
}

func (s *notificationService) NotifyMany(ctx context.Context, userIDs []int, tmpl models.Notification) {
	// Delivery continues after the request context is cancelled.
	ctx = context.WithoutCancel(ctx)
	var g errgroup.Group
	g.SetLimit(notifyConcurrency)

	seen := make(map[int]bool, len(userIDs))
	for _, id := range userIDs {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true

		n := tmpl
		n.UserID = id
		g.Go(func() error {
			s.Notify(ctx, n)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *notificationService) ListForUser(ctx context.Context, userID, limit int, unreadOnly bool) (*NotificationList, error) {
	switch {
	case limit <= 0:
		limit = defaultNotificationLimit
	case limit > maxNotificationLimit:
		limit = maxNotificationLimit
	}

	items, err := s.repo.ListByUser(ctx, userID, limit, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %d: %w", userID, err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications for user %d: %w", userID, err)
	}

	return &NotificationList{Notifications: items, UnreadCount: unread}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID int, ids []int) (int64, error) {
	for _, id := range ids {
		if id <= 0 {
			return 0, fmt.Errorf("%w: invalid notification id %d", ErrValidationFailed, id)
		}
	}
	updated, err := s.repo.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}

func (s *notificationService) Clear(ctx context.Context, userID int) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications of user %d: %w", userID, err)
	}
	s.logger.Info("notifications cleared", slog.Int("user_id", userID), slog.Int64("deleted", deleted))
	return deleted, nil
}
