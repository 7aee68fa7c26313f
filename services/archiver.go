package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/knightsclub/chessclub/models"
	"github.com/knightsclub/chessclub/storage"
)

// BracketArchiver stores the final bracket of a completed tournament and
// records where it went on the tournament. Errors are logged only.
type BracketArchiver interface {
	Archive(ctx context.Context, t *models.Tournament)
	// Remove deletes a previously archived bracket, if any.
	Remove(ctx context.Context, t *models.Tournament)
}

type storageBracketArchiver struct {
	uploader storage.FileUploader
	logger   *slog.Logger
}

// NewBracketArchiver returns a no-op archiver when uploader is nil.
func NewBracketArchiver(uploader storage.FileUploader, logger *slog.Logger) BracketArchiver {
	if uploader == nil {
		return noopArchiver{}
	}
	return &storageBracketArchiver{uploader: uploader, logger: logger}
}

func (a *storageBracketArchiver) Archive(ctx context.Context, t *models.Tournament) {
	body, err := json.Marshal(t)
	if err != nil {
		a.logger.Error("failed to encode bracket archive", slog.Int("tournament_id", t.ID), slog.Any("error", err))
		return
	}

	key := storage.BracketArchiveKey(t.ID)
	res, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		a.logger.Error("failed to upload bracket archive", slog.Int("tournament_id", t.ID), slog.Any("error", fmt.Errorf("archive: %w", err)))
		return
	}

	t.ArchiveKey = &res.Key
	if res.Location != "" {
		t.ArchiveURL = &res.Location
	}
	a.logger.Info("bracket archived", slog.Int("tournament_id", t.ID), slog.String("key", res.Key))
}

func (a *storageBracketArchiver) Remove(ctx context.Context, t *models.Tournament) {
	if t.ArchiveKey == nil || *t.ArchiveKey == "" {
		return
	}
	if err := a.uploader.Delete(ctx, *t.ArchiveKey); err != nil {
		a.logger.Warn("failed to delete bracket archive", slog.Int("tournament_id", t.ID), slog.Any("error", err))
		return
	}
	a.logger.Info("bracket archive deleted", slog.Int("tournament_id", t.ID), slog.String("key", *t.ArchiveKey))
}

type noopArchiver struct{}

func (noopArchiver) Archive(context.Context, *models.Tournament) {}

func (noopArchiver) Remove(context.Context, *models.Tournament) {}
