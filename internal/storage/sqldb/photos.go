package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/logger"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/utils"
)

type photoRow struct {
	ID           string        `db:"id"`
	Username     string        `db:"username"`
	BlemishCount int           `db:"blemish_count"`
	Generation   sql.NullInt64 `db:"generation"`
	Path         string        `db:"path"`
	CapturedAt   string        `db:"captured_at"`
}

func (r photoRow) toModel() (models.PhotoRecord, error) {
	captured, err := utils.ParseTimestamp(r.CapturedAt)
	if err != nil {
		return models.PhotoRecord{}, fmt.Errorf("photo %s: %w", r.ID, err)
	}
	p := models.PhotoRecord{
		ID:           r.ID,
		Username:     r.Username,
		CapturedAt:   captured,
		BlemishCount: r.BlemishCount,
		Path:         r.Path,
	}
	if r.Generation.Valid {
		g := int(r.Generation.Int64)
		p.Generation = &g
	}
	return p, nil
}

// ListPhotosForUser returns the user's photos in capture order.
func (s *Store) ListPhotosForUser(ctx context.Context, username string) ([]models.PhotoRecord, error) {
	var rows []photoRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(
		"SELECT id, username, blemish_count, generation, path, captured_at FROM photos WHERE username = ? ORDER BY captured_at, id"),
		username)
	if err != nil {
		return nil, apperr.Storage("list photos", err)
	}

	photos := make([]models.PhotoRecord, 0, len(rows))
	for _, r := range rows {
		p, err := r.toModel()
		if err != nil {
			logger.Warn("Skipping unreadable photo", "user", username, "error", err)
			continue
		}
		photos = append(photos, p)
	}
	return photos, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Rebind(query string) string
}

func insertPhoto(ctx context.Context, ex execer, p models.PhotoRecord) (models.PhotoRecord, error) {
	if err := p.Validate(); err != nil {
		return models.PhotoRecord{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	var gen sql.NullInt64
	if p.Generation != nil {
		gen = sql.NullInt64{Int64: int64(*p.Generation), Valid: true}
	}

	_, err := ex.ExecContext(ctx, ex.Rebind(
		"INSERT INTO photos (id, username, blemish_count, generation, path, captured_at) VALUES (?, ?, ?, ?, ?, ?)"),
		p.ID, p.Username, p.BlemishCount, gen, p.Path, utils.FormatTimestamp(p.CapturedAt))
	if err != nil {
		return models.PhotoRecord{}, apperr.Storage("insert photo", err)
	}
	return p, nil
}

// AppendPhoto stores p as given. An empty id is replaced with a new UUID.
func (s *Store) AppendPhoto(ctx context.Context, p models.PhotoRecord) (models.PhotoRecord, error) {
	return insertPhoto(ctx, s.db, p)
}

// RecordPhoto stores a new photo tagged with the generation that is current for
// username at the time of the call. A zero capturedAt means now.
func (s *Store) RecordPhoto(ctx context.Context, username string, blemishCount int, path string, capturedAt time.Time) (models.PhotoRecord, error) {
	if capturedAt.IsZero() {
		capturedAt = s.opts.Now()
	}
	p := models.PhotoRecord{
		Username:     username,
		CapturedAt:   capturedAt,
		BlemishCount: blemishCount,
		Path:         path,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.PhotoRecord{}, apperr.Storage("begin record photo", err)
	}
	defer tx.Rollback()

	current, ok, err := currentGeneration(ctx, tx, username)
	if err != nil {
		return models.PhotoRecord{}, err
	}
	if ok {
		p.Generation = &current
	}

	p, err = insertPhoto(ctx, tx, p)
	if err != nil {
		return models.PhotoRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.PhotoRecord{}, apperr.Storage("commit record photo", err)
	}

	logger.Info("Photo recorded", "user", username, "id", p.ID, "blemishes", blemishCount)
	return p, nil
}
