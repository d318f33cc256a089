package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/logger"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/utils"
)

const entryColumns = "username, generation, product_id, time_of_day, frequency, start_time, end_time"

// CurrentGenerationNumber returns the highest generation issued to username.
// The bool is false when the user has not started a routine yet.
func (s *Store) CurrentGenerationNumber(ctx context.Context, username string) (int, bool, error) {
	return currentGeneration(ctx, s.db, username)
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

func currentGeneration(ctx context.Context, q queryer, username string) (int, bool, error) {
	var current sql.NullInt64
	err := q.GetContext(ctx, &current, q.Rebind("SELECT MAX(number) FROM generations WHERE username = ?"), username)
	if err != nil {
		return 0, false, apperr.Storage("current generation", err)
	}
	if !current.Valid {
		return 0, false, nil
	}
	return int(current.Int64), true, nil
}

// lockCurrentGeneration row-locks the user's generation counter for the rest of
// tx and returns its value. CreateGeneration must advance the same row, so no
// new generation can commit until tx ends and the edit cannot land in a
// superseded generation.
func lockCurrentGeneration(ctx context.Context, tx *sqlx.Tx, username string) (int, error) {
	var current int
	err := tx.GetContext(ctx, &current,
		tx.Rebind("UPDATE generation_counters SET current = current WHERE username = ? RETURNING current"), username)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("user %s: %w", username, apperr.ErrNoCurrentGeneration)
	}
	if err != nil {
		return 0, apperr.Storage("lock generation counter", err)
	}
	return current, nil
}

// CreateGeneration allocates the user's next generation number and stores specs
// under it in a single transaction. Allocation is serialized per user in-process
// and guarded in the database by a conditional counter update; lost races are
// retried up to MaxRetries times.
func (s *Store) CreateGeneration(ctx context.Context, username string, specs []models.EntrySpec) (int, error) {
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return 0, err
		}
	}

	unlock := s.locks.lock(username)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		number, err := s.createGenerationTx(ctx, username, specs)
		if err == nil {
			logger.Info("Generation created", "user", username, "generation", number, "entries", len(specs))
			return number, nil
		}
		if !errors.Is(err, errAllocationConflict) {
			return 0, err
		}
		lastErr = err
		logger.Debug("Generation allocation conflict, retrying", "user", username, "attempt", attempt, "error", err)
		if err := sleepCtx(ctx, s.opts.RetryDelay*time.Duration(attempt)); err != nil {
			return 0, err
		}
	}

	return 0, fmt.Errorf("%w: user %s after %d attempts: %v", apperr.ErrConflictRetryExhausted, username, s.opts.MaxRetries, lastErr)
}

func (s *Store) createGenerationTx(ctx context.Context, username string, specs []models.EntrySpec) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, s.classify("begin generation", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.GetContext(ctx, &current, tx.Rebind("SELECT current FROM generation_counters WHERE username = ?"), username)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = 0
		if _, err := tx.ExecContext(ctx,
			tx.Rebind("INSERT INTO generation_counters (username, current) VALUES (?, ?)"),
			username, 1,
		); err != nil {
			return 0, s.classify("claim first generation", err)
		}
	case err != nil:
		return 0, s.classify("read generation counter", err)
	default:
		res, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE generation_counters SET current = ? WHERE username = ? AND current = ?"),
			current+1, username, current,
		)
		if err != nil {
			return 0, s.classify("advance generation counter", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, apperr.Storage("advance generation counter", err)
		}
		if n == 0 {
			return 0, fmt.Errorf("counter moved past %d: %w", current, errAllocationConflict)
		}
	}

	next := current + 1
	if _, err := tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO generations (username, number, created_at) VALUES (?, ?, ?)"),
		username, next, utils.FormatTimestamp(s.opts.Now()),
	); err != nil {
		return 0, s.classify("insert generation", err)
	}

	for _, spec := range specs {
		if err := s.insertEntry(ctx, tx, username, next, spec); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, s.classify("commit generation", err)
	}
	return next, nil
}

func (s *Store) insertEntry(ctx context.Context, tx *sqlx.Tx, username string, generation int, spec models.EntrySpec) error {
	_, err := tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		username, generation, spec.ProductID, spec.TimeOfDay, spec.Frequency, spec.StartTime, spec.EndTime,
	)
	if err == nil {
		return nil
	}
	switch s.opts.Classify(err) {
	case ClassUniqueViolation:
		return fmt.Errorf("%w: product %d already scheduled at %s in generation %d", apperr.ErrDuplicateEntry, spec.ProductID, spec.StartTime, generation)
	case ClassRetryable:
		return fmt.Errorf("insert entry: %w: %v", errAllocationConflict, err)
	}
	return apperr.Storage("insert entry", err)
}

// classify turns races into errAllocationConflict and everything else into a
// storage failure.
func (s *Store) classify(op string, err error) error {
	switch s.opts.Classify(err) {
	case ClassUniqueViolation, ClassRetryable:
		return fmt.Errorf("%s: %w: %v", op, errAllocationConflict, err)
	}
	return apperr.Storage(op, err)
}

// ListGenerationNumbers returns every generation number of username, newest first.
func (s *Store) ListGenerationNumbers(ctx context.Context, username string) ([]int, error) {
	var numbers []int
	err := s.db.SelectContext(ctx, &numbers,
		s.db.Rebind("SELECT number FROM generations WHERE username = ? ORDER BY number DESC"), username)
	if err != nil {
		return nil, apperr.Storage("list generations", err)
	}
	return numbers, nil
}

// GetGeneration returns a generation's metadata and its entries ordered by start time.
func (s *Store) GetGeneration(ctx context.Context, username string, number int) (models.Generation, error) {
	var createdAt string
	err := s.db.GetContext(ctx, &createdAt,
		s.db.Rebind("SELECT created_at FROM generations WHERE username = ? AND number = ?"), username, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Generation{}, fmt.Errorf("user %s number %d: %w", username, number, apperr.ErrGenerationNotFound)
		}
		return models.Generation{}, apperr.Storage("get generation", err)
	}

	created, err := utils.ParseTimestamp(createdAt)
	if err != nil {
		logger.Warn("Unreadable generation timestamp", "user", username, "generation", number, "error", err)
	}

	entries := []models.Entry{}
	err = s.db.SelectContext(ctx, &entries, s.db.Rebind(
		"SELECT "+entryColumns+" FROM entries WHERE username = ? AND generation = ? ORDER BY start_time, product_id"),
		username, number)
	if err != nil {
		return models.Generation{}, apperr.Storage("get entries", err)
	}

	return models.Generation{
		Username:  username,
		Number:    number,
		CreatedAt: created,
		Entries:   entries,
	}, nil
}

// GetEntries returns the entries of one of username's generations.
func (s *Store) GetEntries(ctx context.Context, username string, number int) ([]models.Entry, error) {
	gen, err := s.GetGeneration(ctx, username, number)
	if err != nil {
		return nil, err
	}
	return gen.Entries, nil
}

// AppendEntry adds spec to the user's current generation.
func (s *Store) AppendEntry(ctx context.Context, username string, spec models.EntrySpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	unlock := s.locks.lock(username)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin append entry", err)
	}
	defer tx.Rollback()

	current, err := lockCurrentGeneration(ctx, tx, username)
	if err != nil {
		return err
	}

	if err := s.insertEntry(ctx, tx, username, current, spec); err != nil {
		if errors.Is(err, errAllocationConflict) {
			return apperr.Storage("append entry", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage("commit append entry", err)
	}
	logger.Debug("Entry appended", "user", username, "generation", current, "product", spec.ProductID)
	return nil
}

// RemoveEntry deletes every entry for productID from the user's current generation.
// Removing a product that is not scheduled succeeds without changes.
func (s *Store) RemoveEntry(ctx context.Context, username string, productID int64) error {
	unlock := s.locks.lock(username)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin remove entry", err)
	}
	defer tx.Rollback()

	current, err := lockCurrentGeneration(ctx, tx, username)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		tx.Rebind("DELETE FROM entries WHERE username = ? AND generation = ? AND product_id = ?"),
		username, current, productID)
	if err != nil {
		return apperr.Storage("remove entry", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage("commit remove entry", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		logger.Debug("Entries removed", "user", username, "generation", current, "product", productID, "rows", n)
	}
	return nil
}
