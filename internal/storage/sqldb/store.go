// Package sqldb implements the generation store, product catalog and photo ledger
// on top of database/sql. Queries are written with '?' placeholders and rebound for
// the active driver, so the SQLite and PostgreSQL stores share this code.
package sqldb

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/skintrack/internal/constants"
)

// ErrorClass tells the store how to react to a driver error.
type ErrorClass int

const (
	ClassOther ErrorClass = iota
	// ClassUniqueViolation is a primary key or unique constraint failure.
	ClassUniqueViolation
	// ClassRetryable covers lock contention and serialization failures.
	ClassRetryable
)

// Classifier maps driver-specific errors to an ErrorClass.
type Classifier func(error) ErrorClass

// Options configures a Store.
type Options struct {
	Classify   Classifier
	MaxRetries int
	RetryDelay time.Duration
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Classify == nil {
		o.Classify = func(error) ErrorClass { return ClassOther }
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = constants.DefaultMaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = constants.DefaultRetryDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Store struct {
	db    *sqlx.DB
	opts  Options
	locks *userLocks
}

func New(db *sqlx.DB, opts Options) *Store {
	return &Store{
		db:    db,
		opts:  opts.withDefaults(),
		locks: newUserLocks(),
	}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// errAllocationConflict marks a lost race for the next generation number.
var errAllocationConflict = errors.New("allocation conflict")

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
