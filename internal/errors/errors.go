package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/skintrack/internal/logger"
)

var (
	// ErrNotFound is returned when a user, generation, product or entry is absent.
	ErrNotFound = errors.New("not found")
	// ErrIndexOutOfRange is returned when a historical offset exceeds the user's generations.
	ErrIndexOutOfRange = errors.New("routine index out of range")
	// ErrNoCurrentGeneration is returned when the current routine is mutated before one exists.
	ErrNoCurrentGeneration = errors.New("no current routine")
	// ErrConflictRetryExhausted is returned when generation allocation kept conflicting.
	ErrConflictRetryExhausted = errors.New("generation allocation conflict: retries exhausted")
	// ErrStorageUnavailable wraps failures of the underlying database.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidInput is returned for malformed entries, products or photos.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateEntry is returned when a unique key (entry slot, product name) already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrProductNotFound and ErrGenerationNotFound narrow ErrNotFound and match it with errors.Is.
	ErrProductNotFound    = fmt.Errorf("product %w", ErrNotFound)
	ErrGenerationNotFound = fmt.Errorf("generation %w", ErrNotFound)
)

// Storage wraps a driver error so callers can match ErrStorageUnavailable while the
// original cause stays reachable through errors.Is/As.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// UserMessage maps an error to the text shown to the person at the terminal.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrGenerationNotFound), errors.Is(err, ErrIndexOutOfRange):
		return "no such routine"
	case errors.Is(err, ErrProductNotFound):
		return "no such product; run 'skintrack product list' to see the catalog"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrNoCurrentGeneration):
		return "no routine started yet; run 'skintrack routine empty' or 'skintrack routine new' first"
	case errors.Is(err, ErrConflictRetryExhausted):
		return "the routine was changed concurrently, please try again"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage failure, see log for details"
	default:
		return err.Error()
	}
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1. Storage failures print
// only the generic message; the full chain goes to the log.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Formatf("%s", describe(err)))
		os.Exit(1)
	}
}

func describe(err error) string {
	msg := UserMessage(err)
	if msg == err.Error() || errors.Is(err, ErrStorageUnavailable) {
		return msg
	}
	return fmt.Sprintf("%s (%v)", msg, err)
}
