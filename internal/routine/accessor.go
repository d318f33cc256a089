// Package routine resolves user-facing routine views on top of the generation
// store. Index 0 is the current generation, 1 the one before it, and so on.
package routine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/skintrack/internal/constants"
	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/logger"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/storage"
	"github.com/julianstephens/skintrack/internal/validation"
)

type Accessor struct {
	store     storage.GenerationStore
	catalog   storage.ProductCatalog
	policy    SuggestionPolicy
	validator *validation.Validator
}

type Option func(*Accessor)

// WithPolicy replaces the suggestion policy used by StartSuggestedRoutine.
func WithPolicy(p SuggestionPolicy) Option {
	return func(a *Accessor) {
		if p != nil {
			a.policy = p
		}
	}
}

func New(store storage.GenerationStore, catalog storage.ProductCatalog, opts ...Option) *Accessor {
	a := &Accessor{
		store:     store,
		catalog:   catalog,
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.policy == nil {
		a.policy = NewRandomPolicy(uint64(time.Now().UnixNano()))
	}
	return a
}

// CurrentRoutine returns the entries of the user's current generation, or an
// empty slice when the user has not started a routine.
func (a *Accessor) CurrentRoutine(ctx context.Context, username string) ([]models.EntryView, error) {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	current, ok, err := a.store.CurrentGenerationNumber(ctx, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.EntryView{}, nil
	}
	return a.views(ctx, username, current)
}

// RoutineAt returns the routine index generations back from the current one.
// Unlike CurrentRoutine, index 0 fails with ErrIndexOutOfRange for a user
// without generations.
func (a *Accessor) RoutineAt(ctx context.Context, username string, index int) ([]models.EntryView, error) {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, fmt.Errorf("index %d: %w", index, apperr.ErrIndexOutOfRange)
	}

	if index == 0 {
		current, ok, err := a.store.CurrentGenerationNumber(ctx, username)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("index 0 of 0 generations: %w", apperr.ErrIndexOutOfRange)
		}
		return a.views(ctx, username, current)
	}

	numbers, err := a.History(ctx, username)
	if err != nil {
		return nil, err
	}
	if index >= len(numbers) {
		return nil, fmt.Errorf("index %d of %d generations: %w", index, len(numbers), apperr.ErrIndexOutOfRange)
	}
	return a.views(ctx, username, numbers[index])
}

// History returns the user's generation numbers, newest first.
func (a *Accessor) History(ctx context.Context, username string) ([]int, error) {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	numbers, err := a.store.ListGenerationNumbers(ctx, username)
	if err != nil {
		return nil, err
	}
	warnOnGaps(username, numbers)
	return numbers, nil
}

// warnOnGaps logs when descending generation numbers skip a value. Relative
// indexes still resolve against the list as stored.
func warnOnGaps(username string, numbers []int) {
	for i := 1; i < len(numbers); i++ {
		if numbers[i-1]-numbers[i] != 1 {
			logger.Warn("Generation sequence has a gap",
				"user", username, "after", numbers[i], "before", numbers[i-1])
		}
	}
}

func (a *Accessor) views(ctx context.Context, username string, number int) ([]models.EntryView, error) {
	entries, err := a.store.GetEntries(ctx, username, number)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string)
	views := make([]models.EntryView, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.ProductID]
		if !ok {
			name, err = a.productName(ctx, e.ProductID)
			if err != nil {
				return nil, err
			}
			names[e.ProductID] = name
		}
		views = append(views, models.EntryView{
			ProductID: e.ProductID,
			Name:      name,
			TimeOfDay: e.TimeOfDay,
			Frequency: e.Frequency,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}
	return views, nil
}

func (a *Accessor) productName(ctx context.Context, id int64) (string, error) {
	p, err := a.catalog.GetProductByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		logger.Debug("Entry references missing product", "product", id)
		return constants.UnknownProductName, nil
	}
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// StartNewRoutine validates specs and stores them as the user's next generation.
func (a *Accessor) StartNewRoutine(ctx context.Context, username string, specs []models.EntrySpec) (int, error) {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return 0, err
	}

	result := a.validator.ValidateEntries(specs)
	if result.HasBlocking() {
		var msgs []string
		for _, c := range result.Blocking() {
			msgs = append(msgs, c.Description)
		}
		return 0, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, strings.Join(msgs, "; "))
	}
	for _, c := range result.Conflicts {
		logger.Debug("Routine entry note", "user", username, "type", c.Type, "detail", c.Description)
	}

	return a.store.CreateGeneration(ctx, username, specs)
}

// StartEmptyRoutine opens a new generation with no entries.
func (a *Accessor) StartEmptyRoutine(ctx context.Context, username string) (int, error) {
	return a.StartNewRoutine(ctx, username, nil)
}

// StartSuggestedRoutine builds a routine from the suggestion policy and stores it.
func (a *Accessor) StartSuggestedRoutine(ctx context.Context, username string) (int, []models.EntrySpec, error) {
	products, err := a.catalog.ListProducts(ctx)
	if err != nil {
		return 0, nil, err
	}
	specs, err := a.policy.Suggest(products)
	if err != nil {
		return 0, nil, err
	}
	number, err := a.StartNewRoutine(ctx, username, specs)
	if err != nil {
		return 0, nil, err
	}
	return number, specs, nil
}

// AddEntry schedules an existing product in the user's current generation.
func (a *Accessor) AddEntry(ctx context.Context, username string, productID int64, timeOfDay, frequency, start, end string) error {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return err
	}
	spec, err := models.NewEntrySpec(productID, timeOfDay, frequency, start, end)
	if err != nil {
		return err
	}
	if _, err := a.catalog.GetProductByID(ctx, productID); err != nil {
		return err
	}
	return a.store.AppendEntry(ctx, username, spec)
}

// RemoveEntry unschedules a product from the user's current generation.
func (a *Accessor) RemoveEntry(ctx context.Context, username string, productID int64) error {
	username, err := models.ValidateUsername(username)
	if err != nil {
		return err
	}
	return a.store.RemoveEntry(ctx, username, productID)
}
