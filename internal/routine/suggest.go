package routine

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/julianstephens/skintrack/internal/constants"
	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/utils"
)

// SuggestionPolicy proposes the entries of a new routine from the product catalog.
type SuggestionPolicy interface {
	Suggest(products []models.Product) ([]models.EntrySpec, error)
}

// SlotFunc returns how many minutes an entry for p should last.
type SlotFunc func(p models.Product) int

// FixedSlot gives every product the same slot length.
func FixedSlot(minutes int) SlotFunc {
	return func(models.Product) int { return minutes }
}

// ProductDurationSlot uses the product's own duration, clamped to a sensible range.
func ProductDurationSlot(p models.Product) int {
	return max(constants.MinProductSlotMinutes, min(p.DurationMin, constants.MaxProductSlotMinutes))
}

// periodStarts lists the candidate start times of each period.
var periodStarts = map[models.TimeOfDay][]string{
	models.Morning:   {"08:00", "09:00", "10:00"},
	models.Afternoon: {"12:00", "13:00", "14:00"},
	models.Evening:   {"18:00", "19:00", "20:00"},
}

// RandomPolicy picks Count distinct products and schedules each at a random
// period, start slot and frequency. Rand must be set; seed it for reproducible
// suggestions.
type RandomPolicy struct {
	Rand        *rand.Rand
	Count       int
	SlotMinutes SlotFunc

	mu sync.Mutex
}

// NewRandomPolicy returns a policy with the default count and a fixed one-hour slot.
func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		Rand:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Count:       constants.DefaultSuggestCount,
		SlotMinutes: FixedSlot(constants.DefaultSlotMinutes),
	}
}

func (p *RandomPolicy) Suggest(products []models.Product) ([]models.EntrySpec, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("no products in catalog to suggest from: %w", apperr.ErrNotFound)
	}

	count := p.Count
	if count <= 0 {
		count = constants.DefaultSuggestCount
	}
	count = min(count, len(products))

	slot := p.SlotMinutes
	if slot == nil {
		slot = FixedSlot(constants.DefaultSlotMinutes)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	perm := p.Rand.Perm(len(products))
	specs := make([]models.EntrySpec, 0, count)
	for _, i := range perm[:count] {
		product := products[i]
		tod := models.TimesOfDay[p.Rand.IntN(len(models.TimesOfDay))]
		starts := periodStarts[tod]
		start := starts[p.Rand.IntN(len(starts))]
		freq := models.Frequencies[p.Rand.IntN(len(models.Frequencies))]

		startMin, err := utils.ParseTimeToMinutes(start)
		if err != nil {
			return nil, err
		}
		spec, err := models.NewEntrySpec(product.ID, string(tod), string(freq), start, utils.FormatMinutes(startMin+slot(product)))
		if err != nil {
			return nil, fmt.Errorf("suggest entry for %s: %w", product.Name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
