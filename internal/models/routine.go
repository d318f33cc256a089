package models

import (
	"fmt"
	"strings"
	"time"

	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/utils"
)

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// TimesOfDay lists the valid periods in display order.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening}

func (t TimeOfDay) Valid() bool {
	switch t {
	case Morning, Afternoon, Evening:
		return true
	}
	return false
}

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

var Frequencies = []Frequency{Daily, Weekly, Monthly}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// EntrySpec is a scheduled product usage before it is assigned to a generation.
type EntrySpec struct {
	ProductID int64     `json:"product_id" db:"product_id"`
	TimeOfDay TimeOfDay `json:"time_of_day" db:"time_of_day"`
	Frequency Frequency `json:"frequency" db:"frequency"`
	StartTime string    `json:"start_time" db:"start_time"` // HH:MM format
	EndTime   string    `json:"end_time" db:"end_time"`     // HH:MM format
}

// NewEntrySpec builds a validated EntrySpec from raw input.
func NewEntrySpec(productID int64, timeOfDay, frequency, start, end string) (EntrySpec, error) {
	spec := EntrySpec{
		ProductID: productID,
		TimeOfDay: TimeOfDay(strings.ToLower(strings.TrimSpace(timeOfDay))),
		Frequency: Frequency(strings.ToLower(strings.TrimSpace(frequency))),
		StartTime: strings.TrimSpace(start),
		EndTime:   strings.TrimSpace(end),
	}
	if err := spec.Validate(); err != nil {
		return EntrySpec{}, err
	}
	return spec, nil
}

// Validate checks enums and that EndTime falls after StartTime on the same day.
func (e EntrySpec) Validate() error {
	if e.ProductID <= 0 {
		return fmt.Errorf("%w: product id must be positive, got %d", apperr.ErrInvalidInput, e.ProductID)
	}
	if !e.TimeOfDay.Valid() {
		return fmt.Errorf("%w: time of day must be morning, afternoon or evening, got %q", apperr.ErrInvalidInput, e.TimeOfDay)
	}
	if !e.Frequency.Valid() {
		return fmt.Errorf("%w: frequency must be daily, weekly or monthly, got %q", apperr.ErrInvalidInput, e.Frequency)
	}
	startMin, err := utils.ParseTimeToMinutes(e.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start time: %v", apperr.ErrInvalidInput, err)
	}
	endMin, err := utils.ParseTimeToMinutes(e.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end time: %v", apperr.ErrInvalidInput, err)
	}
	if endMin <= startMin {
		return fmt.Errorf("%w: end time %s must be after start time %s", apperr.ErrInvalidInput, e.EndTime, e.StartTime)
	}
	return nil
}

// Entry is an EntrySpec stored in a user's generation.
type Entry struct {
	Username   string `json:"username" db:"username"`
	Generation int    `json:"generation" db:"generation"`
	EntrySpec
}

// Generation is one immutable snapshot of a user's routine. Only the highest
// numbered generation of a user accepts entry changes.
type Generation struct {
	Username  string    `json:"username"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

// EntryView is an entry joined with its product's display name.
type EntryView struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Frequency Frequency `json:"frequency"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

// ValidateUsername trims and checks a username.
func ValidateUsername(username string) (string, error) {
	u := strings.TrimSpace(username)
	if u == "" {
		return "", fmt.Errorf("%w: username is required", apperr.ErrInvalidInput)
	}
	return u, nil
}
