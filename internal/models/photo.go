package models

import (
	"fmt"
	"time"

	apperr "github.com/julianstephens/skintrack/internal/errors"
)

// PhotoRecord is an observation produced by the capture flow. Generation is the
// generation that was current at capture time, nil if the user had none.
type PhotoRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	CapturedAt   time.Time `json:"captured_at"`
	BlemishCount int       `json:"blemish_count"`
	Generation   *int      `json:"generation,omitempty"`
	Path         string    `json:"path,omitempty"`
}

func (p PhotoRecord) Validate() error {
	if p.Username == "" {
		return fmt.Errorf("%w: photo username is required", apperr.ErrInvalidInput)
	}
	if p.BlemishCount < 0 {
		return fmt.Errorf("%w: blemish count cannot be negative", apperr.ErrInvalidInput)
	}
	if p.CapturedAt.IsZero() {
		return fmt.Errorf("%w: capture time is required", apperr.ErrInvalidInput)
	}
	if p.Generation != nil && *p.Generation < 1 {
		return fmt.Errorf("%w: generation must be positive", apperr.ErrInvalidInput)
	}
	return nil
}

// SeriesPoint is one sample of the blemish time series.
type SeriesPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	BlemishCount int       `json:"blemish_count"`
}

// GenerationSummary aggregates the photos taken under one generation.
type GenerationSummary struct {
	Generation int     `json:"generation"`
	Photos     int     `json:"photos"`
	Mean       float64 `json:"mean"`
	Min        int     `json:"min"`
	Max        int     `json:"max"`
}
