package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/skintrack/internal/constants"
)

// ParseTime parses a time string in the standard format (HH:MM).
// Single-digit hours are rejected so stored values sort lexically.
func ParseTime(timeStr string) (time.Time, error) {
	if len(timeStr) != len(constants.TimeFormat) {
		return time.Time{}, fmt.Errorf("invalid time %q: expected HH:MM", timeStr)
	}
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes from midnight as HH:MM. Values past midnight are
// clamped to 23:59 since routines do not wrap into the next day.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 23*60+59 {
		minutes = 23*60 + 59
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatTimestamp renders t in the persisted UTC layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp parses a persisted timestamp. RFC3339 values are accepted for rows
// written by older builds or by hand.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, s)
	if err == nil {
		return t, nil
	}
	t, rfcErr := time.Parse(time.RFC3339Nano, s)
	if rfcErr != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
