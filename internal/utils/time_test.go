package utils

import (
	"testing"
	"time"
)

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "08:15", want: 495},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "single digit hour", input: "8:15", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeToMinutes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeToMinutes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{0, "00:00"},
		{495, "08:15"},
		{20*60 + 60, "21:00"},
		{24 * 60, "23:59"},
		{-5, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatMinutes(tt.input); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTimestampRoundTripKeepsOrder(t *testing.T) {
	early := time.Date(2025, 3, 1, 8, 0, 5, 0, time.UTC)
	late := early.Add(500 * time.Millisecond)

	a, b := FormatTimestamp(early), FormatTimestamp(late)
	if len(a) != len(b) {
		t.Fatalf("timestamps must be fixed width: %q vs %q", a, b)
	}
	if !(a < b) {
		t.Errorf("lexical order broken: %q !< %q", a, b)
	}

	parsed, err := ParseTimestamp(b)
	if err != nil {
		t.Fatalf("ParseTimestamp() error: %v", err)
	}
	if !parsed.Equal(late) {
		t.Errorf("ParseTimestamp() = %v, want %v", parsed, late)
	}
}

func TestParseTimestampAcceptsRFC3339(t *testing.T) {
	got, err := ParseTimestamp("2025-03-01T09:00:00+01:00")
	if err != nil {
		t.Fatalf("ParseTimestamp() error: %v", err)
	}
	if got.Hour() != 8 || got.Location() != time.UTC {
		t.Errorf("expected 08:00 UTC, got %v", got)
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for invalid timestamp")
	}
}
