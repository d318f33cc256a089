package cli

import (
	"errors"
	"strings"
	"testing"

	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/models"
)

func TestParseEntrySpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    models.EntrySpec
		wantErr bool
	}{
		{
			name:  "valid",
			input: "3,morning,daily,08:00,08:15",
			want:  models.EntrySpec{ProductID: 3, TimeOfDay: models.Morning, Frequency: models.Daily, StartTime: "08:00", EndTime: "08:15"},
		},
		{
			name:  "spaces and case",
			input: " 4 , Evening , WEEKLY , 20:00 , 20:30 ",
			want:  models.EntrySpec{ProductID: 4, TimeOfDay: models.Evening, Frequency: models.Weekly, StartTime: "20:00", EndTime: "20:30"},
		},
		{name: "too few fields", input: "3,morning,daily,08:00", wantErr: true},
		{name: "bad id", input: "x,morning,daily,08:00,08:15", wantErr: true},
		{name: "bad time", input: "3,morning,daily,8am,9am", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntrySpec(tt.input)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntrySpec: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseEntrySpec() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestContextUser(t *testing.T) {
	c := &Context{Username: "  alice "}
	u, err := c.User()
	if err != nil || u != "alice" {
		t.Errorf("User() = %q, %v", u, err)
	}

	c.Username = ""
	if _, err := c.User(); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConfirmed(t *testing.T) {
	asked := false
	c := &Context{Confirm: func(string) (bool, error) {
		asked = true
		return false, nil
	}}

	ok, err := c.Confirmed(true, "Delete?")
	if err != nil || !ok || asked {
		t.Errorf("skip should bypass the prompt: ok=%v asked=%v err=%v", ok, asked, err)
	}

	ok, err = c.Confirmed(false, "Delete?")
	if err != nil || ok || !asked {
		t.Errorf("expected prompt to decline: ok=%v asked=%v err=%v", ok, asked, err)
	}
}

func TestRoutineTable(t *testing.T) {
	out := RoutineTable([]models.EntryView{
		{ProductID: 1, Name: "Cleanser", TimeOfDay: models.Morning, Frequency: models.Daily, StartTime: "08:00", EndTime: "08:10"},
	})
	for _, want := range []string{"Cleanser", "morning", "daily", "08:00-08:10"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
