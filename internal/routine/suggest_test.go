package routine

import (
	"errors"
	"reflect"
	"testing"

	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/utils"
)

func catalog(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.Product{ID: int64(i + 1), Name: string(rune('A' + i)), DurationMin: (i + 1) * 3}
	}
	return products
}

func TestRandomPolicyDeterministic(t *testing.T) {
	first, err := NewRandomPolicy(7).Suggest(catalog(6))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	second, err := NewRandomPolicy(7).Suggest(catalog(6))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different suggestions:\n%v\n%v", first, second)
	}
}

func TestRandomPolicyShape(t *testing.T) {
	specs, err := NewRandomPolicy(1).Suggest(catalog(6))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(specs))
	}

	seen := make(map[int64]bool)
	for _, s := range specs {
		if seen[s.ProductID] {
			t.Errorf("product %d suggested twice", s.ProductID)
		}
		seen[s.ProductID] = true

		if err := s.Validate(); err != nil {
			t.Errorf("invalid suggestion %+v: %v", s, err)
		}
		found := false
		for _, start := range periodStarts[s.TimeOfDay] {
			if start == s.StartTime {
				found = true
			}
		}
		if !found {
			t.Errorf("start %s is not a %s slot", s.StartTime, s.TimeOfDay)
		}
		start, _ := utils.ParseTimeToMinutes(s.StartTime)
		end, _ := utils.ParseTimeToMinutes(s.EndTime)
		if end-start != 60 {
			t.Errorf("expected a one-hour slot, got %s-%s", s.StartTime, s.EndTime)
		}
	}
}

func TestRandomPolicySmallCatalog(t *testing.T) {
	specs, err := NewRandomPolicy(3).Suggest(catalog(2))
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(specs) != 2 {
		t.Errorf("expected every product once, got %d suggestions", len(specs))
	}
}

func TestRandomPolicyEmptyCatalog(t *testing.T) {
	if _, err := NewRandomPolicy(3).Suggest(nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductDurationSlot(t *testing.T) {
	tests := []struct {
		duration int
		want     int
	}{
		{0, 5},
		{3, 5},
		{15, 15},
		{500, 120},
	}
	for _, tt := range tests {
		if got := ProductDurationSlot(models.Product{DurationMin: tt.duration}); got != tt.want {
			t.Errorf("ProductDurationSlot(%d) = %d, want %d", tt.duration, got, tt.want)
		}
	}

	p := NewRandomPolicy(9)
	p.SlotMinutes = ProductDurationSlot
	p.Count = 1
	specs, err := p.Suggest([]models.Product{{ID: 1, Name: "Mask", DurationMin: 20}})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	start, _ := utils.ParseTimeToMinutes(specs[0].StartTime)
	end, _ := utils.ParseTimeToMinutes(specs[0].EndTime)
	if end-start != 20 {
		t.Errorf("expected a 20 minute slot, got %s-%s", specs[0].StartTime, specs[0].EndTime)
	}
}
