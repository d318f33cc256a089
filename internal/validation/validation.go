package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidEntry       ConflictType = "invalid_entry"
	ConflictDuplicateEntry     ConflictType = "duplicate_entry"
	ConflictOverlappingEntries ConflictType = "overlapping_entries"
)

// Blocking reports whether a conflict of this type prevents a batch from being stored.
func (t ConflictType) Blocking() bool {
	return t == ConflictInvalidEntry || t == ConflictDuplicateEntry
}

// Conflict represents a detected problem in a batch of entries
type Conflict struct {
	Type        ConflictType
	Description string
	ProductIDs  []int64
	TimeRange   string // Human-readable time range (if applicable)
	Indexes     []int  // Positions in the validated batch
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// HasBlocking returns true if any conflict would make the batch unstorable.
func (vr *ValidationResult) HasBlocking() bool {
	for _, c := range vr.Conflicts {
		if c.Type.Blocking() {
			return true
		}
	}
	return false
}

// Blocking returns only the conflicts that prevent storing the batch.
func (vr *ValidationResult) Blocking() []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Type.Blocking() {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator validates routine entry batches for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEntries checks a batch of entries before it is written as a generation.
func ValidateEntries(specs []models.EntrySpec) ValidationResult {
	return New().ValidateEntries(specs)
}

func (v *Validator) ValidateEntries(specs []models.EntrySpec) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	valid := make([]int, 0, len(specs))
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidEntry,
				Description: fmt.Sprintf("Entry %d (product %d): %v", i+1, spec.ProductID, err),
				ProductIDs:  []int64{spec.ProductID},
				Indexes:     []int{i},
			})
			continue
		}
		valid = append(valid, i)
	}

	// Same product at the same start time collides on the entries key.
	type slotKey struct {
		productID int64
		start     string
	}
	seen := make(map[slotKey][]int)
	var order []slotKey
	for _, i := range valid {
		k := slotKey{specs[i].ProductID, specs[i].StartTime}
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
		seen[k] = append(seen[k], i)
	}
	for _, k := range order {
		idx := seen[k]
		if len(idx) < 2 {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateEntry,
			Description: fmt.Sprintf("Product %d is scheduled more than once at %s", k.productID, k.start),
			ProductIDs:  []int64{k.productID},
			TimeRange:   k.start,
			Indexes:     idx,
		})
	}

	// Overlaps are informational: products can be layered in one session.
	sorted := append([]int(nil), valid...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return specs[sorted[a]].StartTime < specs[sorted[b]].StartTime
	})
	for a := 0; a < len(sorted); a++ {
		for b := a + 1; b < len(sorted); b++ {
			first, second := specs[sorted[a]], specs[sorted[b]]
			if second.StartTime >= first.EndTime {
				break
			}
			if first.ProductID == second.ProductID && first.StartTime == second.StartTime {
				continue
			}
			if !timesOverlap(first.StartTime, first.EndTime, second.StartTime, second.EndTime) {
				continue
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictOverlappingEntries,
				Description: fmt.Sprintf("Products %d (%s-%s) and %d (%s-%s) overlap",
					first.ProductID, first.StartTime, first.EndTime,
					second.ProductID, second.StartTime, second.EndTime),
				ProductIDs: []int64{first.ProductID, second.ProductID},
				TimeRange:  fmt.Sprintf("%s-%s", second.StartTime, minTime(first.EndTime, second.EndTime)),
				Indexes:    []int{sorted[a], sorted[b]},
			})
		}
	}

	return result
}

// timesOverlap checks if two time ranges overlap
// Assumes all times are in HH:MM format
func timesOverlap(start1, end1, start2, end2 string) bool {
	s1, err := utils.ParseTimeToMinutes(start1)
	if err != nil {
		return false
	}
	e1, err := utils.ParseTimeToMinutes(end1)
	if err != nil {
		return false
	}
	s2, err := utils.ParseTimeToMinutes(start2)
	if err != nil {
		return false
	}
	e2, err := utils.ParseTimeToMinutes(end2)
	if err != nil {
		return false
	}

	// Two ranges overlap if: start1 < end2 AND start2 < end1
	return s1 < e2 && s2 < e1
}

// minTime compares zero-padded HH:MM strings lexically.
func minTime(a, b string) string {
	if a < b {
		return a
	}
	return b
}
