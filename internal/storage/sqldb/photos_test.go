package sqldb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/models"
)

func intPtr(v int) *int { return &v }

func TestAppendAndListPhotos(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	records := []models.PhotoRecord{
		{Username: "alice", CapturedAt: base.Add(2 * time.Hour), BlemishCount: 4, Generation: intPtr(1)},
		{Username: "alice", CapturedAt: base, BlemishCount: 7},
		{Username: "bob", CapturedAt: base.Add(time.Hour), BlemishCount: 1},
		{Username: "alice", CapturedAt: base.Add(time.Hour), BlemishCount: 5, Generation: intPtr(1), Path: "/tmp/a.jpg"},
	}
	for _, r := range records {
		stored, err := store.AppendPhoto(ctx, r)
		if err != nil {
			t.Fatalf("AppendPhoto: %v", err)
		}
		if stored.ID == "" {
			t.Error("expected a generated id")
		}
	}

	photos, err := store.ListPhotosForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListPhotosForUser: %v", err)
	}
	if len(photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(photos))
	}
	wantCounts := []int{7, 5, 4}
	for i, p := range photos {
		if p.BlemishCount != wantCounts[i] {
			t.Errorf("photo %d: expected %d blemishes, got %d", i, wantCounts[i], p.BlemishCount)
		}
	}
	if photos[0].Generation != nil {
		t.Errorf("expected untagged photo, got generation %d", *photos[0].Generation)
	}
	if photos[1].Generation == nil || *photos[1].Generation != 1 || photos[1].Path != "/tmp/a.jpg" {
		t.Errorf("unexpected photo: %+v", photos[1])
	}
	if !photos[0].CapturedAt.Equal(base) {
		t.Errorf("expected capture time %v, got %v", base, photos[0].CapturedAt)
	}
}

func TestAppendPhotoRejectsNegativeCount(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.AppendPhoto(context.Background(), models.PhotoRecord{
		Username:     "alice",
		CapturedAt:   time.Now(),
		BlemishCount: -1,
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecordPhotoTagsCurrentGeneration(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	untagged, err := store.RecordPhoto(ctx, "alice", 3, "", time.Time{})
	if err != nil {
		t.Fatalf("RecordPhoto: %v", err)
	}
	if untagged.Generation != nil {
		t.Errorf("expected no generation before any routine, got %d", *untagged.Generation)
	}
	if untagged.CapturedAt.IsZero() {
		t.Error("expected capture time to default to now")
	}

	if _, err := store.CreateGeneration(ctx, "alice", nil); err != nil {
		t.Fatalf("CreateGeneration: %v", err)
	}
	if _, err := store.CreateGeneration(ctx, "alice", nil); err != nil {
		t.Fatalf("CreateGeneration: %v", err)
	}

	tagged, err := store.RecordPhoto(ctx, "alice", 2, "/photos/2.jpg", time.Now())
	if err != nil {
		t.Fatalf("RecordPhoto: %v", err)
	}
	if tagged.Generation == nil || *tagged.Generation != 2 {
		t.Errorf("expected generation 2, got %v", tagged.Generation)
	}
}
