package system

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/skintrack/internal/cli"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/storage/sqldb"
	"github.com/julianstephens/skintrack/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T, username string) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"), sqldb.Options{})
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	ctx := cli.NewContext(context.Background(), store, username)
	ctx.Out = out
	return ctx, store, out
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, out := setupTestDoctorDB(t, "")

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "SKIPPED (no --user)") {
		t.Errorf("expected user checks to be skipped, got:\n%s", out.String())
	}
}

func TestDoctorCmd_HealthyRoutine(t *testing.T) {
	ctx, store, out := setupTestDoctorDB(t, "alice")

	p, err := store.AddProduct(ctx.Context(), models.Product{Name: "Serum", Price: 30, DurationMin: 5})
	if err != nil {
		t.Fatalf("failed to add product: %v", err)
	}
	// Overlapping entries are reported but do not fail the check.
	specs := []models.EntrySpec{
		{ProductID: p.ID, TimeOfDay: models.Morning, Frequency: models.Daily, StartTime: "07:00", EndTime: "07:10"},
		{ProductID: p.ID, TimeOfDay: models.Morning, Frequency: models.Daily, StartTime: "07:05", EndTime: "07:15"},
	}
	if _, err := store.CreateGeneration(ctx.Context(), "alice", specs); err != nil {
		t.Fatalf("failed to create generation: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor command failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Conflicts detected") {
		t.Errorf("expected overlap report, got:\n%s", out.String())
	}
}

func TestDoctorCmd_NewerSchema(t *testing.T) {
	ctx, store, _ := setupTestDoctorDB(t, "")

	if _, err := store.DB().Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := store.DB().Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with a newer schema")
	}
}

func TestDoctorCmd_UninitializedDB(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"), sqldb.Options{})
	out := &bytes.Buffer{}
	ctx := cli.NewContext(context.Background(), store, "alice")
	ctx.Out = out

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor command should fail when the database is not initialized")
	}
	if !strings.Contains(out.String(), "SKIPPED (database not reachable)") {
		t.Errorf("expected database checks to be skipped, got:\n%s", out.String())
	}
}

func TestCheckGenerationSequence_Gap(t *testing.T) {
	ctx, store, _ := setupTestDoctorDB(t, "alice")

	for i := 0; i < 2; i++ {
		if _, err := store.CreateGeneration(ctx.Context(), "alice", nil); err != nil {
			t.Fatalf("failed to create generation: %v", err)
		}
	}
	if _, err := store.DB().Exec("DELETE FROM generations WHERE username = 'alice' AND number = 1"); err != nil {
		t.Fatalf("failed to delete generation: %v", err)
	}

	if err := checkGenerationSequence(ctx); err == nil {
		t.Error("checkGenerationSequence should report the missing first generation")
	}
}

func TestCheckPhotoIntegrity(t *testing.T) {
	ctx, store, _ := setupTestDoctorDB(t, "alice")

	if _, err := store.RecordPhoto(ctx.Context(), "alice", 2, "", time.Time{}); err != nil {
		t.Fatalf("failed to record photo: %v", err)
	}
	if err := checkPhotoIntegrity(ctx); err != nil {
		t.Fatalf("untagged photo should pass: %v", err)
	}

	if _, err := store.DB().Exec(
		"INSERT INTO photos (id, username, blemish_count, generation, path, captured_at) VALUES ('p-orphan', 'alice', 3, 42, '', '2026-01-02T03:04:05.000000000Z')",
	); err != nil {
		t.Fatalf("failed to insert photo: %v", err)
	}
	if err := checkPhotoIntegrity(ctx); err == nil {
		t.Error("checkPhotoIntegrity should report a photo tagged with a missing generation")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	if err := checkClockTimezone(nil); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}
}
