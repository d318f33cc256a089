package products

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/skintrack/internal/cli"
	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/storage/sqldb"
	"github.com/julianstephens/skintrack/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"), sqldb.Options{})
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	ctx := cli.NewContext(context.Background(), store, "")
	ctx.Out = out
	return ctx, out
}

func TestAddAndListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("product list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No products found") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&AddCmd{Name: "Retinol", Price: 24.5, Duration: 2}).Run(ctx); err != nil {
		t.Fatalf("product add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added product: Retinol (ID: 1)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&AddCmd{Name: "Retinol"}).Run(ctx); !errors.Is(err, apperr.ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry for a repeated name, got %v", err)
	}
	if err := (&AddCmd{Name: "Toner", Price: -1}).Run(ctx); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a negative price, got %v", err)
	}

	out.Reset()
	if err := (&ListCmd{}).Run(ctx); err != nil {
		t.Fatalf("product list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Retinol") || !strings.Contains(out.String(), "24.50") {
		t.Errorf("expected Retinol in listing:\n%s", out.String())
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&AddCmd{Name: "Serum"}).Run(ctx); err != nil {
		t.Fatalf("product add failed: %v", err)
	}

	t.Run("declined", func(t *testing.T) {
		var asked string
		ctx.Confirm = func(title string) (bool, error) {
			asked = title
			return false, nil
		}
		if err := (&DeleteCmd{ID: 1}).Run(ctx); err != nil {
			t.Fatalf("product delete failed: %v", err)
		}
		if !strings.Contains(asked, "Serum") {
			t.Errorf("prompt should name the product, got %q", asked)
		}
		if _, err := ctx.Store.GetProductByID(ctx.Context(), 1); err != nil {
			t.Errorf("product should survive a declined delete: %v", err)
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		ctx.Confirm = func(string) (bool, error) { return true, nil }
		if err := (&DeleteCmd{ID: 1}).Run(ctx); err != nil {
			t.Fatalf("product delete failed: %v", err)
		}
		if !strings.Contains(out.String(), "Deleted product: Serum") {
			t.Errorf("unexpected output: %q", out.String())
		}
		if _, err := ctx.Store.GetProductByID(ctx.Context(), 1); !errors.Is(err, apperr.ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound after delete, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		ctx.Confirm = func(string) (bool, error) {
			t.Error("no prompt expected for a missing product")
			return false, nil
		}
		if err := (&DeleteCmd{ID: 99, Yes: true}).Run(ctx); !errors.Is(err, apperr.ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})
}
