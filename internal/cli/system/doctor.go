package system

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/skintrack/internal/cli"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	needsDB  bool
	needUser bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Photo integrity", needsDB: true, run: checkPhotoIntegrity},
	{name: "Generation sequence", needsDB: true, needUser: true, run: checkGenerationSequence},
	{name: "Current routine", needsDB: true, needUser: true, run: checkCurrentRoutine},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := false
	_, userErr := ctx.User()

	for _, c := range checks {
		switch {
		case c.needsDB && !dbReachable:
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		case c.needUser && userErr != nil:
			ctx.Printf("⊘ %s: SKIPPED (no --user)\n", c.name)
			continue
		}

		if err := c.run(ctx); err != nil {
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			continue
		}
		ctx.Printf("✓ %s: OK\n", c.name)
		if c.name == "Database reachable" {
			dbReachable = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(ctx.Context()); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.ListProducts(ctx.Context()); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	applied, err := ctx.Store.Migrate(ctx.Context())
	if err != nil {
		return err
	}
	if applied > 0 {
		ctx.Printf("   Applied %d pending migration(s)\n", applied)
	}
	return nil
}

func checkClockTimezone(_ *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// checkPhotoIntegrity finds photos tagged with a generation that does not exist.
func checkPhotoIntegrity(ctx *cli.Context) error {
	store, ok := ctx.Store.(interface{ DB() *sqlx.DB })
	if !ok {
		return nil
	}

	var orphaned int
	err := store.DB().GetContext(ctx.Context(), &orphaned, `
		SELECT COUNT(*)
		FROM photos p
		LEFT JOIN generations g ON p.username = g.username AND p.generation = g.number
		WHERE p.generation IS NOT NULL AND g.number IS NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to check photos: %w", err)
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d photo(s) tagged with a missing generation", orphaned)
	}
	return nil
}

// checkGenerationSequence reports holes in the user's generation numbers.
func checkGenerationSequence(ctx *cli.Context) error {
	username, _ := ctx.User()
	numbers, err := ctx.Routines.History(ctx.Context(), username)
	if err != nil {
		return err
	}
	for i := 1; i < len(numbers); i++ {
		if numbers[i-1]-numbers[i] != 1 {
			return fmt.Errorf("generation %d is followed by %d", numbers[i], numbers[i-1])
		}
	}
	if len(numbers) > 0 && numbers[len(numbers)-1] != 1 {
		return fmt.Errorf("oldest generation is %d, expected 1", numbers[len(numbers)-1])
	}
	return nil
}

func checkCurrentRoutine(ctx *cli.Context) error {
	username, _ := ctx.User()
	current, ok, err := ctx.Store.CurrentGenerationNumber(ctx.Context(), username)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	entries, err := ctx.Store.GetEntries(ctx.Context(), username, current)
	if err != nil {
		return err
	}

	specs := make([]models.EntrySpec, 0, len(entries))
	for _, e := range entries {
		specs = append(specs, e.EntrySpec)
	}
	result := validation.ValidateEntries(specs)
	if result.HasBlocking() {
		return fmt.Errorf("generation %d has %d blocking conflict(s)", current, len(result.Blocking()))
	}
	if result.HasConflicts() {
		ctx.Printf("   %s", result.FormatReport())
	}
	return nil
}
