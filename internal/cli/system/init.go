package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/skintrack/internal/cli"
	"github.com/julianstephens/skintrack/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing SQLite database before initialization."`
	Yes   bool `help:"Skip the confirmation prompt for --force." short:"y"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(ctx.Context()); err != nil {
		return err
	}
	ctx.Printf("Initialized skintrack storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if storage.IsPostgres(dbPath) || dbPath == "postgresql" {
		return fmt.Errorf("--force only supports SQLite databases")
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	ok, err := ctx.Confirmed(c.Yes, fmt.Sprintf("Delete all routines, products and photos in %s?", dbPath))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("reset cancelled")
	}

	// Close first so the file is not held open.
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}
