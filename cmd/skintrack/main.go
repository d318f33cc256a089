package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/skintrack/internal/cli"
	"github.com/julianstephens/skintrack/internal/cli/photos"
	"github.com/julianstephens/skintrack/internal/cli/products"
	"github.com/julianstephens/skintrack/internal/cli/routines"
	"github.com/julianstephens/skintrack/internal/cli/stats"
	"github.com/julianstephens/skintrack/internal/cli/system"
	"github.com/julianstephens/skintrack/internal/constants"
	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/keyring"
	"github.com/julianstephens/skintrack/internal/logger"
	"github.com/julianstephens/skintrack/internal/storage"
	"github.com/julianstephens/skintrack/internal/storage/postgres"
	"github.com/julianstephens/skintrack/internal/storage/sqldb"
)

var CLI struct {
	Version    kong.VersionFlag
	DB         string `help:"SQLite file path, PostgreSQL connection string, or 'keyring'. PostgreSQL credentials must NOT be embedded in the connection string." env:"SKINTRACK_DB" default:"${default_db}"`
	User       string `help:"Acting username." env:"SKINTRACK_USER"`
	Debug      bool   `help:"Log to stderr at debug level." env:"SKINTRACK_DEBUG"`
	MaxRetries int    `help:"Attempts per generation allocation before giving up." env:"SKINTRACK_MAX_RETRIES" default:"${max_retries}"`

	Init    system.InitCmd    `cmd:"" help:"Initialize skintrack storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Routine struct {
		Show    routines.ShowCmd    `cmd:"" help:"Show the current routine or an older generation." default:"1"`
		History routines.HistoryCmd `cmd:"" help:"List routine generations, newest first."`
		New     routines.NewCmd     `cmd:"" help:"Start a new routine generation from entries."`
		Empty   routines.EmptyCmd   `cmd:"" help:"Start a new, empty routine generation."`
		Suggest routines.SuggestCmd `cmd:"" help:"Start a new routine generation suggested from the catalog."`
		Add     routines.AddCmd     `cmd:"" help:"Add an entry to the current routine."`
		Remove  routines.RemoveCmd  `cmd:"" help:"Remove a product from the current routine."`
	} `cmd:"" help:"Manage skincare routines."`
	Product struct {
		Add    products.AddCmd    `cmd:"" help:"Add a product to the catalog."`
		List   products.ListCmd   `cmd:"" help:"List catalog products." default:"1"`
		Delete products.DeleteCmd `cmd:"" help:"Delete a catalog product."`
	} `cmd:"" help:"Manage the product catalog."`
	Photo struct {
		Add  photos.AddCmd  `cmd:"" help:"Record a photo and its blemish count."`
		List photos.ListCmd `cmd:"" help:"List recorded photos." default:"1"`
	} `cmd:"" help:"Manage blemish photos."`
	Stats struct {
		Mean    stats.MeanCmd    `cmd:"" help:"Mean blemish count per generation." default:"1"`
		Series  stats.SeriesCmd  `cmd:"" help:"Blemish counts recorded under the current routine."`
		Summary stats.SummaryCmd `cmd:"" help:"Per-generation photo summary."`
	} `cmd:"" help:"Blemish analytics."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Skincare routine generations and blemish analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"default_db":  constants.DefaultConfigPath,
			"max_retries": fmt.Sprint(constants.DefaultMaxRetries),
		},
	)

	if err := initLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := ctx.Command()
	if strings.HasPrefix(command, "keyring") {
		if err := ctx.Run(cli.NewContext(runCtx, nil, CLI.User)); err != nil {
			stop()
			apperr.Fatal(err)
		}
		return
	}

	store, err := openStore()
	if err != nil {
		stop()
		apperr.Fatal(err)
	}

	// init and doctor handle an unloaded store themselves
	if command != "init" && command != "doctor" {
		if err := store.Load(runCtx); err != nil {
			stop()
			apperr.Fatal(err)
		}
	}

	err = ctx.Run(cli.NewContext(runCtx, store, CLI.User))
	if closeErr := store.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		stop()
		apperr.Fatal(err)
	}
}

func initLogger() error {
	dir, err := storage.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return err
	}
	return logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: dir})
}

// openStore resolves --db and returns an unloaded provider.
func openStore() (storage.Provider, error) {
	target, fromKeyring, err := keyring.ResolveTarget(CLI.DB)
	if err != nil {
		return nil, err
	}

	if storage.IsPostgres(target) && !fromKeyring {
		if _, err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use '%s keyring set' and --db %s, a .pgpass file, or PGPASSWORD instead",
					err, constants.AppName, constants.KeyringTarget)
			}
			return nil, err
		}
	}

	return storage.New(target, sqldb.Options{MaxRetries: CLI.MaxRetries})
}
