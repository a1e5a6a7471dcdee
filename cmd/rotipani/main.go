package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/cli/backups"
	"github.com/julianstephens/rotipani/internal/cli/data"
	"github.com/julianstephens/rotipani/internal/cli/days"
	"github.com/julianstephens/rotipani/internal/cli/system"
	"github.com/julianstephens/rotipani/internal/config"
	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/errors"
	"github.com/julianstephens/rotipani/internal/keyring"
	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/storage/postgres"
	"github.com/julianstephens/rotipani/internal/storage/sqlite"
	"github.com/julianstephens/rotipani/internal/utils"
)

// App is the command line grammar
type App struct {
	Version   kong.VersionFlag
	Config    string `help:"Database file (.db or .json), PostgreSQL connection string, or 'keyring'. For PostgreSQL, credentials must NOT be embedded in the connection string."`
	Settings  string `help:"YAML settings file (default: config.yaml next to the database)." type:"path"`
	EnvFile   string `name:"env-file" help:"dotenv file to load before reading ROTIPANI_* variables." default:".env"`
	Timezone  string `help:"IANA timezone used to decide what 'today' is (default: system local)."`
	CacheMB   *int   `name:"cache-mb" help:"Read cache size in megabytes (0 disables)."`
	Verbose   bool   `short:"v" help:"Log debug output to stderr."`
	Ephemeral bool   `help:"Keep everything in memory; nothing is saved."`

	Init    system.InitCmd    `cmd:"" help:"Initialize rotipani storage."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Name    days.NameCmd      `cmd:"" help:"Show or set your display name."`
	Today   days.TodayCmd     `cmd:"" help:"Show today's meals and stats."`
	Toggle  days.ToggleCmd    `cmd:"" help:"Toggle lunch or dinner for today."`
	Edit    days.EditCmd      `cmd:"" help:"Show or edit the meals of any day."`
	Week    days.WeekCmd      `cmd:"" help:"Show the last seven days."`
	Month   days.MonthCmd     `cmd:"" help:"Show a month calendar."`
	Streak  days.StreakCmd    `cmd:"" help:"Show the current streak."`
	Stats   days.StatsCmd     `cmd:"" help:"Show today, weekly and monthly percentages and the streak."`
	Table   data.TableCmd     `cmd:"" help:"Show every logged day as a table."`
	Export  data.ExportCmd    `cmd:"" help:"Export meals as CSV or a JSON backup."`
	Copy    data.CopyCmd      `cmd:"" help:"Copy the meal table to the clipboard."`
	Import  data.ImportCmd    `cmd:"" help:"Replace all meals with a JSON backup."`
	Clear   data.ClearCmd     `cmd:"" help:"Delete every logged meal."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending schema migrations (SQLite and PostgreSQL)."`
	Debug   system.DebugCmd   `cmd:"" help:"Debug commands for troubleshooting."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups (SQLite only)."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Track whether you had lunch and dinner, day by day"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	}
}

func main() {
	var app App
	ctx := kong.Parse(&app, options()...)

	cfg, err := config.Load(config.Flags{
		Storage:      app.Config,
		SettingsPath: app.Settings,
		EnvFile:      app.EnvFile,
		Timezone:     app.Timezone,
		Debug:        app.Verbose,
		CacheMB:      app.CacheMB,
	})
	if err != nil {
		errors.Fatal(err)
	}

	logFile, err := logger.Init(logger.Options{Dir: cfg.ConfigDir(), Level: cfg.LogLevel, Verbose: cfg.Debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	} else {
		defer logFile.Close()
	}
	logger.Debug("Configuration loaded", "storage", keyring.MaskPassword(cfg.Storage), "settings", cfg.SettingsFile, "timezone", cfg.Timezone)

	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	store, err := openStore(cfg.Storage, app.Ephemeral)
	if err != nil {
		errors.Fatal(err)
	}
	store = storage.NewCachedStore(store, cfg.CacheMB)
	defer store.Close()

	appCtx := cli.NewContext(store, loc, time.Now)

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// openStore picks the backend for a storage location: the OS keyring
// reference, a PostgreSQL connection string, a .json file, or a SQLite
// database file.
func openStore(location string, ephemeral bool) (storage.Provider, error) {
	if ephemeral {
		return storage.NewMemoryStore(), nil
	}

	fromKeyring := location == keyring.KeyringRef
	location, err := keyring.Resolve(location)
	if err != nil {
		return nil, err
	}

	switch {
	case postgres.IsConnString(location):
		if !fromKeyring && postgres.HasEmbeddedCredentials(location) {
			return nil, fmt.Errorf("%w: store it with 'rotipani keyring set', use PGPASSWORD, or a .pgpass file", postgres.ErrEmbeddedCredentials)
		}
		return postgres.New(location), nil
	case strings.HasSuffix(strings.ToLower(location), ".json"):
		return storage.NewJSONStore(location), nil
	default:
		return sqlite.NewStore(location), nil
	}
}
