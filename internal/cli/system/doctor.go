package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/rotipani/internal/backup"
	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/migration"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/utils"
)

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", name)
		case warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}
	skip := func(name string) {
		ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", name)
	}

	reachErr := checkDBReachable(ctx)
	report("Database reachable", reachErr, false)

	if reachErr == nil {
		report("Schema version", checkSchemaVersion(ctx), false)
	} else {
		skip("Schema version")
	}

	report("Backups present", checkBackupsPresent(ctx), true)

	if reachErr == nil {
		report("Day records", checkRecords(ctx), false)
		report("Display name", checkUserName(ctx), true)
	} else {
		skip("Day records")
		skip("Display name")
	}

	clockErr := checkClockTimezone(ctx)
	report("Clock/timezone", clockErr, false)
	if clockErr == nil {
		ctx.Printf("   Today is %s (%s)\n", utils.EncodeDateKey(ctx.Now()), ctx.Location)
	}

	if cached, ok := ctx.Store.(*storage.CachedStore); ok {
		s := cached.Stats()
		ctx.Printf("ℹ Read cache: %d entries, %d hits, %d misses\n", s.Entries, s.Hits, s.Misses)
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
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := cli.Backend(ctx.Store).(schemaVersioner)
	if !ok {
		return nil
	}

	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("%w (database %d, supported %d)", migration.ErrSchemaTooNew, current, latest)
	}
	if current < latest {
		return fmt.Errorf("%d migration(s) pending, run 'rotipani migrate'", latest-current)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return nil
	}

	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'rotipani backup create'")
	}
	return nil
}

// checkRecords fails when a stored day does not decode.
func checkRecords(ctx *cli.Context) error {
	keys, err := ctx.Meals.Keys()
	if err != nil {
		return err
	}

	var malformed []string
	for _, key := range keys {
		if _, _, err := ctx.Meals.Lookup(key); err != nil {
			if !errors.Is(err, models.ErrMalformedRecord) {
				return err
			}
			malformed = append(malformed, key)
		}
	}

	if len(malformed) > 0 {
		return fmt.Errorf("%d malformed day record(s), first at %s (they read as empty days)", len(malformed), malformed[0])
	}
	return nil
}

func checkUserName(ctx *cli.Context) error {
	name, err := ctx.Meals.UserName()
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("no display name set - use 'rotipani name <name>'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == nil {
		return errors.New("no timezone configured")
	}
	return nil
}
