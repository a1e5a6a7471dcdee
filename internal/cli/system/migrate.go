package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/rotipani/internal/cli"
)

type migrator interface {
	schemaVersioner
	Migrate() (int, error)
}

// MigrateCmd brings the schema of a SQL backend up to date. Load only
// refuses schemas that are too new, so upgrades run through here.
type MigrateCmd struct {
	Status bool `help:"Only report the schema version and pending migrations."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	m, ok := cli.Backend(ctx.Store).(migrator)
	if !ok {
		return errors.New("migrate only supports SQLite and PostgreSQL storage")
	}

	current, latest, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	if c.Status || current >= latest {
		ctx.Printf("Schema version %d of %d", current, latest)
		if pending := latest - current; pending > 0 {
			ctx.Printf(" (%d pending)", pending)
		}
		ctx.Println()
		return nil
	}

	ctx.PerformAutomaticBackup()
	n, err := m.Migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	ctx.Printf("✓ Applied %d migration(s), schema version %d\n", n, current+n)
	return nil
}
