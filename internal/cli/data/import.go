package data

import (
	"fmt"
	"os"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/export"
)

// ImportCmd replaces all stored days with the contents of a JSON backup.
type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"Backup file (.json or .json.zst) to import."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	b, err := export.ParseBackup(f)
	f.Close()
	if err != nil {
		return err
	}

	ctx.Printf("Backup for %s with %d day%s.\n", b.UserName, len(b.Meals), plural(len(b.Meals)))
	ok, err := ctx.Confirm("This replaces all logged meals. Continue?", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Import cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	n, err := export.ImportBackup(ctx.Meals, b)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	ctx.Printf("✓ Imported %d day%s for %s\n", n, plural(n), b.UserName)
	return nil
}

// ClearCmd deletes every day record. The display name is kept.
type ClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ok, err := ctx.Confirm("⚠️  Delete all logged meals? This cannot be undone.", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Clear cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	n, err := ctx.Meals.ClearAll()
	if err != nil {
		return err
	}

	ctx.Printf("✓ Cleared %d day%s\n", n, plural(n))
	return nil
}
