package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/export"
)

type ExportCmd struct {
	Csv  ExportCSVCmd  `cmd:"" help:"Export every logged day as CSV."`
	Json ExportJSONCmd `cmd:"" help:"Export a JSON backup of every day and the display name."`
}

type ExportCSVCmd struct {
	Out string `short:"o" help:"Output file ('-' for stdout). Defaults to rotipani-<name>-<date>.csv."`
}

func (c *ExportCSVCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	rows, err := export.CollectRows(ctx.Meals, ctx.Location)
	if err != nil {
		return err
	}

	if c.Out == "-" {
		return export.WriteCSV(ctx.Out, rows)
	}

	path := c.Out
	if path == "" {
		name, err := ctx.Meals.UserName()
		if err != nil {
			return err
		}
		path = export.CSVFileName(name, ctx.Today())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	ctx.Printf("✓ Exported %d day%s to %s\n", len(rows), plural(len(rows)), filepath.Base(path))
	return nil
}

type ExportJSONCmd struct {
	Out      string `short:"o" help:"Output file ('-' for stdout). Defaults to rotipani-backup-<name>-<date>.json."`
	Compress bool   `short:"z" help:"Compress with zstd. Implied by a .zst output file."`
}

func (c *ExportJSONCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	opts := export.Options{Compress: c.Compress || export.IsCompressedPath(c.Out)}

	if c.Out == "-" {
		_, err := export.ExportBackup(ctx.Meals, ctx.Out, opts)
		return err
	}

	path := c.Out
	if path == "" {
		name, err := ctx.Meals.UserName()
		if err != nil {
			return err
		}
		path = export.BackupFileName(name, ctx.Today())
		if opts.Compress {
			path += ".zst"
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	n, err := export.ExportBackup(ctx.Meals, f, opts)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	ctx.Printf("✓ Backed up %d day%s to %s\n", n, plural(n), filepath.Base(path))
	return nil
}

// CopyCmd puts the tab separated day table on the clipboard.
type CopyCmd struct{}

func (c *CopyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	rows, err := export.CollectRows(ctx.Meals, ctx.Location)
	if err != nil {
		return err
	}
	if err := export.CopyToClipboard(export.FormatText(rows)); err != nil {
		return err
	}

	ctx.Println("✓ Data copied to clipboard!")
	return nil
}
