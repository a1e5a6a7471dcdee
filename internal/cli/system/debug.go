package system

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/utils"
)

type DebugCmd struct {
	DBPath  DebugDBPathCmd  `cmd:"" name:"db-path" help:"Show database path."`
	DumpDay DebugDumpDayCmd `cmd:"" help:"Dump the stored value of one day."`
	Keys    DebugKeysCmd    `cmd:"" help:"List every stored key."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Day to dump (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	_, key, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return err
	}

	raw, ok, err := ctx.Store.Get(key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("no record stored for date: %s", key)
	}

	out := map[string]interface{}{
		"key": key,
		"raw": raw,
	}
	if record, _, err := ctx.Meals.Lookup(key); err != nil {
		out["error"] = err.Error()
	} else {
		out["record"] = record
	}
	return printJSON(ctx, out)
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	keys, err := ctx.Store.Keys()
	if err != nil {
		return err
	}

	days, other := []string{}, []string{}
	for _, k := range keys {
		if utils.IsDateKey(k) {
			days = append(days, k)
		} else {
			other = append(other, k)
		}
	}
	return printJSON(ctx, map[string][]string{
		"days":  days,
		"other": other,
	})
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
