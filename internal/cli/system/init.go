package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/storage/postgres"
)

type InitCmd struct {
	Force bool   `help:"Force reset by deleting the existing database file before initialization."`
	Name  string `help:"Display name to store after initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if c.Force {
		if _, ok := cli.Backend(ctx.Store).(*postgres.Store); ok {
			return errors.New("--force is only supported for file-backed storage")
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		if !errors.Is(err, storage.ErrAlreadyInitialized) {
			return err
		}
		ctx.Printf("rotipani storage already exists at: %s\n", path)
	} else {
		ctx.Printf("Initialized rotipani storage at: %s\n", path)
	}

	if c.Name != "" {
		if err := ctx.Load(); err != nil {
			return err
		}
		if err := ctx.Meals.SetUserName(c.Name); err != nil {
			return err
		}
		ctx.Println(cli.Greeting(c.Name))
	}

	return nil
}
