package system

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/keyring"
	"github.com/julianstephens/rotipani/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Save a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the saved connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the saved connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Report whether the OS keyring works and holds a connection string."`
}

// KeyringSetCmd saves the connection string that --config keyring
// resolves to. Unlike a flag or env value it may carry a password.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" optional:"" help:"PostgreSQL URL or key=value DSN."`
	Stdin            bool   `help:"Read the connection string from stdin instead of the argument."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	conn := cmd.ConnectionString
	if cmd.Stdin {
		line, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read connection string from stdin: %w", err)
		}
		conn = strings.TrimSpace(line)
	}
	if conn == "" {
		return errors.New("no connection string given")
	}

	if !postgres.IsConnString(conn) {
		return fmt.Errorf("%w: expected postgres:// URL or host=... dbname=... DSN", postgres.ErrInvalidConnectionString)
	}
	if _, err := postgres.ValidateConnString(conn); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return err
		}
		ctx.Println("⚠️  The connection string contains a password. It is kept only in the OS keyring.")
	}

	if err := keyring.SetConnectionString(conn); err != nil {
		return fmt.Errorf("failed to save connection string: %w", err)
	}

	ctx.Println("✓ Saved to OS keyring as", keyring.MaskPassword(conn))
	ctx.Println("  Use it with --config keyring or ROTIPANI_STORAGE=keyring")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	conn, err := keyring.GetConnectionString()
	if err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	ctx.Println(keyring.MaskPassword(conn))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring: unavailable")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring: available")

	conn, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		ctx.Println("✓ Connection string:", keyring.MaskPassword(conn))
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No connection string stored")
	default:
		return err
	}
	return nil
}
