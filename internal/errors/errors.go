// Package errors turns command failures into the text shown on stderr.
package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/rotipani/internal/backup"
	"github.com/julianstephens/rotipani/internal/export"
	"github.com/julianstephens/rotipani/internal/keyring"
	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/meals"
	"github.com/julianstephens/rotipani/internal/migration"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
)

var hints = []struct {
	target error
	hint   string
}{
	{backup.ErrNoDatabase, "Run 'rotipani init' to create the database."},
	{migration.ErrSchemaTooNew, "Restore an older snapshot with 'rotipani backup restore' or upgrade rotipani."},
	{keyring.ErrNotFound, "Save the connection string with 'rotipani keyring set <conn>'."},
	{keyring.ErrKeyringUnavailable, "Use PGPASSWORD or a .pgpass file instead of the keyring."},
	{export.ErrMalformedBackup, "Only files written by 'rotipani export json' can be imported."},
	{models.ErrUnknownMealSlot, "Meals are 'lunch' and 'dinner'."},
	{utils.ErrMalformedKey, "Dates are YYYY-MM-DD, 'today' or 'yesterday'."},
	{meals.ErrEmptyName, "Pass a name, e.g. 'rotipani name Asha'."},
}

// Format prefixes err with "Error: "
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Hint suggests the next step for a failure the user can fix, or "".
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Report writes err and its hint to w and logs it. Nil is ignored.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(w, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
}

// Fatal reports err on stderr and exits with status 1
func Fatal(err error) {
	if err == nil {
		return
	}
	Report(os.Stderr, err)
	os.Exit(1)
}
