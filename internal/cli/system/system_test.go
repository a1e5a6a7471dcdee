package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/storage/sqlite"
	"github.com/julianstephens/rotipani/internal/testutil"
)

var now = time.Date(2024, 6, 10, 13, 15, 0, 0, time.UTC)

func newContext(p storage.Provider) (*cli.Context, *bytes.Buffer) {
	ctx := cli.NewContext(p, time.UTC, testutil.FixedClock(now))
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func setupTestDB(t *testing.T, initialize bool) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "rotipani.db")
	store := sqlite.NewStore(dbPath)
	if initialize {
		if err := store.Init(); err != nil {
			t.Fatalf("failed to initialize store: %v", err)
		}
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	ctx, out := newContext(store)
	return ctx, out, dbPath
}
