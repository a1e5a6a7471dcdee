package migration

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/rotipani/migrations"
)

const kvTable = "CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);"

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestVersionOfFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := New(db, mapFS(nil), SQLite)

	v, err := runner.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if v != 0 {
		t.Errorf("expected version 0, got %d", v)
	}

	if err := runner.setVersion(db, 5); err != nil {
		t.Fatalf("setVersion failed: %v", err)
	}
	if v, _ = runner.Version(); v != 5 {
		t.Errorf("expected version 5, got %d", v)
	}
}

func TestParse(t *testing.T) {
	steps, err := Parse(mapFS(map[string]string{
		"002_updated_at.sql": "SELECT 2;",
		"001_init.sql":       "SELECT 1;",
		"README.md":          "ignored",
	}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Version != 1 || steps[0].Name != "init" || steps[0].SQL != "SELECT 1;" {
		t.Errorf("unexpected first step: %+v", steps[0])
	}
	if steps[1].Version != 2 || steps[1].Name != "updated_at" {
		t.Errorf("unexpected second step: %+v", steps[1])
	}
}

func TestParseRejectsBadNames(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "missing name part", files: map[string]string{"001.sql": "SELECT 1;"}},
		{name: "empty name part", files: map[string]string{"001_.sql": "SELECT 1;"}},
		{name: "non numeric version", files: map[string]string{"abc_init.sql": "SELECT 1;"}},
		{name: "version zero", files: map[string]string{"000_init.sql": "SELECT 1;"}},
		{name: "duplicate version", files: map[string]string{"001_a.sql": "SELECT 1;", "001_b.sql": "SELECT 1;"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(mapFS(tt.files)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUpFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := New(db, mapFS(map[string]string{
		"001_kv.sql":    kvTable,
		"002_extra.sql": "ALTER TABLE kv ADD COLUMN updated_at TEXT;",
	}), SQLite)

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Current != 0 || st.Latest != 2 || len(st.Pending) != 2 || st.UpToDate() {
		t.Errorf("unexpected status before Up: %+v", st)
	}

	applied, err := runner.Up()
	if err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 applied steps, got %d", applied)
	}
	if _, err := db.Exec("INSERT INTO kv (key, value, updated_at) VALUES ('2024-06-10', '{}', 'now')"); err != nil {
		t.Errorf("schema not migrated: %v", err)
	}

	st, _ = runner.Status()
	if !st.UpToDate() || st.Current != 2 {
		t.Errorf("expected up to date at 2, got %+v", st)
	}
}

func TestUpIncremental(t *testing.T) {
	db := setupTestDB(t)
	if _, err := New(db, mapFS(map[string]string{"001_kv.sql": kvTable}), SQLite).Up(); err != nil {
		t.Fatalf("first Up failed: %v", err)
	}

	second := New(db, mapFS(map[string]string{
		"001_kv.sql":    kvTable,
		"002_extra.sql": "ALTER TABLE kv ADD COLUMN updated_at TEXT;",
	}), SQLite)
	applied, err := second.Up()
	if err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected only the new step to run, got %d", applied)
	}

	if applied, err = second.Up(); err != nil || applied != 0 {
		t.Errorf("expected a no-op Up, got %d, %v", applied, err)
	}
}

func TestUpStopsAtFailingStep(t *testing.T) {
	db := setupTestDB(t)
	runner := New(db, mapFS(map[string]string{
		"001_kv.sql":     kvTable,
		"002_broken.sql": "ALTER TABLE missing ADD COLUMN x TEXT;",
	}), SQLite)

	applied, err := runner.Up()
	if err == nil {
		t.Fatal("expected error from broken step")
	}
	if applied != 1 {
		t.Errorf("expected 1 applied step before failure, got %d", applied)
	}
	if v, _ := runner.Version(); v != 1 {
		t.Errorf("expected version to stay at 1, got %d", v)
	}
}

func TestSchemaTooNew(t *testing.T) {
	db := setupTestDB(t)
	runner := New(db, mapFS(map[string]string{"001_kv.sql": kvTable}), SQLite)

	if _, err := runner.Version(); err != nil {
		t.Fatal(err)
	}
	if err := runner.setVersion(db, 9); err != nil {
		t.Fatalf("setVersion failed: %v", err)
	}

	if err := runner.Check(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Check: expected ErrSchemaTooNew, got %v", err)
	}
	if _, err := runner.Up(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Up: expected ErrSchemaTooNew, got %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, d := range []Dialect{SQLite, Postgres} {
		t.Run(string(d), func(t *testing.T) {
			runner, err := ForDialect(nil, migrations.FS, d)
			if err != nil {
				t.Fatalf("ForDialect failed: %v", err)
			}
			steps, err := Parse(runner.fsys)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(steps) == 0 || steps[0].Version != 1 {
				t.Errorf("expected steps starting at 1, got %+v", steps)
			}
		})
	}

	db := setupTestDB(t)
	runner, err := ForDialect(db, migrations.FS, SQLite)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Up(); err != nil {
		t.Fatalf("embedded sqlite migrations failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO kv (key, value) VALUES ('2024-06-10', '{}')"); err != nil {
		t.Errorf("kv table missing after embedded migrations: %v", err)
	}
}

func TestDialectBind(t *testing.T) {
	if got := Postgres.bind(); got != "$1" {
		t.Errorf("postgres bind = %q", got)
	}
	if got := SQLite.bind(); got != "?" {
		t.Errorf("sqlite bind = %q", got)
	}
}
