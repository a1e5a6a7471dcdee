// Package migration moves the kv schema of the SQL backends forward
// with numbered NNN_name.sql files and tracks the reached version in a
// one-row schema_version table.
package migration

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/rotipani/internal/logger"
)

// ErrSchemaTooNew means the database was migrated by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build supports, please upgrade rotipani")

// Dialect names a SQL backend. It doubles as the subdirectory of the
// migrations tree that holds the backend's files.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) bind() string {
	if d == Postgres {
		return "$1"
	}
	return "?"
}

// Step is one numbered migration file
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Status compares the database with the available steps
type Status struct {
	Current int
	Latest  int
	Pending []Step
}

func (s Status) UpToDate() bool { return len(s.Pending) == 0 && s.Current == s.Latest }

// Parse reads every NNN_name.sql file at the root of fsys, ordered by
// version. Other files are ignored.
func Parse(fsys fs.FS) ([]Step, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var steps []Step
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		step, err := parseName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		step.SQL = string(body)
		steps = append(steps, step)
	}

	slices.SortFunc(steps, func(a, b Step) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(steps); i++ {
		if steps[i].Version == steps[i-1].Version {
			return nil, fmt.Errorf("migration version %d is used twice", steps[i].Version)
		}
	}
	return steps, nil
}

func parseName(file string) (Step, error) {
	num, name, ok := strings.Cut(strings.TrimSuffix(file, ".sql"), "_")
	if !ok || name == "" {
		return Step{}, fmt.Errorf("migration %s: expected NNN_name.sql", file)
	}
	version, err := strconv.Atoi(num)
	if err != nil {
		return Step{}, fmt.Errorf("migration %s: bad version: %w", file, err)
	}
	if version < 1 {
		return Step{}, fmt.Errorf("migration %s: version must be at least 1", file)
	}
	return Step{Version: version, Name: name}, nil
}

// Runner applies the steps of one dialect to a database
type Runner struct {
	db      *sql.DB
	fsys    fs.FS
	dialect Dialect
}

func New(db *sql.DB, fsys fs.FS, dialect Dialect) *Runner {
	return &Runner{db: db, fsys: fsys, dialect: dialect}
}

// ForDialect scopes tree to the dialect's subdirectory.
func ForDialect(db *sql.DB, tree fs.FS, dialect Dialect) (*Runner, error) {
	sub, err := fs.Sub(tree, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("no %s migrations: %w", dialect, err)
	}
	return New(db, sub, dialect), nil
}

// Version returns the applied version, 0 for a fresh database.
func (r *Runner) Version() (int, error) {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return 0, fmt.Errorf("failed to create schema_version: %w", err)
	}

	var v int
	switch err := r.db.QueryRow(`SELECT version FROM schema_version`).Scan(&v); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Status reports the applied version and what Up would run.
func (r *Runner) Status() (Status, error) {
	current, err := r.Version()
	if err != nil {
		return Status{}, err
	}
	steps, err := Parse(r.fsys)
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current}
	if len(steps) > 0 {
		st.Latest = steps[len(steps)-1].Version
	}
	for _, s := range steps {
		if s.Version > current {
			st.Pending = append(st.Pending, s)
		}
	}
	return st, nil
}

// Check fails with ErrSchemaTooNew when the database is ahead of the
// embedded steps.
func (r *Runner) Check() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.Current > st.Latest {
		return fmt.Errorf("%w (database %d, supported %d)", ErrSchemaTooNew, st.Current, st.Latest)
	}
	return nil
}

// Up applies every pending step and returns how many ran. A failing
// step leaves the database at the previous version.
func (r *Runner) Up() (int, error) {
	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.Current > st.Latest {
		return 0, fmt.Errorf("%w (database %d, supported %d)", ErrSchemaTooNew, st.Current, st.Latest)
	}
	log := logger.With("backend", r.dialect)
	if len(st.Pending) == 0 {
		log.Debug("Schema is up to date", "version", st.Current)
		return 0, nil
	}

	log.Info("Migrating schema", "from", st.Current, "to", st.Latest)
	start := time.Now()
	for i, s := range st.Pending {
		if err := r.apply(s); err != nil {
			return i, err
		}
		log.Info("Applied migration", "version", s.Version, "name", s.Name)
	}
	log.Info("Schema migrated", "steps", len(st.Pending), "took", time.Since(start))
	return len(st.Pending), nil
}

func (r *Runner) apply(s Step) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: %w", s.Version, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(s.SQL); err != nil {
		return fmt.Errorf("migration %d (%s) failed: %w", s.Version, s.Name, err)
	}
	if err := r.setVersion(tx, s.Version); err != nil {
		return fmt.Errorf("migration %d: %w", s.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: commit: %w", s.Version, err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (r *Runner) setVersion(db execer, version int) error {
	if _, err := db.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (`+r.dialect.bind()+`)`, version); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}
