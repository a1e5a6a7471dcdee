package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/rotipani/internal/backup"
	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/meals"
	"github.com/julianstephens/rotipani/internal/storage"
	"github.com/julianstephens/rotipani/internal/storage/sqlite"
	"github.com/julianstephens/rotipani/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Meals    *meals.Store
	Location *time.Location
	Out      io.Writer
	In       io.Reader

	clock func() time.Time
}

// NewContext wires a provider to a meal store whose clock reports time
// in loc. A nil clock means time.Now.
func NewContext(store storage.Provider, loc *time.Location, clock func() time.Time) *Context {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}
	c := &Context{
		Store:    store,
		Location: loc,
		Out:      os.Stdout,
		In:       os.Stdin,
	}
	c.clock = func() time.Time { return clock().In(loc) }
	c.Meals = meals.NewStore(store, meals.WithClock(c.clock))
	return c
}

// Load opens the store. It is safe to call more than once.
func (c *Context) Load() error {
	return c.Store.Load()
}

// Now is the current instant in the configured location
func (c *Context) Now() time.Time {
	return c.clock()
}

// Today is midnight of the current day in the configured location
func (c *Context) Today() time.Time {
	return utils.StartOfDay(c.clock())
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// ResolveDate accepts YYYY-MM-DD, "today", "yesterday" or "" (today)
// and returns the day with its key.
func (c *Context) ResolveDate(s string) (time.Time, string, error) {
	var day time.Time
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		day = c.Today()
	case "yesterday":
		day = utils.AddDays(c.Today(), -1)
	default:
		d, err := utils.DecodeDateKey(strings.TrimSpace(s), c.Location)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", s)
		}
		day = d
	}
	return day, utils.EncodeDateKey(day), nil
}

// Confirm asks a yes/no question on In. assumeYes skips the prompt.
func (c *Context) Confirm(prompt string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	c.Printf("%s [y/N]: ", prompt)

	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// SQLitePath returns the database file when the store is SQLite backed.
func (c *Context) SQLitePath() (string, bool) {
	if s, ok := Backend(c.Store).(*sqlite.Store); ok {
		return s.GetConfigPath(), true
	}
	return "", false
}

// Backend strips read caches and returns the provider that owns the data.
func Backend(p storage.Provider) storage.Provider {
	for {
		u, ok := p.(interface{ Unwrap() storage.Provider })
		if !ok {
			return p
		}
		p = u.Unwrap()
	}
}

// PerformAutomaticBackup snapshots a SQLite database and only logs
// failures.
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	if _, err := backup.NewManager(path).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
