// Package export turns the stored meal history into CSV, clipboard text
// and JSON backups, and restores backups.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/meals"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
)

var csvHeader = []string{"Date", "Day", "Lunch", "Lunch Time", "Dinner", "Dinner Time", "Total Meals"}

// Row is one day of the data table
type Row struct {
	Key        string
	Weekday    string
	Date       string
	Lunch      bool
	LunchTime  string
	Dinner     bool
	DinnerTime string
	Record     models.DayRecord
}

// Total renders the consumed count as "n/2"
func (r Row) Total() string {
	return fmt.Sprintf("%d/%d", r.Record.Consumed(), constants.MealsPerDay)
}

// LunchLabel renders the lunch flag as Yes or No
func (r Row) LunchLabel() string { return yesNo(r.Lunch) }

// DinnerLabel renders the dinner flag as Yes or No
func (r Row) DinnerLabel() string { return yesNo(r.Dinner) }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// CollectRows returns a row for every stored day, newest first. Times
// are shown in loc. Malformed records are logged and left out.
func CollectRows(store *meals.Store, loc *time.Location) ([]Row, error) {
	if loc == nil {
		loc = time.Local
	}

	keys, err := store.Keys()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		date, err := utils.DecodeDateKey(key, loc)
		if err != nil {
			logger.Warn("Skipping invalid date key", "key", key, "error", err)
			continue
		}

		record, ok, err := store.Lookup(key)
		if err != nil {
			if errors.Is(err, models.ErrMalformedRecord) {
				logger.Warn("Skipping malformed day record", "key", key, "error", err)
				continue
			}
			return nil, err
		}
		if !ok {
			continue
		}

		rows = append(rows, Row{
			Key:        key,
			Weekday:    date.Weekday().String(),
			Date:       date.Format(constants.DisplayDateFormat),
			Lunch:      record.Lunch,
			LunchTime:  utils.FormatMealTime(record.LunchTime, loc),
			Dinner:     record.Dinner,
			DinnerTime: utils.FormatMealTime(record.DinnerTime, loc),
			Record:     record,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key > rows[j].Key
	})
	return rows, nil
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date,
			r.Weekday,
			r.LunchLabel(),
			r.LunchTime,
			r.DinnerLabel(),
			r.DinnerTime,
			strconv.Itoa(r.Record.Consumed()),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", r.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatText renders rows as tab separated text for pasting into a
// spreadsheet.
func FormatText(rows []Row) string {
	var b strings.Builder
	b.WriteString("Date\t\tDay\t\tLunch\tLunch Time\tDinner\tDinner Time\tTotal\n")
	b.WriteString(strings.Repeat("=", constants.ClipboardRuleWidth))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t\t%s\t%s\t\t%s\n",
			r.Date, r.Weekday, r.LunchLabel(), r.LunchTime, r.DinnerLabel(), r.DinnerTime, r.Total())
	}
	return b.String()
}

// CSVFileName is the default name of a CSV export made on day
func CSVFileName(user string, day time.Time) string {
	return constants.ExportFilePrefix + fileSafe(user) + "-" + utils.EncodeDateKey(day) + ".csv"
}

// BackupFileName is the default name of a JSON backup made on day
func BackupFileName(user string, day time.Time) string {
	return constants.ExportBackupFilePrefix + fileSafe(user) + "-" + utils.EncodeDateKey(day) + ".json"
}

func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "user"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
