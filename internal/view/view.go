// Package view builds the daily, weekly and monthly views the CLI and
// TUI render. Every function reads the store and computes; none write.
package view

import (
	"time"

	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/stats"
	"github.com/julianstephens/rotipani/internal/utils"
)

// DayView is one day's record
type DayView struct {
	Key    string
	Record models.DayRecord
}

// DayCell is a day of a calendar view
type DayCell struct {
	Key     string
	Date    time.Time
	Weekday time.Weekday
	Record  models.DayRecord
	IsToday bool
}

type WeekView struct {
	Days   []DayCell
	Window stats.Window
	Total  stats.Total
}

// Percent is the completion percentage of the week
func (w WeekView) Percent() int {
	return stats.Percent(w.Total.Consumed, w.Window.Possible())
}

type MonthView struct {
	Year  int
	Month time.Month
	// LeadingBlanks is the number of empty cells before day 1 in a
	// Sunday-first calendar grid.
	LeadingBlanks int
	Days          []DayCell
	Window        stats.Window
	Total         stats.Total
	LunchCount    int
	DinnerCount   int
}

// Percent is the completion percentage of the month
func (m MonthView) Percent() int {
	return stats.Percent(m.Total.Consumed, m.Window.Possible())
}

// Title renders the month heading, e.g. "March 2024"
func (m MonthView) Title() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Summary is the stats strip shown above the calendars.
type Summary struct {
	TodayConsumed  int
	WeeklyPercent  int
	MonthlyPercent int
	Streak         int
}

// Daily returns the record of key
func Daily(r stats.Reader, key string) DayView {
	return DayView{Key: key, Record: r.Read(key)}
}

// Weekly returns the seven days ending at ref.
func Weekly(r stats.Reader, ref time.Time) WeekView {
	window := stats.WeeklyWindow(ref)
	days := cells(r, window, ref)
	return WeekView{
		Days:   days,
		Window: window,
		Total:  total(days),
	}
}

// Monthly returns the month offset months away from ref's month.
func Monthly(r stats.Reader, ref time.Time, offset int) MonthView {
	first := utils.FirstOfMonth(ref, offset)
	window := stats.MonthlyWindow(ref, offset)
	days := cells(r, window, ref)
	t := total(days)

	return MonthView{
		Year:          first.Year(),
		Month:         first.Month(),
		LeadingBlanks: int(first.Weekday()),
		Days:          days,
		Window:        window,
		Total:         t,
		LunchCount:    t.Lunch,
		DinnerCount:   t.Dinner,
	}
}

// BuildSummary computes the stats strip for ref and the displayed month.
func BuildSummary(r stats.Reader, ref time.Time, offset int) Summary {
	return Summary{
		TodayConsumed:  r.Read(utils.EncodeDateKey(ref)).Consumed(),
		WeeklyPercent:  stats.WeeklyWindow(ref).Percent(r),
		MonthlyPercent: stats.MonthlyWindow(ref, offset).Percent(r),
		Streak:         stats.Streak(r, ref),
	}
}

func cells(r stats.Reader, w stats.Window, ref time.Time) []DayCell {
	today := utils.EncodeDateKey(ref)
	days := make([]DayCell, 0, len(w.Keys))
	for _, key := range w.Keys {
		date, err := utils.DecodeDateKey(key, ref.Location())
		if err != nil {
			continue
		}
		days = append(days, DayCell{
			Key:     key,
			Date:    date,
			Weekday: date.Weekday(),
			Record:  r.Read(key),
			IsToday: key == today,
		})
	}
	return days
}

func total(days []DayCell) stats.Total {
	var t stats.Total
	for _, d := range days {
		if d.Record.Lunch {
			t.Lunch++
		}
		if d.Record.Dinner {
			t.Dinner++
		}
		t.Consumed += d.Record.Consumed()
		t.Days++
	}
	return t
}
