package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
	"github.com/julianstephens/rotipani/internal/view"
)

const (
	markBoth = "●"
	markOne  = "◐"
	markNone = "○"
)

// Greeting is the header line shown above today's meals
func Greeting(name string) string {
	if name == "" {
		return "Hello! 👋"
	}
	return fmt.Sprintf("Hello, %s! 👋", name)
}

// MealStatus describes one slot of a day
func MealStatus(record models.DayRecord, slot models.MealSlot, loc *time.Location) string {
	consumed, at := record.Slot(slot)
	if !consumed {
		return "Not consumed yet"
	}
	if at == nil {
		return "✓ Consumed"
	}
	return "✓ Consumed at " + utils.FormatMealTime(at, loc)
}

// Mark is the calendar glyph of a day
func Mark(record models.DayRecord) string {
	switch record.Consumed() {
	case constants.MealsPerDay:
		return markBoth
	case 0:
		return markNone
	default:
		return markOne
	}
}

func check(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

// WriteDay prints both slots of a day
func WriteDay(w io.Writer, title string, record models.DayRecord, loc *time.Location) {
	fmt.Fprintln(w, title)
	for _, slot := range models.MealSlots {
		fmt.Fprintf(w, "  %-7s %s\n", slot.Title()+":", MealStatus(record, slot, loc))
	}
}

// WriteSummary prints the stats strip
func WriteSummary(w io.Writer, s view.Summary) {
	fmt.Fprintf(w, "Today: %d/%d   Week: %d%%   Month: %d%%   Streak: %d day%s\n",
		s.TodayConsumed, constants.MealsPerDay, s.WeeklyPercent, s.MonthlyPercent, s.Streak, plural(s.Streak))
}

// WriteWeek prints one line per day of a week view
func WriteWeek(w io.Writer, week view.WeekView, loc *time.Location) {
	if len(week.Days) == 0 {
		return
	}
	first, last := week.Days[0].Date, week.Days[len(week.Days)-1].Date
	fmt.Fprintf(w, "%s to %s\n\n", first.Format(constants.DisplayShortDateFormat), last.Format(constants.DisplayShortDateFormat))

	for _, d := range week.Days {
		today := " "
		if d.IsToday {
			today = "*"
		}
		fmt.Fprintf(w, "%s %s  %s  Lunch %s %-8s  Dinner %s %-8s\n",
			today,
			d.Date.Format(constants.DisplayShortDateFormat),
			Mark(d.Record),
			check(d.Record.Lunch), utils.FormatMealTime(d.Record.LunchTime, loc),
			check(d.Record.Dinner), utils.FormatMealTime(d.Record.DinnerTime, loc),
		)
	}

	fmt.Fprintf(w, "\nMeals: %d/%d (%d%%)   Lunch: %d   Dinner: %d\n",
		week.Total.Consumed, week.Window.Possible(), week.Percent(), week.Total.Lunch, week.Total.Dinner)
}

// WriteMonth prints a Sunday-first calendar grid
func WriteMonth(w io.Writer, month view.MonthView) {
	fmt.Fprintf(w, "%s\n", month.Title())
	fmt.Fprintln(w, "Su  Mo  Tu  We  Th  Fr  Sa")

	var line strings.Builder
	line.WriteString(strings.Repeat("    ", month.LeadingBlanks))
	col := month.LeadingBlanks
	for _, d := range month.Days {
		sep := " "
		if d.IsToday {
			sep = "*"
		}
		fmt.Fprintf(&line, "%2d%s%s", d.Date.Day(), Mark(d.Record), sep)
		col++
		if col == 7 {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
			col = 0
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	fmt.Fprintf(w, "\nMeals: %d/%d (%d%%)   Lunch: %d   Dinner: %d\n",
		month.Total.Consumed, month.Window.Possible(), month.Percent(), month.LunchCount, month.DinnerCount)
	fmt.Fprintf(w, "%s both  %s one  %s none\n", markBoth, markOne, markNone)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
