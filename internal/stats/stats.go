// Package stats computes meal totals, completion percentages and
// streaks over windows of date keys.
package stats

import (
	"time"

	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
)

// Reader is anything that can return the record of a day.
type Reader interface {
	Read(key string) models.DayRecord
}

// Window is an ordered run of date keys.
type Window struct {
	Keys []string
}

// Possible is the number of meals the window could hold
func (w Window) Possible() int {
	return constants.MealsPerDay * len(w.Keys)
}

// Consumed sums the consumed meals of every day in the window
func (w Window) Consumed(r Reader) int {
	return Totals(r, w.Keys).Consumed
}

// Percent is the window's completion percentage
func (w Window) Percent(r Reader) int {
	return Percent(w.Consumed(r), w.Possible())
}

// WeeklyWindow returns the seven days ending at ref, oldest first.
func WeeklyWindow(ref time.Time) Window {
	keys := make([]string, 0, constants.DaysPerWeekWindow)
	for i := constants.DaysPerWeekWindow - 1; i >= 0; i-- {
		keys = append(keys, utils.EncodeDateKey(utils.AddDays(ref, -i)))
	}
	return Window{Keys: keys}
}

// MonthlyWindow returns every day of the month offset months from ref's
// month, in ascending order.
func MonthlyWindow(ref time.Time, offset int) Window {
	first := utils.FirstOfMonth(ref, offset)
	n := utils.DaysInMonth(first.Year(), first.Month())

	keys := make([]string, 0, n)
	for d := 0; d < n; d++ {
		keys = append(keys, utils.EncodeDateKey(utils.AddDays(first, d)))
	}
	return Window{Keys: keys}
}

// Streak counts consecutive days with at least one meal, walking back
// from ref. The scan stops at the first empty day or after
// StreakLookbackDays days.
func Streak(r Reader, ref time.Time) int {
	streak := 0
	for i := 0; i < constants.StreakLookbackDays; i++ {
		if !r.Read(utils.EncodeDateKey(utils.AddDays(ref, -i))).Any() {
			break
		}
		streak++
	}
	return streak
}

// Percent returns consumed/possible as a whole percentage rounded half
// up, or 0 when nothing was possible.
func Percent(consumed, possible int) int {
	if possible <= 0 {
		return 0
	}
	return (200*consumed + possible) / (2 * possible)
}

// Total is the sum of a set of days
type Total struct {
	Consumed int
	Lunch    int
	Dinner   int
	Days     int
}

// Totals sums the records of keys
func Totals(r Reader, keys []string) Total {
	var t Total
	for _, k := range keys {
		record := r.Read(k)
		if record.Lunch {
			t.Lunch++
		}
		if record.Dinner {
			t.Dinner++
		}
		t.Consumed += record.Consumed()
		t.Days++
	}
	return t
}
