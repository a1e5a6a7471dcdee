package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
	"github.com/julianstephens/rotipani/internal/view"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateWelcome, StateEditing:
		content = m.form.View()
	case StateToday:
		content = m.viewToday()
	case StateWeek:
		content = m.viewWeek()
	case StateMonth:
		content = m.viewMonth()
	}

	parts := []string{m.viewHeader()}
	if m.state != StateWelcome {
		parts = append(parts, m.viewTabs())
	}
	parts = append(parts, docStyle.Render(content))
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	if m.state != StateWelcome && m.state != StateEditing {
		parts = append(parts, m.help.View(m))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	return titleStyle.Render(cli.Greeting(m.userName)) + "  " +
		mutedStyle.Render(m.today().Format(constants.DisplayShortDateFormat))
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Week", "Month"} {
		if m.state == SessionState(i) || (m.state == StateEditing && m.previousState == SessionState(i)) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) mealLine(record models.DayRecord, slot models.MealSlot, hotkey string) string {
	consumed, _ := record.Slot(slot)
	status := cli.MealStatus(record, slot, m.loc)
	if consumed {
		status = consumedStyle.Render(status)
	} else {
		status = mutedStyle.Render(status)
	}
	return fmt.Sprintf("[%s] %-7s %s", hotkey, slot.Title()+":", status)
}

func (m Model) viewToday() string {
	today := m.today()
	day := view.Daily(m.meals, utils.EncodeDateKey(today))
	summary := view.BuildSummary(m.meals, today, m.monthOffset)

	var b strings.Builder
	b.WriteString(m.mealLine(day.Record, models.MealLunch, "1") + "\n")
	b.WriteString(m.mealLine(day.Record, models.MealDinner, "2") + "\n\n")
	fmt.Fprintf(&b, "Today %d/%d   Week %d%%   Month %d%%   🔥 %d",
		summary.TodayConsumed, constants.MealsPerDay, summary.WeeklyPercent, summary.MonthlyPercent, summary.Streak)
	return b.String()
}

func (m Model) viewWeek() string {
	week := m.week()

	var b strings.Builder
	for i, d := range week.Days {
		line := fmt.Sprintf("%-10s %s  Lunch %-8s  Dinner %-8s",
			d.Date.Format(constants.DisplayShortDateFormat),
			cli.Mark(d.Record),
			utils.FormatMealTime(d.Record.LunchTime, m.loc),
			utils.FormatMealTime(d.Record.DinnerTime, m.loc),
		)
		switch {
		case i == m.weekCursor:
			line = cursorStyle.Render(line)
		case d.IsToday:
			line = todayStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\nMeals %d/%d (%d%%)   Lunch %d   Dinner %d",
		week.Total.Consumed, week.Window.Possible(), week.Percent(), week.Total.Lunch, week.Total.Dinner)
	return b.String()
}

func (m Model) viewMonth() string {
	month := m.month()

	var b strings.Builder
	b.WriteString(titleStyle.Render(month.Title()) + "\n")
	b.WriteString(mutedStyle.Render("Su  Mo  Tu  We  Th  Fr  Sa") + "\n")

	col := month.LeadingBlanks
	b.WriteString(strings.Repeat("    ", col))
	for i, d := range month.Days {
		cell := fmt.Sprintf("%2d%s", d.Date.Day(), cli.Mark(d.Record))
		switch {
		case i == m.monthCursor:
			cell = cursorStyle.Render(cell)
		case d.IsToday:
			cell = todayStyle.Render(cell)
		}
		b.WriteString(cell + " ")
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nMeals %d/%d (%d%%)   Lunch %d   Dinner %d",
		month.Total.Consumed, month.Window.Possible(), month.Percent(), month.LunchCount, month.DinnerCount)
	return b.String()
}
