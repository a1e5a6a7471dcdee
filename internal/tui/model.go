package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/rotipani/internal/export"
	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/meals"
	"github.com/julianstephens/rotipani/internal/utils"
	"github.com/julianstephens/rotipani/internal/view"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateWeek
	StateMonth
	StateWelcome
	StateEditing
)

const tabCount = 3

type Model struct {
	meals         *meals.Store
	loc           *time.Location
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	form          *huh.Form
	nameForm      *NameFormModel
	editForm      *EditFormModel
	session       *meals.EditSession
	copy          func(string) error

	userName    string
	monthOffset int
	weekCursor  int
	monthCursor int
	status      string

	quitting bool
	width    int
	height   int
}

// NewModel starts on the welcome form when no display name is stored,
// otherwise on the Today tab.
func NewModel(store *meals.Store, loc *time.Location) Model {
	if loc == nil {
		loc = time.Local
	}

	m := Model{
		meals: store,
		loc:   loc,
		state: StateToday,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		copy:  export.CopyToClipboard,
	}

	name, err := store.UserName()
	if err != nil {
		logger.Warn("Failed to read display name", "error", err)
	}
	m.userName = name
	m.resetCursors()

	if name == "" {
		m.nameForm = &NameFormModel{}
		m.form = NewNameForm(m.nameForm)
		m.state = StateWelcome
	}

	return m
}

func (m Model) Init() tea.Cmd {
	if m.state == StateWelcome {
		return m.form.Init()
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Lunch, m.keys.Dinner}
	switch m.state {
	case StateWeek:
		keys = append(keys, m.keys.Enter)
	case StateMonth:
		keys = append(keys, m.keys.Enter, m.keys.PrevMonth, m.keys.NextMonth)
	}
	return append(keys, m.keys.Copy, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) today() time.Time {
	return utils.StartOfDay(m.meals.Now())
}

func (m Model) week() view.WeekView {
	return view.Weekly(m.meals, m.today())
}

func (m Model) month() view.MonthView {
	return view.Monthly(m.meals, m.today(), m.monthOffset)
}

// resetCursors puts both cursors on today, or on the first day of a
// month that does not contain today.
func (m *Model) resetCursors() {
	m.weekCursor = len(m.week().Days) - 1
	m.monthCursor = 0
	for i, d := range m.month().Days {
		if d.IsToday {
			m.monthCursor = i
			break
		}
	}
}

// selectedKey is the date key under the cursor of the current tab
func (m Model) selectedKey() (string, time.Time) {
	switch m.state {
	case StateWeek:
		days := m.week().Days
		if m.weekCursor >= 0 && m.weekCursor < len(days) {
			return days[m.weekCursor].Key, days[m.weekCursor].Date
		}
	case StateMonth:
		days := m.month().Days
		if m.monthCursor >= 0 && m.monthCursor < len(days) {
			return days[m.monthCursor].Key, days[m.monthCursor].Date
		}
	}
	today := m.today()
	return utils.EncodeDateKey(today), today
}
