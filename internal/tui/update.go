package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/export"
	"github.com/julianstephens/rotipani/internal/logger"
	"github.com/julianstephens/rotipani/internal/meals"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)
	case StateEditing:
		return m.updateEditing(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
	case key.Matches(keyMsg, m.keys.Lunch):
		m.toggleToday(models.MealLunch)
	case key.Matches(keyMsg, m.keys.Dinner):
		m.toggleToday(models.MealDinner)
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.shiftMonth(-1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.shiftMonth(1)
	case key.Matches(keyMsg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(keyMsg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-m.rowStep())
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(m.rowStep())
	case key.Matches(keyMsg, m.keys.Copy):
		m.copyTable()
	case key.Matches(keyMsg, m.keys.Enter):
		return m.startEdit()
	}

	return m, nil
}

func (m Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveName(); err != nil {
			m.status = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = StateToday
		return m, nil
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) saveName() error {
	if err := m.meals.SetUserName(m.nameForm.Name); err != nil {
		return err
	}
	name, err := m.meals.UserName()
	if err != nil {
		return err
	}
	m.userName = name
	return nil
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.cancelEdit()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.finishEdit(); err != nil {
			m.status = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		return m, nil
	case huh.StateAborted:
		m.cancelEdit()
		return m, nil
	}
	return m, cmd
}

func (m *Model) startEdit() (tea.Model, tea.Cmd) {
	dayKey, date := m.selectedKey()
	session, err := meals.OpenEdit(m.meals, dayKey)
	if err != nil {
		m.status = err.Error()
		return *m, nil
	}

	m.session = &session
	m.editForm = &EditFormModel{Lunch: session.Lunch, Dinner: session.Dinner}
	m.form = NewEditForm(date.Format(constants.DisplayLongDateFormat), m.editForm)
	m.previousState = m.state
	m.state = StateEditing
	return *m, m.form.Init()
}

// finishEdit writes the form values through the edit session. Nothing
// is written when the values did not change.
func (m *Model) finishEdit() error {
	m.session.Set(models.MealLunch, m.editForm.Lunch)
	m.session.Set(models.MealDinner, m.editForm.Dinner)

	if m.session.Dirty() {
		if _, err := m.session.Save(m.meals); err != nil {
			return err
		}
		m.status = "✓ Saved"
	}
	m.cancelEdit()
	return nil
}

func (m *Model) cancelEdit() {
	m.session = nil
	m.editForm = nil
	m.form = nil
	m.state = m.previousState
}

func (m *Model) toggleToday(slot models.MealSlot) {
	if _, err := m.meals.Toggle(utils.EncodeDateKey(m.today()), slot); err != nil {
		logger.Error("Failed to toggle meal", "slot", slot, "error", err)
		m.status = fmt.Sprintf("Failed to save %s: %v", slot, err)
	}
}

func (m *Model) shiftMonth(delta int) {
	m.monthOffset += delta
	m.monthCursor = 0
	for i, d := range m.month().Days {
		if d.IsToday {
			m.monthCursor = i
			break
		}
	}
}

func (m Model) rowStep() int {
	if m.state == StateMonth {
		return 7
	}
	return 1
}

func (m *Model) moveCursor(delta int) {
	switch m.state {
	case StateWeek:
		m.weekCursor = clamp(m.weekCursor+delta, 0, len(m.week().Days)-1)
	case StateMonth:
		m.monthCursor = clamp(m.monthCursor+delta, 0, len(m.month().Days)-1)
	}
}

func (m *Model) copyTable() {
	rows, err := export.CollectRows(m.meals, m.loc)
	if err != nil {
		m.status = err.Error()
		return
	}
	if err := m.copy(export.FormatText(rows)); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "✓ Data copied to clipboard!"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
