package tui

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/rotipani/internal/meals"
)

// NameFormModel backs the welcome form
type NameFormModel struct {
	Name string
}

// EditFormModel backs the edit-by-date form
type EditFormModel struct {
	Lunch  bool
	Dinner bool
}

func NewNameForm(fm *NameFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Welcome! What's your name?").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return meals.ErrEmptyName
					}
					return nil
				}),
		),
	)
}

func NewEditForm(title string, fm *EditFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewConfirm().
				Title("Lunch").
				Affirmative("Consumed").
				Negative("Not consumed").
				Value(&fm.Lunch),
			huh.NewConfirm().
				Title("Dinner").
				Affirmative("Consumed").
				Negative("Not consumed").
				Value(&fm.Dinner),
		),
	)
}
