package days

import (
	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/models"
	"github.com/julianstephens/rotipani/internal/utils"
)

type ToggleCmd struct {
	Meal string `arg:"" help:"Meal to toggle for today (lunch or dinner, any case)."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	slot, err := models.ParseMealSlot(c.Meal)
	if err != nil {
		return err
	}

	record, err := ctx.Meals.Toggle(utils.EncodeDateKey(ctx.Today()), slot)
	if err != nil {
		return err
	}

	ctx.Printf("%s: %s\n", slot.Title(), cli.MealStatus(record, slot, ctx.Location))
	return nil
}
