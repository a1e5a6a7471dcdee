package days

import (
	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/meals"
	"github.com/julianstephens/rotipani/internal/models"
)

// EditCmd sets the meals of any day. Re-confirming a meal keeps the
// time it was first logged.
type EditCmd struct {
	Date   string `arg:"" help:"Day to edit (YYYY-MM-DD, 'today' or 'yesterday')."`
	Lunch  *bool  `help:"Set lunch consumed (--lunch / --lunch=false)."`
	Dinner *bool  `help:"Set dinner consumed (--dinner / --dinner=false)."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	day, key, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	session, err := meals.OpenEdit(ctx.Meals, key)
	if err != nil {
		return err
	}
	title := day.Format(constants.DisplayLongDateFormat)

	if c.Lunch == nil && c.Dinner == nil {
		cli.WriteDay(ctx.Out, title, session.Initial(), ctx.Location)
		return nil
	}

	if c.Lunch != nil {
		session.Set(models.MealLunch, *c.Lunch)
	}
	if c.Dinner != nil {
		session.Set(models.MealDinner, *c.Dinner)
	}

	if !session.Dirty() {
		ctx.Println("No changes.")
		cli.WriteDay(ctx.Out, title, session.Initial(), ctx.Location)
		return nil
	}

	record, err := session.Save(ctx.Meals)
	if err != nil {
		return err
	}
	ctx.Println("✓ Saved")
	cli.WriteDay(ctx.Out, title, record, ctx.Location)
	return nil
}
