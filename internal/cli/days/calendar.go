package days

import (
	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/view"
)

type WeekCmd struct {
	Date string `help:"Last day of the week (YYYY-MM-DD, default: today)." default:""`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ref, _, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	cli.WriteWeek(ctx.Out, view.Weekly(ctx.Meals, ref), ctx.Location)
	return nil
}

type MonthCmd struct {
	Offset int    `short:"o" help:"Months from the reference month (-1 is the previous month)." default:"0"`
	Date   string `help:"Reference day (YYYY-MM-DD, default: today)." default:""`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	ref, _, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	cli.WriteMonth(ctx.Out, view.Monthly(ctx.Meals, ref, c.Offset))
	return nil
}
