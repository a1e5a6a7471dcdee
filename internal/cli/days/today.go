package days

import (
	"strings"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/utils"
	"github.com/julianstephens/rotipani/internal/view"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	name, err := ctx.Meals.UserName()
	if err != nil {
		return err
	}

	today := ctx.Today()
	day := view.Daily(ctx.Meals, utils.EncodeDateKey(today))

	ctx.Println(cli.Greeting(name))
	cli.WriteDay(ctx.Out, today.Format(constants.DisplayShortDateFormat), day.Record, ctx.Location)
	ctx.Println()
	cli.WriteSummary(ctx.Out, view.BuildSummary(ctx.Meals, today, 0))
	return nil
}

func joinName(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}
