package days

import (
	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/stats"
	"github.com/julianstephens/rotipani/internal/view"
)

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	n := stats.Streak(ctx.Meals, ctx.Today())
	switch n {
	case 0:
		ctx.Println("No streak yet. Log a meal today to start one.")
	case 1:
		ctx.Println("🔥 1 day streak")
	default:
		ctx.Printf("🔥 %d day streak\n", n)
	}
	return nil
}

type StatsCmd struct {
	Offset int `short:"o" help:"Month offset used for the monthly percentage." default:"0"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	cli.WriteSummary(ctx.Out, view.BuildSummary(ctx.Meals, ctx.Today(), c.Offset))
	return nil
}
