package data

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/rotipani/internal/cli"
	"github.com/julianstephens/rotipani/internal/export"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// TableCmd lists every logged day, newest first.
type TableCmd struct {
	Limit int `short:"n" help:"Show at most this many days (0 for all)." default:"0"`
}

func (c *TableCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	rows, err := export.CollectRows(ctx.Meals, ctx.Location)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		ctx.Println("No meals logged yet.")
		return nil
	}
	if c.Limit > 0 && len(rows) > c.Limit {
		rows = rows[:c.Limit]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Day", "Lunch", "Lunch Time", "Dinner", "Dinner Time", "Total").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.Date, r.Weekday, r.LunchLabel(), r.LunchTime, r.DinnerLabel(), r.DinnerTime, r.Total())
	}

	ctx.Println(t.Render())
	ctx.Printf("%d day%s logged\n", len(rows), plural(len(rows)))
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
