package days

import (
	"github.com/julianstephens/rotipani/internal/cli"
)

type NameCmd struct {
	Name []string `arg:"" optional:"" help:"Display name. Omit to show the current one."`
}

func (c *NameCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	if len(c.Name) == 0 {
		name, err := ctx.Meals.UserName()
		if err != nil {
			return err
		}
		if name == "" {
			ctx.Println("No name set. Use 'rotipani name <name>' to set one.")
			return nil
		}
		ctx.Println(name)
		return nil
	}

	name := joinName(c.Name)
	if err := ctx.Meals.SetUserName(name); err != nil {
		return err
	}
	ctx.Println(cli.Greeting(name))
	return nil
}
