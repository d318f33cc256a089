package routines

import (
	"github.com/julianstephens/skintrack/internal/cli"
)

type AddCmd struct {
	Product   string `arg:"" help:"Product ID or name."`
	TimeOfDay string `arg:"" name:"time-of-day" help:"morning, afternoon or evening."`
	Frequency string `arg:"" help:"daily, weekly or monthly."`
	Start     string `arg:"" help:"Start time (HH:MM)."`
	End       string `arg:"" help:"End time (HH:MM)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	product, err := ctx.ResolveProduct(c.Product)
	if err != nil {
		return err
	}

	if err := ctx.Routines.AddEntry(ctx.Context(), user, product.ID, c.TimeOfDay, c.Frequency, c.Start, c.End); err != nil {
		return err
	}
	ctx.Printf("Added %s to the current routine (%s-%s)\n", product.Name, c.Start, c.End)
	return nil
}

type RemoveCmd struct {
	Product string `arg:"" help:"Product ID or name."`
}

func (c *RemoveCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	id, err := ctx.ResolveProductID(c.Product)
	if err != nil {
		return err
	}

	if err := ctx.Routines.RemoveEntry(ctx.Context(), user, id); err != nil {
		return err
	}
	ctx.Printf("Removed product %d from the current routine\n", id)
	return nil
}
