package products

import (
	"fmt"

	"github.com/julianstephens/skintrack/internal/cli"
	"github.com/julianstephens/skintrack/internal/models"
)

type AddCmd struct {
	Name     string  `arg:"" help:"Product name."`
	Price    float64 `help:"Price." default:"0"`
	Duration int     `help:"Application time in minutes." default:"0"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	p, err := models.NewProduct(c.Name, c.Price, c.Duration)
	if err != nil {
		return err
	}
	p, err = ctx.Store.AddProduct(ctx.Context(), p)
	if err != nil {
		return err
	}
	ctx.Printf("Added product: %s (ID: %d)\n", p.Name, p.ID)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	products, err := ctx.Store.ListProducts(ctx.Context())
	if err != nil {
		return err
	}
	if len(products) == 0 {
		ctx.Println("No products found")
		return nil
	}
	ctx.Println(cli.ProductTable(products))
	return nil
}

type DeleteCmd struct {
	ID  int64 `arg:"" help:"Product ID to delete."`
	Yes bool  `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Store.GetProductByID(ctx.Context(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to find product with ID %d: %w", c.ID, err)
	}

	ok, err := ctx.Confirmed(c.Yes, fmt.Sprintf("Delete %s? Routines that use it will show it as Unknown.", p.Name))
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled")
		return nil
	}

	if err := ctx.Store.DeleteProduct(ctx.Context(), c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted product: %s (ID: %d)\n", p.Name, c.ID)
	return nil
}
