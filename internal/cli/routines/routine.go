package routines

import (
	"fmt"
	"time"

	"github.com/julianstephens/skintrack/internal/cli"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/routine"
)

type ShowCmd struct {
	Index int `help:"How many generations back to show (0 = current)." short:"i" default:"0"`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	var views []models.EntryView
	if c.Index == 0 {
		views, err = ctx.Routines.CurrentRoutine(ctx.Context(), user)
	} else {
		views, err = ctx.Routines.RoutineAt(ctx.Context(), user, c.Index)
	}
	if err != nil {
		return err
	}

	label := "Current routine"
	if c.Index > 0 {
		label = fmt.Sprintf("Routine %d back", c.Index)
	}
	ctx.Println(cli.Title(label))
	if len(views) == 0 {
		ctx.Println(cli.Muted("No entries. Use 'skintrack routine new' or 'skintrack routine add'."))
		return nil
	}
	ctx.Println(cli.RoutineTable(views))
	return nil
}

type HistoryCmd struct{}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	numbers, err := ctx.Routines.History(ctx.Context(), user)
	if err != nil {
		return err
	}
	if len(numbers) == 0 {
		ctx.Println("No routines yet")
		return nil
	}

	ctx.Println(cli.Title("Generations (newest first):"))
	for i, n := range numbers {
		marker := ""
		if i == 0 {
			marker = " (current)"
		}
		ctx.Printf("  [%d] generation %d%s\n", i, n, marker)
	}
	return nil
}

type NewCmd struct {
	Entries []string `name:"entry" short:"e" help:"Entry as productID,timeOfDay,frequency,HH:MM,HH:MM. Repeatable."`
}

func (c *NewCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	specs := make([]models.EntrySpec, 0, len(c.Entries))
	for _, raw := range c.Entries {
		spec, err := cli.ParseEntrySpec(raw)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	number, err := ctx.Routines.StartNewRoutine(ctx.Context(), user, specs)
	if err != nil {
		return err
	}
	ctx.Printf("Started routine generation %d with %d entries\n", number, len(specs))
	return nil
}

type EmptyCmd struct{}

func (c *EmptyCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	number, err := ctx.Routines.StartEmptyRoutine(ctx.Context(), user)
	if err != nil {
		return err
	}
	ctx.Printf("Started empty routine generation %d\n", number)
	return nil
}

type SuggestCmd struct {
	Seed            *uint64 `help:"Seed for reproducible suggestions."`
	Count           int     `help:"Number of products to schedule." default:"3"`
	ProductDuration bool    `help:"Size slots from each product's duration instead of one hour." name:"product-duration"`
}

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	seed := uint64(time.Now().UnixNano())
	if c.Seed != nil {
		seed = *c.Seed
	}
	policy := routine.NewRandomPolicy(seed)
	policy.Count = c.Count
	if c.ProductDuration {
		policy.SlotMinutes = routine.ProductDurationSlot
	}
	accessor := routine.New(ctx.Store, ctx.Store, routine.WithPolicy(policy))

	number, specs, err := accessor.StartSuggestedRoutine(ctx.Context(), user)
	if err != nil {
		return err
	}
	ctx.Printf("Started suggested routine generation %d with %d entries\n", number, len(specs))

	views, err := accessor.CurrentRoutine(ctx.Context(), user)
	if err != nil {
		return err
	}
	ctx.Println(cli.RoutineTable(views))
	return nil
}
