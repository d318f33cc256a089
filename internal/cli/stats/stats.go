package stats

import (
	"sort"

	"github.com/julianstephens/skintrack/internal/cli"
)

type MeanCmd struct{}

func (c *MeanCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	means, err := ctx.Analytics.MeanPerGeneration(ctx.Context(), user)
	if err != nil {
		return err
	}
	if len(means) == 0 {
		ctx.Println("No photos tagged with a routine yet")
		return nil
	}

	gens := make([]int, 0, len(means))
	for g := range means {
		gens = append(gens, g)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(gens)))

	ctx.Println(cli.Title("Mean blemishes per generation:"))
	for _, g := range gens {
		ctx.Printf("  generation %d: %.1f\n", g, means[g])
	}
	return nil
}

type SeriesCmd struct{}

func (c *SeriesCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	points, err := ctx.Analytics.CurrentGenerationSeries(ctx.Context(), user)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		ctx.Println("No photos for the current routine")
		return nil
	}
	ctx.Println(cli.SeriesTable(points))
	return nil
}

type SummaryCmd struct{}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	summaries, err := ctx.Analytics.Summaries(ctx.Context(), user)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		ctx.Println("No photos tagged with a routine yet")
		return nil
	}
	ctx.Println(cli.SummaryTable(summaries))
	return nil
}
