package photos

import (
	"fmt"
	"time"

	"github.com/julianstephens/skintrack/internal/cli"
	apperr "github.com/julianstephens/skintrack/internal/errors"
)

type AddCmd struct {
	Blemishes int    `arg:"" help:"Number of blemishes counted in the photo."`
	Path      string `help:"Where the image is stored."`
	At        string `help:"Capture time (RFC3339). Defaults to now."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	var at time.Time
	if c.At != "" {
		at, err = time.Parse(time.RFC3339, c.At)
		if err != nil {
			return fmt.Errorf("%w: capture time must be RFC3339: %v", apperr.ErrInvalidInput, err)
		}
	}

	p, err := ctx.Store.RecordPhoto(ctx.Context(), user, c.Blemishes, c.Path, at)
	if err != nil {
		return err
	}

	gen := "no routine"
	if p.Generation != nil {
		gen = fmt.Sprintf("generation %d", *p.Generation)
	}
	ctx.Printf("Recorded photo %s with %d blemishes (%s)\n", p.ID, p.BlemishCount, gen)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	photos, err := ctx.Store.ListPhotosForUser(ctx.Context(), user)
	if err != nil {
		return err
	}
	if len(photos) == 0 {
		ctx.Println("No photos recorded")
		return nil
	}
	ctx.Println(cli.PhotoTable(photos))
	return nil
}
