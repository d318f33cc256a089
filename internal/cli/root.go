package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/skintrack/internal/analytics"
	"github.com/julianstephens/skintrack/internal/constants"
	apperr "github.com/julianstephens/skintrack/internal/errors"
	"github.com/julianstephens/skintrack/internal/models"
	"github.com/julianstephens/skintrack/internal/routine"
	"github.com/julianstephens/skintrack/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx       context.Context
	Store     storage.Provider
	Routines  *routine.Accessor
	Analytics *analytics.Engine
	Username  string
	Out       io.Writer
	// Confirm asks a yes/no question. Defaults to an interactive huh prompt.
	Confirm func(title string) (bool, error)
}

func NewContext(ctx context.Context, store storage.Provider, username string) *Context {
	return &Context{
		Ctx:       ctx,
		Store:     store,
		Routines:  routine.New(store, store),
		Analytics: analytics.New(store, store),
		Username:  username,
		Out:       os.Stdout,
		Confirm:   confirmPrompt,
	}
}

func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// User returns the acting username or an error asking for --user.
func (c *Context) User() (string, error) {
	u, err := models.ValidateUsername(c.Username)
	if err != nil {
		return "", fmt.Errorf("%w: set --user or %s_USER", apperr.ErrInvalidInput, strings.ToUpper(constants.AppName))
	}
	return u, nil
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Confirmed returns true when skip is set or the user accepts the prompt.
func (c *Context) Confirmed(skip bool, title string) (bool, error) {
	if skip {
		return true, nil
	}
	confirm := c.Confirm
	if confirm == nil {
		confirm = confirmPrompt
	}
	return confirm(title)
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

// ResolveProduct looks a product up by numeric id or by exact name.
func (c *Context) ResolveProduct(ref string) (models.Product, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return c.Store.GetProductByID(c.Context(), id)
	}
	return c.Store.GetProductByName(c.Context(), ref)
}

// ResolveProductID is like ResolveProduct but accepts ids of deleted products,
// so stale entries can still be removed.
func (c *Context) ResolveProductID(ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, nil
	}
	p, err := c.Store.GetProductByName(c.Context(), ref)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// ParseEntrySpec parses "productID,timeOfDay,frequency,HH:MM,HH:MM".
func ParseEntrySpec(s string) (models.EntrySpec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return models.EntrySpec{}, fmt.Errorf("%w: entry %q must be productID,timeOfDay,frequency,start,end", apperr.ErrInvalidInput, s)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return models.EntrySpec{}, fmt.Errorf("%w: product id %q is not a number", apperr.ErrInvalidInput, parts[0])
	}
	return models.NewEntrySpec(id, parts[1], parts[2], parts[3], parts[4])
}
