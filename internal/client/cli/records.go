package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/propkeeper/internal/client/models"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func collectionNames() string {
	names := make([]string, 0, len(models.Collections()))
	for _, c := range models.Collections() {
		names = append(names, c.Name())
	}
	return strings.Join(names, ", ")
}

// List prints one page of a collection: list <resource> [page].
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("list <" + collectionNames() + "> [page]")
	}
	c, err := models.ParseCollection(args[0])
	if err != nil {
		return err
	}
	page := 1
	if len(args) == 2 {
		if page, err = strconv.Atoi(args[1]); err != nil || page < 1 {
			return fmt.Errorf("invalid page %q", args[1])
		}
	}

	listing, err := a.resources.List(ctx, c, page)
	if err != nil {
		return err
	}

	if listing.Offline {
		fmt.Fprintln(a.out, "(offline: showing cached records)")
	}
	if len(listing.Records) == 0 {
		fmt.Fprintf(a.out, "No %s\n", c.Name())
		return nil
	}
	for _, rec := range listing.Records {
		fmt.Fprintf(a.out, "#%-6d %s\n", rec.GetID(), rec.Summary())
	}

	footer := fmt.Sprintf("page %d, %d %s in total", listing.Page, listing.Count, c.Name())
	if listing.HasNext {
		footer += fmt.Sprintf(", next: list %s %d", c.Name(), listing.Page+1)
	}
	fmt.Fprintln(a.out, footer)
	return nil
}

// Show prints a single record: show <resource> <id>.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("show <resource> <id>")
	}
	c, err := models.ParseCollection(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	d, err := a.resources.Get(ctx, c, id)
	if err != nil {
		return err
	}

	if d.Offline {
		fmt.Fprintln(a.out, "(offline: cached copy)")
	}
	fmt.Fprintln(a.out, d.Record.Summary())

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, d.Raw, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(a.out, pretty.String())
	return nil
}

// Add reads name=value fields and creates a record: add <resource>.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("add <resource>")
	}
	c, err := models.ParseCollection(args[0])
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("New %s, required: %s", c.Name(), strings.Join(models.RequiredFields(c), ", "))
	lines, err := GetFields(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	fields, err := models.FieldsFromStrings(lines)
	if err != nil {
		return err
	}

	rec, err := a.resources.Create(ctx, c, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created #%d %s\n", rec.GetID(), rec.Summary())
	return nil
}

// Delete removes a record: delete <resource> <id>.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("delete <resource> <id>")
	}
	c, err := models.ParseCollection(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	if err := a.resources.Delete(ctx, c, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s #%d\n", c.Name(), id)
	return nil
}
