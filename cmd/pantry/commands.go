package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/recipes"
	"github.com/pantrymind/pantrymind/internal/services/consumption"
	"github.com/pantrymind/pantrymind/internal/services/pantry"
	"github.com/pantrymind/pantrymind/internal/util"
)

// cli runs the non-interactive commands against one kitchen.
type cli struct {
	svc       *pantry.Service
	engine    *consumption.Coordinator
	kitchenID string
	userID    string
	out       io.Writer
}

// consume handles: consume [-preview] [-notes TEXT] ITEM QTY [UNIT]
func (c *cli) consume(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("consume", flag.ContinueOnError)
	preview := fs.Bool("preview", false, "Show the batches that would be used without changing stock")
	notes := fs.String("notes", "", "Note recorded on each usage log")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 3 {
		return errors.New("usage: consume [-preview] ITEM QTY [UNIT]")
	}

	item, err := c.svc.FindItem(ctx, c.kitchenID, rest[0])
	if err != nil {
		return fmt.Errorf("finding item %q: %w", rest[0], err)
	}

	qty, err := decimal.NewFromString(rest[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", rest[1])
	}

	req := consumption.ManualRequest{
		ItemID:   item.ID,
		Quantity: qty,
		UserID:   c.userID,
		Notes:    *notes,
	}
	if len(rest) == 3 {
		req.Unit = rest[2]
	}

	var res *consumption.Result
	if *preview {
		res, err = c.engine.PreviewManual(ctx, req)
	} else {
		res, err = c.engine.ConsumeManual(ctx, req)
	}
	if err != nil {
		return err
	}

	c.printResult(res)
	return nil
}

// cook handles: cook [-preview] [-user ID] RECIPE.yaml
func (c *cli) cook(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cook", flag.ContinueOnError)
	preview := fs.Bool("preview", false, "Show the batches that would be used without changing stock")
	user := fs.String("user", c.userID, "Who is cooking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: cook [-preview] RECIPE.yaml")
	}

	recipe, err := recipes.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	req := consumption.RecipeRequest{
		KitchenID:   c.kitchenID,
		RecipeName:  recipe.Name,
		Ingredients: recipe.Ingredients,
		UserID:      *user,
		Servings:    recipe.Servings,
		Notes:       recipe.Notes,
	}

	var res *consumption.Result
	if *preview {
		res, err = c.engine.PreviewRecipe(ctx, req)
	} else {
		res, err = c.engine.ConsumeRecipe(ctx, req)
	}
	if err != nil {
		c.printRecipeProblems(err)
		return err
	}

	c.printResult(res)
	return nil
}

// info handles: info ITEM
func (c *cli) info(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: info ITEM")
	}

	item, err := c.svc.FindItem(ctx, c.kitchenID, args[0])
	if err != nil {
		return fmt.Errorf("finding item %q: %w", args[0], err)
	}

	info, err := c.svc.GetConsumptionInfo(ctx, item.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s: %s %s available\n", info.Item.Name, info.TotalAvailable, info.Item.Unit)
	if len(info.Batches) == 0 {
		fmt.Fprintln(c.out, "no active batches")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tQUANTITY\tEXPIRES\tADDED\tBY")
	for i, b := range info.Batches {
		expires := "-"
		if b.ExpiryDate != nil {
			expires = b.ExpiryDate.Format(util.DateFormat)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1, b.Quantity, expires, b.AddedAt.Format(util.DateTimeFormat), b.AddedBy)
	}
	return tw.Flush()
}

func (c *cli) printResult(r *consumption.Result) {
	verb := "would use"
	if r.Committed {
		verb = "used"
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, it := range r.Items {
		fmt.Fprintf(tw, "%s %s %s of %s\n", verb, it.Requested, it.Unit, it.ItemName)
		if it.UnitReview {
			fmt.Fprintf(tw, "  note: unit %q was not recognised; check the amount\n", it.Unit)
		}
		for _, a := range it.Allocations {
			expires := "no expiry"
			if a.ExpiryDate != nil {
				expires = "expires " + a.ExpiryDate.Format(util.DateFormat)
			}
			fmt.Fprintf(tw, "  batch %s\t-%s\t%s left\t%s\n",
				shortID(a.BatchID), a.QuantityConsumed, a.QuantityRemainingAfter, expires)
		}
	}
	tw.Flush()

	if r.MealLogID != "" {
		fmt.Fprintf(c.out, "meal logged as %s\n", r.MealLogID)
	}
}

// printRecipeProblems lists each unresolved ingredient or shortage on its
// own line; the returned error only carries the summary.
func (c *cli) printRecipeProblems(err error) {
	var missing *consumption.MissingIngredientsError
	var shortage *consumption.ShortageError

	switch {
	case errors.As(err, &missing):
		for _, p := range missing.Problems {
			fmt.Fprintf(c.out, "  - %v\n", p)
		}
	case errors.As(err, &shortage):
		for _, s := range shortage.Items {
			fmt.Fprintf(c.out, "  - %s: need %s, have %s\n", s.ItemName, s.Requested, s.Available)
		}
	}
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
