package consumption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pantrymind/pantrymind/internal/ingredients"
	"github.com/pantrymind/pantrymind/internal/matching"
	"github.com/pantrymind/pantrymind/internal/models"
	"github.com/pantrymind/pantrymind/internal/units"
	"github.com/pantrymind/pantrymind/internal/util"
)

// Options tunes a Coordinator. Zero values select the defaults.
type Options struct {
	Locker  ItemLocker
	Matcher *matching.Matcher
	Metrics *Metrics
	Clock   util.Clock
	Logger  *slog.Logger

	// MaxCommitRetries bounds how often a commit that lost a race is
	// replanned. Negative disables retries.
	MaxCommitRetries int

	// LockTimeout bounds lock acquisition; zero waits as long as ctx allows.
	LockTimeout time.Duration

	// SuppressUnitReview clears the UnitReview flag on results.
	SuppressUnitReview bool
}

// Coordinator runs manual and recipe consumptions end to end.
type Coordinator struct {
	store      Store
	locker     ItemLocker
	matcher    *matching.Matcher
	metrics    *Metrics
	clock      util.Clock
	logger     *slog.Logger
	ids        *util.IDGenerator
	maxRetries int
	lockWait   time.Duration
	noReview   bool
}

// NewCoordinator creates a coordinator over store.
func NewCoordinator(store Store, opts Options) *Coordinator {
	c := &Coordinator{
		store:      store,
		locker:     opts.Locker,
		matcher:    opts.Matcher,
		metrics:    opts.Metrics,
		clock:      opts.Clock,
		logger:     opts.Logger,
		ids:        util.NewIDGenerator(),
		maxRetries: opts.MaxCommitRetries,
		lockWait:   opts.LockTimeout,
		noReview:   opts.SuppressUnitReview,
	}
	if c.locker == nil {
		c.locker = NewLocalLocker()
	}
	if c.matcher == nil {
		c.matcher = matching.New()
	}
	if c.clock == nil {
		c.clock = util.SystemClock{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	return c
}

// target is one item to draw from, with everything that asked for it.
type target struct {
	item       *models.InventoryItem
	quantity   decimal.Decimal
	matchedBy  string
	unitReview bool
	sources    []string
}

// run describes one consumption across its planning attempts.
type run struct {
	kind    Kind
	kitchen string
	userID  string
	notes   string
	recipe  string
	serves  int
	targets []*target
}

// ConsumeManual draws a quantity of one item from its batches.
func (c *Coordinator) ConsumeManual(ctx context.Context, req ManualRequest) (*Result, error) {
	return c.manual(ctx, req, false)
}

// PreviewManual plans a manual consumption without writing anything.
func (c *Coordinator) PreviewManual(ctx context.Context, req ManualRequest) (*Result, error) {
	return c.manual(ctx, req, true)
}

// ConsumeRecipe resolves each ingredient line and draws all of them down in
// one transaction, logging the meal.
func (c *Coordinator) ConsumeRecipe(ctx context.Context, req RecipeRequest) (*Result, error) {
	return c.recipe(ctx, req, false)
}

// PreviewRecipe resolves and plans a recipe without writing anything.
func (c *Coordinator) PreviewRecipe(ctx context.Context, req RecipeRequest) (*Result, error) {
	return c.recipe(ctx, req, true)
}

func (c *Coordinator) manual(ctx context.Context, req ManualRequest, preview bool) (*Result, error) {
	start := time.Now()

	if !req.Quantity.IsPositive() {
		c.metrics.observe(KindManual, OutcomeInvalid, time.Since(start))
		return nil, fmt.Errorf("consuming %s: %w", req.ItemID, ErrInvalidQuantity)
	}

	item, err := c.store.GetItem(ctx, req.ItemID)
	if err != nil {
		c.metrics.observe(KindManual, outcomeFor(err), time.Since(start))
		return nil, fmt.Errorf("loading item: %w", err)
	}

	qty := req.Quantity
	review := false
	if req.Unit != "" {
		if !units.Compatible(req.Unit, item.Unit) {
			c.metrics.observe(KindManual, OutcomeInvalid, time.Since(start))
			return nil, fmt.Errorf("consuming %s in %s: %w: item is stocked in %s",
				item.Name, req.Unit, units.ErrUnsupportedConversion, item.Unit)
		}
		if qty, err = units.ConvertForItem(qty, req.Unit, item.Unit); err != nil {
			c.metrics.observe(KindManual, OutcomeInvalid, time.Since(start))
			return nil, fmt.Errorf("consuming %s: %w", item.Name, err)
		}
		review = !units.Lookup(req.Unit).Known()
	}

	r := &run{
		kind:    KindManual,
		kitchen: item.KitchenID,
		userID:  req.UserID,
		notes:   req.Notes,
		targets: []*target{{item: item, quantity: qty, unitReview: review}},
	}

	result, err := c.execute(ctx, r, preview)
	c.finish(r, result, err, preview, start)
	return result, err
}

func (c *Coordinator) recipe(ctx context.Context, req RecipeRequest, preview bool) (*Result, error) {
	start := time.Now()

	targets, err := c.resolve(ctx, req)
	if err != nil {
		c.metrics.observe(KindRecipe, outcomeFor(err), time.Since(start))
		return nil, err
	}

	r := &run{
		kind:    KindRecipe,
		kitchen: req.KitchenID,
		userID:  req.UserID,
		notes:   req.Notes,
		recipe:  req.RecipeName,
		serves:  req.Servings,
		targets: targets,
	}

	result, err := c.execute(ctx, r, preview)
	c.finish(r, result, err, preview, start)
	return result, err
}

// resolve parses and matches every ingredient, then merges references that
// landed on the same item. Any failure fails the whole recipe.
func (c *Coordinator) resolve(ctx context.Context, req RecipeRequest) ([]*target, error) {
	items := req.Snapshot
	if items == nil {
		var err error
		if items, err = c.store.ItemsForKitchen(ctx, req.KitchenID); err != nil {
			return nil, fmt.Errorf("loading kitchen items: %w", err)
		}
	}
	candidates := make([]*models.InventoryItem, len(items))
	copy(candidates, items)
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	missing := &MissingIngredientsError{}
	byItem := make(map[string]*target)

	for _, raw := range req.Ingredients {
		ref, err := ingredients.Parse(raw)
		if err != nil {
			missing.Names = append(missing.Names, unparsedName(raw))
			missing.Problems = append(missing.Problems, err)
			continue
		}

		m, ok := c.matcher.Match(ref, candidates)
		if !ok {
			missing.Names = append(missing.Names, ref.Name)
			missing.Problems = append(missing.Problems, &UnmatchedIngredientError{Reference: ref})
			continue
		}

		qty, err := units.ConvertForItem(ref.Quantity, ref.Unit, m.Item.Unit)
		if err != nil {
			missing.Names = append(missing.Names, ref.Name)
			missing.Problems = append(missing.Problems, &UnmatchedIngredientError{Reference: ref, Reason: err.Error()})
			continue
		}

		t, ok := byItem[m.Item.ID]
		if !ok {
			t = &target{item: m.Item, quantity: decimal.Zero, matchedBy: m.Tier}
			byItem[m.Item.ID] = t
		}
		t.quantity = t.quantity.Add(qty)
		t.unitReview = t.unitReview || m.UnitReview
		t.sources = append(t.sources, ref.RawText)
	}

	if len(missing.Problems) > 0 || len(byItem) == 0 {
		return nil, missing
	}

	targets := make([]*target, 0, len(byItem))
	for _, t := range byItem {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].item.ID < targets[j].item.ID })
	return targets, nil
}

// execute locks the items, plans against fresh batches and commits. A commit
// that finds a batch changed since planning is replanned.
func (c *Coordinator) execute(ctx context.Context, r *run, preview bool) (*Result, error) {
	if !preview {
		ids := make([]string, len(r.targets))
		for i, t := range r.targets {
			ids[i] = t.item.ID
		}

		lockCtx := ctx
		if c.lockWait > 0 {
			var cancel context.CancelFunc
			lockCtx, cancel = context.WithTimeout(ctx, c.lockWait)
			defer cancel()
		}
		unlock, err := c.locker.Lock(lockCtx, ids)
		if err != nil {
			return nil, fmt.Errorf("locking items: %w", err)
		}
		defer unlock()
	}

	for attempt := 0; ; attempt++ {
		plans, err := c.plan(ctx, r)
		if err != nil {
			return nil, err
		}

		result := c.buildResult(r, plans)
		if preview {
			return result, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		commit := c.buildCommit(r, plans)
		err = c.store.Commit(ctx, commit)
		if errors.Is(err, ErrStaleBatch) && attempt < c.maxRetries {
			c.metrics.retried(r.kind)
			c.logger.Debug("replanning after concurrent batch change",
				"kind", r.kind, "attempt", attempt+1, "error", err)
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &CommitError{Err: err}
		}

		result.MealLogID = commit.MealLogID
		result.Committed = true
		return result, nil
	}
}

// plan builds one plan per target. Shortages are collected across all items
// before failing.
func (c *Coordinator) plan(ctx context.Context, r *run) ([]*Plan, error) {
	plans := make([]*Plan, 0, len(r.targets))
	var short []*InsufficientStockError

	for _, t := range r.targets {
		batches, err := c.store.BatchesForItem(ctx, t.item.ID)
		if err != nil {
			return nil, fmt.Errorf("loading batches for %s: %w", t.item.Name, err)
		}

		p, err := BuildPlan(Request{ItemID: t.item.ID, Quantity: t.quantity}, batches)
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			stockErr.ItemName = t.item.Name
			short = append(short, stockErr)
			continue
		}
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	if len(short) > 0 {
		if r.kind == KindManual {
			return nil, short[0]
		}
		return nil, &ShortageError{Items: short}
	}
	return plans, nil
}

func (c *Coordinator) buildResult(r *run, plans []*Plan) *Result {
	result := &Result{Kind: r.kind, KitchenID: r.kitchen}
	for i, t := range r.targets {
		result.Items = append(result.Items, ItemConsumption{
			ItemID:      t.item.ID,
			ItemName:    t.item.Name,
			Unit:        t.item.Unit,
			Requested:   t.quantity,
			MatchedBy:   t.matchedBy,
			UnitReview:  t.unitReview && !c.noReview,
			Sources:     t.sources,
			Allocations: plans[i].Allocations,
		})
	}
	return result
}

func (c *Coordinator) buildCommit(r *run, plans []*Plan) *Commit {
	now := c.clock.Now()
	commit := &Commit{
		Kind:      r.kind,
		KitchenID: r.kitchen,
		UserID:    r.userID,
		Notes:     r.notes,
		At:        now,
		Plans:     plans,
	}

	if r.kind == KindRecipe {
		commit.RecipeName = r.recipe
		commit.Servings = r.serves
		commit.MealLogID = c.ids.NewID()
		commit.MealType = models.MealTypeAt(now)
		for _, t := range r.targets {
			commit.Ingredients = append(commit.Ingredients, models.MealIngredient{
				ItemID:   t.item.ID,
				Name:     t.item.Name,
				RawText:  strings.Join(t.sources, "; "),
				Quantity: t.quantity,
				Unit:     t.item.Unit,
			})
		}
	}
	return commit
}

func (c *Coordinator) finish(r *run, result *Result, err error, preview bool, start time.Time) {
	elapsed := time.Since(start)

	switch {
	case err != nil:
		outcome := outcomeFor(err)
		c.metrics.observe(r.kind, outcome, elapsed)
		level := slog.LevelWarn
		if outcome == OutcomeShortage || outcome == OutcomeCanceled {
			level = slog.LevelInfo
		}
		c.logger.Log(context.Background(), level, "consumption failed",
			"kind", r.kind, "kitchen", r.kitchen, "recipe", r.recipe, "error", err)
	case preview:
		c.metrics.observe(r.kind, OutcomePreviewed, elapsed)
	default:
		c.metrics.observe(r.kind, OutcomeCommitted, elapsed)
		c.metrics.recordConsumed(result)
		c.logger.Info("consumption committed",
			"kind", r.kind,
			"kitchen", r.kitchen,
			"recipe", r.recipe,
			"items", len(result.Items),
			"batches", result.BatchCount(),
			"meal_log", result.MealLogID,
			"duration", elapsed)
	}
}

// unparsedName is the best display name for a line that failed to parse.
func unparsedName(raw string) string {
	if name, _, ok := strings.Cut(raw, ":"); ok && strings.TrimSpace(name) != "" {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return strings.TrimSpace(raw)
}

func outcomeFor(err error) string {
	var (
		stock   *InsufficientStockError
		missing *MissingIngredientsError
		commit  *CommitError
	)
	switch {
	case errors.As(err, &stock):
		return OutcomeShortage
	case errors.As(err, &missing):
		return OutcomeUnresolved
	case errors.As(err, &commit):
		return OutcomeCommitFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrItemNotFound),
		errors.Is(err, units.ErrUnsupportedConversion):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
