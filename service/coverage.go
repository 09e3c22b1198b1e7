package service

import (
	"context"
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/beka-birhanu/picobot-api/game"
	"github.com/beka-birhanu/picobot-api/game/rules"
	"github.com/beka-birhanu/picobot-api/game/terrain"
	"github.com/beka-birhanu/picobot-api/service/i"
	"github.com/google/uuid"
)

const (
	defaultMaxMoveBudget = 10 * game.DefaultMoveBudget
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrBudgetTooLarge = errors.New("move budget exceeds the allowed maximum")
	ErrNoRules        = errors.New("rule set is empty")
)

// Options tunes a Coverage service.
type Options struct {
	MoveBudget    int // Used when a request leaves the budget at zero.
	MaxMoveBudget int // Upper bound on any request budget.
}

// Coverage checks rule sets against maps and keeps the resulting reports.
type Coverage struct {
	repo   i.ReportRepo
	cache  i.ReportCache // nil disables caching.
	logger i.Logger
	opts   *Options
}

// NewCoverage creates a Coverage service. cache may be nil.
func NewCoverage(repo i.ReportRepo, cache i.ReportCache, logger i.Logger, opts *Options) (*Coverage, error) {
	if repo == nil {
		return nil, errors.New("report repository is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	if opts == nil {
		opts = &Options{}
	}
	if opts.MoveBudget <= 0 {
		opts.MoveBudget = game.DefaultMoveBudget
	}
	if opts.MaxMoveBudget <= 0 {
		opts.MaxMoveBudget = defaultMaxMoveBudget
	}
	if opts.MaxMoveBudget < opts.MoveBudget {
		opts.MaxMoveBudget = opts.MoveBudget
	}

	return &Coverage{
		repo:   repo,
		cache:  cache,
		logger: logger,
		opts:   opts,
	}, nil
}

// Evaluate runs the rule set from every clear cell of the requested map.
// A rule set that fails to cover the map still yields a stored report with
// Passed false; malformed input is reported as ErrInvalidRequest.
func (c *Coverage) Evaluate(ctx context.Context, req i.EvaluateRequest) (*dmn.Report, error) {
	rs, err := rules.Parse(req.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if len(rs) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, ErrNoRules)
	}

	rows, mapKey, err := terrain.Resolve(req.Map)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	budget, err := c.budget(req.MoveBudget)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	report := dmn.NewReport(dmn.ReportConfig{
		Name:       req.Name,
		MapKey:     mapKey,
		Rules:      rs.String(),
		MoveBudget: budget,
	})
	key := report.CacheKey()

	if cached := c.cached(ctx, key); cached != nil {
		return cached, nil
	}

	if c.cache != nil {
		unlock, err := c.cache.Lock(ctx, key)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			c.logger.Warning(fmt.Sprintf("Locking evaluation %s: %v", key, err))
		} else {
			defer unlock()
			if cached := c.cached(ctx, key); cached != nil {
				return cached, nil
			}
		}
	}

	if err := c.run(ctx, report, rows, rs); err != nil {
		return nil, err
	}

	if err := c.repo.Save(ctx, report); err != nil {
		c.logger.Error(fmt.Sprintf("Saving report %s: %v", report.ID, err))
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, report); err != nil {
			c.logger.Warning(fmt.Sprintf("Caching report %s: %v", report.ID, err))
		}
	}

	c.logger.Info(fmt.Sprintf("Evaluated report=%s map=%s passed=%t starts=%d worst=%d",
		report.ID, report.MapKey, report.Passed, report.Starts, report.WorstMoves))
	return report, nil
}

// Report returns a stored report.
func (c *Coverage) Report(ctx context.Context, id uuid.UUID) (*dmn.Report, error) {
	return c.repo.ByID(ctx, id)
}

// Lint parses text and analyses the rule set without running it.
func (c *Coverage) Lint(text string) (rules.LintReport, error) {
	rs, err := rules.Parse(text)
	if err != nil {
		return rules.LintReport{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return rules.Lint(rs), nil
}

func (c *Coverage) budget(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, game.ErrInvalidBudget
	case requested == 0:
		return c.opts.MoveBudget, nil
	case requested > c.opts.MaxMoveBudget:
		return 0, fmt.Errorf("%w: %d > %d", ErrBudgetTooLarge, requested, c.opts.MaxMoveBudget)
	}
	return requested, nil
}

func (c *Coverage) cached(ctx context.Context, key string) *dmn.Report {
	if c.cache == nil {
		return nil
	}
	report, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warning(fmt.Sprintf("Reading cache %s: %v", key, err))
		return nil
	}
	return report
}

// run checks ctx between starts and periodically within each run, so an
// abandoned request stops consuming CPU.
func (c *Coverage) run(ctx context.Context, report *dmn.Report, rows [][]byte, rs rules.RuleSet) error {
	tester, err := game.NewTester(game.TesterConfig{
		Rows:       rows,
		Rules:      rs,
		MoveBudget: report.MoveBudget,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	result, err := tester.TestAll(ctx)
	if result != nil {
		report.Starts = result.Starts()
		report.WorstMoves = result.WorstMoves
		report.TotalMoves = result.TotalMoves
	}

	var startErr *game.StartError
	switch {
	case err == nil:
		report.Passed = true
	case errors.As(err, &startErr):
		report.FailedStart = startErr.Start
		report.Failure = startErr.Error()
	case errors.Is(err, game.ErrNoClearCells):
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	default:
		return err
	}
	return nil
}
