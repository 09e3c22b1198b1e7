package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/beka-birhanu/picobot-api/game/grid"
	"github.com/beka-birhanu/picobot-api/game/rules"
)

const (
	DefaultMoveBudget = 1000000 // Moves allowed per run unless configured otherwise.
)

// RunResult is the outcome of one run.
type RunResult struct {
	Start    int           // Starting index.
	Location grid.Location // Starting cell.
	Moves    int           // Steps taken.
	Covered  bool          // Whether every clear cell was visited.
}

// Report collects the runs of a Tester.
type Report struct {
	Runs       []RunResult
	WorstMoves int // Most steps any run needed.
	TotalMoves int // Sum of steps over all runs.
}

// Starts returns the number of runs attempted.
func (r *Report) Starts() int {
	return len(r.Runs)
}

func (r *Report) add(result RunResult) {
	r.Runs = append(r.Runs, result)
	r.TotalMoves += result.Moves
	if result.Moves > r.WorstMoves {
		r.WorstMoves = result.Moves
	}
}

// StartError ties a failed run to its starting index.
type StartError struct {
	Start    int
	Location grid.Location
	Err      error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("start %d (%s): %s", e.Start, e.Location, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// TesterConfig holds the parameters of a Tester.
type TesterConfig struct {
	Rows       [][]byte      // Wall map, nonzero is a wall.
	Rules      rules.RuleSet // Rule set under test.
	MoveBudget int           // Moves allowed per run; DefaultMoveBudget when zero.
	Frames     io.Writer     // Optional frame output for every run.
}

// Tester checks that a rule set covers a map from every clear starting cell.
type Tester struct {
	walls  *grid.BoolMap
	rules  rules.RuleSet
	budget int
	frames io.Writer
}

// NewTester loads the wall map once; every run shares it read only.
func NewTester(c TesterConfig) (*Tester, error) {
	if c.MoveBudget < 0 {
		return nil, ErrInvalidBudget
	}
	if c.MoveBudget == 0 {
		c.MoveBudget = DefaultMoveBudget
	}

	walls, err := grid.Load(c.Rows)
	if err != nil {
		return nil, err
	}

	return &Tester{
		walls:  walls,
		rules:  c.Rules,
		budget: c.MoveBudget,
		frames: c.Frames,
	}, nil
}

// TestAll runs the rule set from starting index 0, 1, 2, ... until an index no longer
// resolves to a clear cell. It stops at the first run that aborts or runs out of
// moves and returns a *StartError; the report holds every run attempted so far.
// Cancelling ctx stops the current run and returns ctx.Err() unwrapped.
func (t *Tester) TestAll(ctx context.Context) (*Report, error) {
	report := &Report{}
	for start := 0; ; start++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		g, err := New(t.walls, start, t.rules, t.frames)
		if errors.Is(err, ErrNoStartingCell) {
			if start == 0 {
				return report, ErrNoClearCells
			}
			return report, nil
		}
		if err != nil {
			return report, err
		}

		at := g.State().Location()
		covered, err := g.RunContext(ctx, t.budget)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return report, err
		}
		report.add(RunResult{Start: start, Location: at, Moves: g.Moves(), Covered: covered})
		if err != nil {
			return report, &StartError{Start: start, Location: at, Err: err}
		}
		if !covered {
			return report, &StartError{Start: start, Location: at, Err: ErrBudgetExhausted}
		}
	}
}
