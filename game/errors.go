package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/picobot-api/game/grid"
	"github.com/beka-birhanu/picobot-api/game/rules"
)

// Run-aborting errors. A *FatalError wraps one of these as its Kind.
var (
	ErrNoApplicableRule = errors.New("no rule exists")
	ErrAmbiguousRules   = errors.New("more than one rule applies")
	ErrMoveIntoWall     = errors.New("cannot move into wall")
)

// Errors reported while setting up or checking runs.
var (
	ErrNoStartingCell  = errors.New("no such starting position")
	ErrNoClearCells    = errors.New("map has no clear cells")
	ErrBudgetExhausted = errors.New("move budget exhausted before full coverage")
	ErrInvalidBudget   = errors.New("move budget must be positive")
)

// FatalError aborts a run. It identifies the agent state, surroundings and the rules involved.
type FatalError struct {
	Kind     error         // ErrNoApplicableRule, ErrAmbiguousRules, ErrMoveIntoWall or grid.ErrOutOfBounds.
	State    uint32        // Agent state when the run aborted.
	Location grid.Location // Agent location when the run aborted.
	Nearby   string        // Surroundings code, empty when sensing itself failed.
	Rules    []rules.Rule  // Rules involved, if any.
	Err      error         // Underlying cause.
}

func (e *FatalError) Error() string {
	var b strings.Builder
	switch {
	case errors.Is(e.Kind, ErrNoApplicableRule):
		fmt.Fprintf(&b, "%s for state %d and surroundings %s", e.Kind, e.State, e.Nearby)
	case errors.Is(e.Kind, ErrAmbiguousRules):
		fmt.Fprintf(&b, "%s to state %d and surroundings %s:", e.Kind, e.State, e.Nearby)
		for _, r := range e.Rules {
			b.WriteString("\n" + r.String())
		}
	case errors.Is(e.Kind, ErrMoveIntoWall) && len(e.Rules) > 0:
		fmt.Fprintf(&b, "%s: rule %q moved %s from %s", e.Kind, e.Rules[0], e.Rules[0].Move, e.Location)
	default:
		fmt.Fprintf(&b, "%s at %s in state %d", e.Kind, e.Location, e.State)
	}
	if e.Err != nil && !errors.Is(e.Err, e.Kind) {
		fmt.Fprintf(&b, ": %s", e.Err)
	}
	return b.String()
}

func (e *FatalError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
