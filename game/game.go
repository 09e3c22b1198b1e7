/*
Package game runs Picobot agents over wall maps.

A Game drives one agent from a starting cell: every step it senses the four
neighbouring cells, finds the single rule matching its state and surroundings,
switches state and moves. A run ends when every clear cell has been visited or the
move budget is spent. The Tester repeats that from every clear starting cell.
*/
package game

import (
	"context"
	"errors"
	"io"

	"github.com/beka-birhanu/picobot-api/game/grid"
	"github.com/beka-birhanu/picobot-api/game/rules"
)

// cancelCheckInterval is how many steps RunContext takes between context checks.
const cancelCheckInterval = 1 << 12

// Game is one simulated run of a rule set from one starting cell.
type Game struct {
	state  *State        // Walls, visited cells and the agent.
	rules  rules.RuleSet // Shared, read only.
	frames io.Writer     // Receives rendered frames; nil disables rendering.
	moves  int           // Steps taken so far.
}

// New creates a game on walls starting at the start-th clear cell.
// frames may be nil.
func New(walls *grid.BoolMap, start int, rs rules.RuleSet, frames io.Writer) (*Game, error) {
	state, err := NewState(walls, start)
	if err != nil {
		return nil, err
	}

	return &Game{
		state:  state,
		rules:  rs,
		frames: frames,
	}, nil
}

// State exposes the simulation state.
func (g *Game) State() *State {
	return g.state
}

// Moves returns the number of steps taken.
func (g *Game) Moves() int {
	return g.moves
}

// Complete reports whether every clear cell has been visited.
func (g *Game) Complete() bool {
	return g.state.Unvisited() <= 0
}

// Step senses, matches exactly one rule, applies its state and moves.
// Any failure is a *FatalError.
func (g *Game) Step() error {
	s := g.state
	nearby, err := s.NearbyWalls()
	if err != nil {
		return g.fatal(grid.ErrOutOfBounds, "", nil, err)
	}

	rule, err := g.rules.Match(s.botState, nearby)
	if err != nil {
		var ambiguity *rules.AmbiguityError
		if errors.As(err, &ambiguity) {
			return g.fatal(ErrAmbiguousRules, nearby.String(), []rules.Rule{ambiguity.First, ambiguity.Second}, nil)
		}
		return g.fatal(ErrNoApplicableRule, nearby.String(), nil, nil)
	}

	s.botState = rule.Next
	moved, err := s.TryMove(rule.Move)
	if err != nil {
		return g.fatal(grid.ErrOutOfBounds, nearby.String(), []rules.Rule{rule}, err)
	}
	if !moved {
		return g.fatal(ErrMoveIntoWall, nearby.String(), []rules.Rule{rule}, nil)
	}

	g.moves++
	return nil
}

// Run steps until the map is covered or limit steps have been taken.
// It reports true on full coverage and false when the budget ran out.
// Frames are rendered at the start, on success and on budget exhaustion.
func (g *Game) Run(limit int) (bool, error) {
	return g.RunContext(context.Background(), limit)
}

// RunContext is Run that also stops with ctx.Err() once ctx is done.
// The context is checked every cancelCheckInterval steps.
func (g *Game) RunContext(ctx context.Context, limit int) (bool, error) {
	if err := g.render(); err != nil {
		return false, err
	}

	for {
		if g.Complete() {
			return true, g.render()
		}
		if g.moves >= limit {
			return false, g.render()
		}
		if g.moves%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}
		if err := g.Step(); err != nil {
			return false, err
		}
	}
}

// render writes a frame when a frame writer is set.
func (g *Game) render() error {
	if g.frames == nil {
		return nil
	}
	return g.state.Render(g.frames)
}

func (g *Game) fatal(kind error, nearby string, involved []rules.Rule, cause error) *FatalError {
	return &FatalError{
		Kind:     kind,
		State:    g.state.botState,
		Location: g.state.bot,
		Nearby:   nearby,
		Rules:    involved,
		Err:      cause,
	}
}
