package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/picobot-api/game"
	"github.com/beka-birhanu/picobot-api/game/grid"
	"github.com/beka-birhanu/picobot-api/game/rules"
	"github.com/beka-birhanu/picobot-api/game/terrain"
	"github.com/beka-birhanu/picobot-api/service/i"
)

// Watch runs the rule set once from req.Start and hands every frame to emit,
// starting with the initial position. A run that aborts or exhausts its budget
// is reported in the result; the error is reserved for bad requests, a failing
// emit and cancellation.
func (c *Coverage) Watch(ctx context.Context, req i.WatchRequest, emit func(i.Frame) error) (*i.WatchResult, error) {
	rs, err := rules.Parse(req.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	rows, _, err := terrain.Resolve(req.Map)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	budget, err := c.budget(req.MoveBudget)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	walls, err := grid.Load(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	g, err := game.New(walls, req.Start, rs, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if err := emit(frameOf(g)); err != nil {
		return nil, err
	}

	for !g.Complete() && g.Moves() < budget {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := g.Step(); err != nil {
			var fatal *game.FatalError
			if errors.As(err, &fatal) {
				return &i.WatchResult{Moves: g.Moves(), Failure: fatal.Error()}, nil
			}
			return nil, err
		}

		if err := emit(frameOf(g)); err != nil {
			return nil, err
		}
	}

	result := &i.WatchResult{Covered: g.Complete(), Moves: g.Moves()}
	if !result.Covered {
		result.Failure = game.ErrBudgetExhausted.Error()
	}
	return result, nil
}

func frameOf(g *game.Game) i.Frame {
	s := g.State()
	var board strings.Builder
	_ = s.Render(&board)

	return i.Frame{
		Step:      g.Moves(),
		State:     s.BotState(),
		X:         s.Location().X,
		Y:         s.Location().Y,
		Remaining: s.Unvisited(),
		Board:     board.String(),
	}
}
