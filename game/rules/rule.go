// Package rules implements the Picobot rule language: parsing, printing and matching
// of (state, surroundings) -> (move, next state) transitions.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/picobot-api/game/grid"
)

// SpaceCondition is the requirement a rule places on one neighbouring cell.
type SpaceCondition byte

const (
	Any SpaceCondition = iota
	Clear
	Wall
)

var ErrInvalidCondition = errors.New("invalid space condition")

// ParseCondition parses one condition letter. Any direction letter means a wall is required.
func ParseCondition(s string) (SpaceCondition, error) {
	switch s {
	case "N", "E", "W", "S":
		return Wall, nil
	case "x":
		return Clear, nil
	case "*":
		return Any, nil
	}
	return Any, fmt.Errorf("%w: cannot parse '%s' - only N,E,W,S,x,* are valid values", ErrInvalidCondition, s)
}

// Satisfied reports whether a neighbour with the given wall flag meets the condition.
func (c SpaceCondition) Satisfied(wall bool) bool {
	switch c {
	case Wall:
		return wall
	case Clear:
		return !wall
	}
	return true
}

// Rule is a single transition. Conditions are kept in N, E, W, S order.
type Rule struct {
	State      uint32            // State the agent must be in.
	Conditions [4]SpaceCondition // Required surroundings.
	Move       grid.Direction    // Direction to move.
	Next       uint32            // State after the move.
}

// Matches reports whether the rule applies to an agent in state with the given surroundings.
func (r Rule) Matches(state uint32, nearby grid.Nearby) bool {
	if r.State != state {
		return false
	}
	for i, cond := range r.Conditions {
		if !cond.Satisfied(nearby[i]) {
			return false
		}
	}
	return true
}

// Condition returns the condition on the neighbour in dir.
func (r Rule) Condition(dir grid.Direction) SpaceCondition {
	i := dir.Index()
	if i < 0 {
		return Any
	}
	return r.Conditions[i]
}

// Overlaps reports whether some surroundings satisfy both rules' conditions.
func (r Rule) Overlaps(other Rule) bool {
	if r.State != other.State {
		return false
	}
	for i, cond := range r.Conditions {
		o := other.Conditions[i]
		if cond != Any && o != Any && cond != o {
			return false
		}
	}
	return true
}

// String prints the rule in the text form accepted by Parse.
func (r Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d ", r.State)
	for i, dir := range grid.Compass {
		switch r.Conditions[i] {
		case Any:
			b.WriteByte('*')
		case Clear:
			b.WriteByte('x')
		case Wall:
			b.WriteByte(byte(dir))
		}
	}
	fmt.Fprintf(&b, " -> %s %d", r.Move, r.Next)
	return b.String()
}
