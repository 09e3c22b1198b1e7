package game

import (
	"fmt"

	"github.com/beka-birhanu/picobot-api/game/grid"
)

// State combines the wall map, the visited map and the agent.
type State struct {
	walls    *grid.BoolMap // Shared and read only.
	visited  *grid.BoolMap // Owned by this run.
	bot      grid.Location // Agent location.
	botState uint32        // Agent state id.
}

// NewState places the agent on the start-th clear cell of walls in row-major order.
// It returns ErrNoStartingCell when walls has fewer clear cells.
func NewState(walls *grid.BoolMap, start int) (*State, error) {
	visited, err := grid.Clear(walls.Width(), walls.Height(), false)
	if err != nil {
		return nil, err
	}

	at, ok := walls.NthLocation(start, false)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNoStartingCell, start)
	}

	s := &State{
		walls:   walls,
		visited: visited,
	}
	if err := s.MoveTo(at); err != nil {
		return nil, err
	}
	return s, nil
}

// Location returns where the agent is.
func (s *State) Location() grid.Location {
	return s.bot
}

// BotState returns the agent state id.
func (s *State) BotState() uint32 {
	return s.botState
}

// Unvisited returns the number of clear cells not visited yet.
func (s *State) Unvisited() int {
	return s.walls.FalseCount() - s.visited.TrueCount()
}

// NearbyWalls senses the walls around the agent.
func (s *State) NearbyWalls() (grid.Nearby, error) {
	return s.walls.Nearby(s.bot)
}

// MoveTo marks dest visited and puts the agent there.
func (s *State) MoveTo(dest grid.Location) error {
	wall, err := s.walls.Get(dest)
	if err != nil {
		return err
	}
	if wall {
		return fmt.Errorf("%w at %s", ErrMoveIntoWall, dest)
	}
	if err := s.visited.Set(dest, true); err != nil {
		return err
	}
	s.bot = dest
	return nil
}

// TryMove moves the agent one cell in dir if that cell is clear.
// It reports false without changing anything when the cell is a wall.
func (s *State) TryMove(dir grid.Direction) (bool, error) {
	dest := s.bot.Next(dir)
	wall, err := s.walls.Get(dest)
	if err != nil {
		return false, err
	}
	if wall {
		return false, nil
	}
	return true, s.MoveTo(dest)
}

// Visited reports whether the agent has been at loc.
func (s *State) Visited(loc grid.Location) (bool, error) {
	return s.visited.Get(loc)
}
