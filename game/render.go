package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/beka-birhanu/picobot-api/game/grid"
)

// Render draws the map: '@' agent, '#' wall, '-' visited, ' ' unvisited,
// followed by the status line and a blank line.
func (s *State) Render(w io.Writer) error {
	nearby, err := s.NearbyWalls()
	if err != nil {
		return err
	}

	var b strings.Builder
	for y := 0; y < s.walls.Height(); y++ {
		for x := 0; x < s.walls.Width(); x++ {
			loc := grid.Location{X: x, Y: y}
			wall, _ := s.walls.Get(loc)
			visited, _ := s.visited.Get(loc)
			switch {
			case loc == s.bot:
				b.WriteByte('@')
			case wall:
				b.WriteByte('#')
			case visited:
				b.WriteByte('-')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "State: %d  Nearby: %s  Remaining: %d\n\n", s.botState, nearby, s.Unvisited())

	_, err = io.WriteString(w, b.String())
	return err
}

// String renders the state, reporting sensing failures in place of the status line.
func (s *State) String() string {
	var b strings.Builder
	if err := s.Render(&b); err != nil {
		return fmt.Sprintf("agent at %s: %s", s.bot, err)
	}
	return b.String()
}
