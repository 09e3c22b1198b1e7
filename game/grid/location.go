package grid

import (
	"errors"
	"fmt"
)

// Direction is one of the four points of the compass.
type Direction byte

const (
	North Direction = 'N'
	East  Direction = 'E'
	West  Direction = 'W'
	South Direction = 'S'
)

// Compass lists the directions in the fixed N, E, W, S order used by rules and sensing.
var Compass = [4]Direction{North, East, West, South}

var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection parses a single letter direction code.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "N":
		return North, nil
	case "E":
		return East, nil
	case "W":
		return West, nil
	case "S":
		return South, nil
	}
	return 0, fmt.Errorf("%w: cannot parse direction '%s' - only N,E,W,S are valid values", ErrInvalidDirection, s)
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// Index returns the position of d in Compass, or -1.
func (d Direction) Index() int {
	for i, c := range Compass {
		if c == d {
			return i
		}
	}
	return -1
}

func (d Direction) String() string {
	return string(d)
}

// Location is a map position in screen coordinates (positive Y axis is down).
type Location struct {
	X int // Column
	Y int // Row
}

// Offset returns the location distance cells away in dir.
// East decreases X and West increases X; existing maps and rule sets depend on it.
func (l Location) Offset(dir Direction, distance int) Location {
	switch dir {
	case North:
		l.Y -= distance
	case South:
		l.Y += distance
	case East:
		l.X -= distance
	case West:
		l.X += distance
	}
	return l
}

// Next returns the neighbouring location in dir.
func (l Location) Next(dir Direction) Location {
	return l.Offset(dir, 1)
}

func (l Location) String() string {
	return fmt.Sprintf("%d,%d", l.X, l.Y)
}
