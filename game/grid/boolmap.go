/*
Package grid provides the boolean cell map, locations and compass directions the
simulation is built on.

A BoolMap is a dense width*height bitmap addressed by y*width+x that keeps running
counts of true and false cells. Walls and visited cells are both BoolMaps.
*/
package grid

import (
	"errors"
	"fmt"
)

const (
	minDimension = 3 // Minimum map dimension (width or height).
)

var (
	ErrInvalidDimensions = errors.New("invalid map dimensions")
	ErrOutOfBounds       = errors.New("out of bounds map access")
)

// BoolMap is a map with one bit per cell that tracks the number of true and false values.
type BoolMap struct {
	values     []bool
	width      int
	height     int
	trueCount  int
	falseCount int
}

// Load builds a map from rows of bytes where any nonzero byte is true.
// Every row must have the same length and the map must be at least 3x3.
func Load(rows [][]byte) (*BoolMap, error) {
	height := len(rows)
	if height == 0 {
		return nil, fmt.Errorf("%w: empty map", ErrInvalidDimensions)
	}
	width := len(rows[0])
	if width < minDimension || height < minDimension {
		return nil, fmt.Errorf("%w: cannot create a %dx%d map", ErrInvalidDimensions, width, height)
	}

	m := &BoolMap{
		values: make([]bool, 0, width*height),
		width:  width,
		height: height,
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidDimensions, y, len(row), width)
		}
		for _, cell := range row {
			m.values = append(m.values, cell != 0)
			if cell != 0 {
				m.trueCount++
			}
		}
	}
	m.falseCount = len(m.values) - m.trueCount
	return m, nil
}

// Clear builds a width x height map with every cell set to value.
func Clear(width, height int, value bool) (*BoolMap, error) {
	if width < minDimension || height < minDimension {
		return nil, fmt.Errorf("%w: cannot create a %dx%d map", ErrInvalidDimensions, width, height)
	}

	total := width * height
	m := &BoolMap{
		values: make([]bool, total),
		width:  width,
		height: height,
	}
	if value {
		for i := range m.values {
			m.values[i] = true
		}
		m.trueCount = total
	} else {
		m.falseCount = total
	}
	return m, nil
}

// Width returns the number of columns.
func (m *BoolMap) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m *BoolMap) Height() int {
	return m.height
}

// TrueCount returns the number of true cells.
func (m *BoolMap) TrueCount() int {
	return m.trueCount
}

// FalseCount returns the number of false cells.
func (m *BoolMap) FalseCount() int {
	return m.falseCount
}

// InBounds reports whether loc lies inside the map.
func (m *BoolMap) InBounds(loc Location) bool {
	return loc.X >= 0 && loc.Y >= 0 && loc.X < m.width && loc.Y < m.height
}

func (m *BoolMap) index(loc Location) int {
	return loc.Y*m.width + loc.X
}

// Get returns the value at loc.
func (m *BoolMap) Get(loc Location) (bool, error) {
	if !m.InBounds(loc) {
		return false, fmt.Errorf("%w (%s)", ErrOutOfBounds, loc)
	}
	return m.values[m.index(loc)], nil
}

// Set stores value at loc. Setting a cell to the value it already holds is a no-op.
func (m *BoolMap) Set(loc Location, value bool) error {
	current, err := m.Get(loc)
	if err != nil {
		return err
	}
	if current == value {
		return nil
	}

	m.values[m.index(loc)] = value
	if value {
		m.trueCount++
		m.falseCount--
	} else {
		m.trueCount--
		m.falseCount++
	}
	return nil
}

// NthLocation returns the nth (0-indexed) location in row-major order whose value
// equals want. The second result is false when fewer than nth+1 cells match.
func (m *BoolMap) NthLocation(nth int, want bool) (Location, bool) {
	if nth < 0 {
		return Location{}, false
	}
	n := 0
	for ix, v := range m.values {
		if v != want {
			continue
		}
		if n == nth {
			return Location{X: ix % m.width, Y: ix / m.width}, true
		}
		n++
	}
	return Location{}, false
}

// Nearby reads the four neighbours of loc.
func (m *BoolMap) Nearby(loc Location) (Nearby, error) {
	var n Nearby
	for i, dir := range Compass {
		v, err := m.Get(loc.Next(dir))
		if err != nil {
			return Nearby{}, err
		}
		n[i] = v
	}
	return n, nil
}
