package terrain

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/beka-birhanu/picobot-api/game/grid"
)

const (
	maxMazeDimension = 40
)

var ErrInvalidMazeDimensions = errors.New("invalid maze dimensions")

// mazeCell holds one wall flag per compass direction, indexed like grid.Compass.
type mazeCell struct {
	walls [4]bool
}

// move is a step from one maze cell to a neighbouring one.
type move struct {
	from      grid.Location
	to        grid.Location
	direction grid.Direction
}

// WilsonMaze is a perfect maze (exactly one path between any two cells) generated with
// Wilson's loop-erased random walk algorithm.
type WilsonMaze struct {
	width  int           // Width of the maze in cells.
	height int           // Height of the maze in cells.
	cells  [][]*mazeCell // cells[y][x].
	rng    *rand.Rand    // Source of randomness.
}

// NewWilson generates a width x height maze drawing randomness from rng.
func NewWilson(width, height int, rng *rand.Rand) (*WilsonMaze, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidMazeDimensions, width, height)
	}

	cells := make([][]*mazeCell, height)
	for y := range cells {
		cells[y] = make([]*mazeCell, width)
		for x := range cells[y] {
			cells[y][x] = &mazeCell{walls: [4]bool{true, true, true, true}}
		}
	}

	m := &WilsonMaze{
		width:  width,
		height: height,
		cells:  cells,
		rng:    rng,
	}
	m.generate()
	return m, nil
}

// Width returns the number of maze cells per row.
func (m *WilsonMaze) Width() int {
	return m.width
}

// Height returns the number of maze cells per column.
func (m *WilsonMaze) Height() int {
	return m.height
}

func (m *WilsonMaze) inBound(loc grid.Location) bool {
	return loc.X >= 0 && loc.X < m.width && loc.Y >= 0 && loc.Y < m.height
}

// randomCell picks a uniformly random cell.
func (m *WilsonMaze) randomCell() grid.Location {
	return grid.Location{X: m.rng.Intn(m.width), Y: m.rng.Intn(m.height)}
}

// randomUnvisitedCell picks a random cell outside visited.
func (m *WilsonMaze) randomUnvisitedCell(visited map[grid.Location]struct{}) grid.Location {
	for {
		loc := m.randomCell()
		if _, included := visited[loc]; !included {
			return loc
		}
	}
}

// neighbors lists the moves from loc that stay inside the maze, in compass order.
func (m *WilsonMaze) neighbors(loc grid.Location) []move {
	result := make([]move, 0, 4)
	for _, dir := range grid.Compass {
		to := loc.Next(dir)
		if m.inBound(to) {
			result = append(result, move{from: loc, to: to, direction: dir})
		}
	}
	return result
}

// openWall removes the wall between the two cells of mv.
func (m *WilsonMaze) openWall(mv move) {
	m.cells[mv.from.Y][mv.from.X].walls[mv.direction.Index()] = false
	m.cells[mv.to.Y][mv.to.X].walls[mv.direction.Opposite().Index()] = false
}

// randomWalk walks from a random unvisited cell until it reaches the visited tree and
// returns the start and the last exit taken from every cell on the way. Overwriting
// exits erases loops.
func (m *WilsonMaze) randomWalk(visited map[grid.Location]struct{}) (grid.Location, map[grid.Location]move) {
	start := m.randomUnvisitedCell(visited)
	exits := make(map[grid.Location]move)
	cell := start

	for {
		neighbors := m.neighbors(cell)
		next := neighbors[m.rng.Intn(len(neighbors))]
		exits[cell] = next
		if _, included := visited[next.to]; included {
			break
		}
		cell = next.to
	}

	return start, exits
}

// generate carves the maze.
func (m *WilsonMaze) generate() {
	visited := map[grid.Location]struct{}{m.randomCell(): {}}

	for len(visited) < m.width*m.height {
		start, exits := m.randomWalk(visited)
		for cell := start; ; {
			if _, included := visited[cell]; included {
				break
			}
			mv := exits[cell]
			m.openWall(mv)
			visited[cell] = struct{}{}
			cell = mv.to
		}
	}
}

// Rows renders the maze as a (2*width+1) x (2*height+1) wall map. Cell (x, y) sits at
// (2x+1, 2y+1) and an open wall clears the cell between two neighbours.
func (m *WilsonMaze) Rows() [][]byte {
	rows := make([][]byte, 2*m.height+1)
	for y := range rows {
		rows[y] = make([]byte, 2*m.width+1)
		for x := range rows[y] {
			rows[y][x] = 1
		}
	}

	for y, row := range m.cells {
		for x, c := range row {
			at := grid.Location{X: 2*x + 1, Y: 2*y + 1}
			rows[at.Y][at.X] = 0
			for i, dir := range grid.Compass {
				if !c.walls[i] {
					gap := at.Next(dir)
					rows[gap.Y][gap.X] = 0
				}
			}
		}
	}
	return rows
}

// String provides a textual representation of the maze.
func (m *WilsonMaze) String() string {
	return Format(m.Rows())
}
