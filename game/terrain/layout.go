package terrain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/beka-birhanu/picobot-api/game/grid"
)

// MaxLayoutDimension bounds both sides of a literal layout. It matches the
// bitmap of the largest maze NewWilson will generate.
const MaxLayoutDimension = 2*maxMazeDimension + 1

var (
	ErrUnknownMap    = errors.New("unknown map")
	ErrInvalidLayout = errors.New("invalid map layout")
)

// Parse reads a text layout where '#' or '1' is a wall and '.', '0' or ' ' is clear.
// Empty lines are skipped; the remaining rows must form a rectangle of at least 3x3
// and at most MaxLayoutDimension on either side.
func Parse(text string) ([][]byte, error) {
	var rows [][]byte
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if len(line) > MaxLayoutDimension {
			return nil, fmt.Errorf("%w: line %d is wider than %d", ErrInvalidLayout, i+1, MaxLayoutDimension)
		}
		if len(rows) == MaxLayoutDimension {
			return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidLayout, MaxLayoutDimension)
		}
		row := make([]byte, len(line))
		for x, ch := range []byte(line) {
			switch ch {
			case '#', '1':
				row[x] = 1
			case '.', '0', ' ':
				row[x] = 0
			default:
				return nil, fmt.Errorf("%w: line %d column %d: unexpected %q", ErrInvalidLayout, i+1, x+1, ch)
			}
		}
		rows = append(rows, row)
	}

	if _, err := grid.Load(rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return rows, nil
}

// Format prints rows in the layout accepted by Parse.
func Format(rows [][]byte) string {
	var b strings.Builder
	for _, row := range rows {
		for _, cell := range row {
			if cell != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Spec selects a map: a literal layout, a generated maze, or a catalog name.
type Spec struct {
	Name   string `json:"name"`
	Layout string `json:"layout,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// MazeName selects a generated Wilson maze in Spec.Name.
const MazeName = "maze"

// Resolve returns the wall rows for s and a stable key identifying them.
func Resolve(s Spec) ([][]byte, string, error) {
	switch {
	case s.Layout != "":
		rows, err := Parse(s.Layout)
		if err != nil {
			return nil, "", err
		}
		sum := sha256.Sum256([]byte(Format(rows)))
		return rows, "layout:" + hex.EncodeToString(sum[:8]), nil

	case s.Name == MazeName:
		maze, err := NewWilson(s.Width, s.Height, rand.New(rand.NewSource(s.Seed)))
		if err != nil {
			return nil, "", err
		}
		return maze.Rows(), fmt.Sprintf("maze:%dx%d:%d", s.Width, s.Height, s.Seed), nil
	}

	entry, ok := Lookup(s.Name)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownMap, s.Name)
	}
	return entry.Rows, entry.Name, nil
}
