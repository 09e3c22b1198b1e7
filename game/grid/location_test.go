package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	for _, code := range []string{"N", "E", "W", "S"} {
		dir, err := ParseDirection(code)
		require.NoError(t, err)
		assert.Equal(t, code, dir.String())
	}

	_, err := ParseDirection("x")
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = ParseDirection("NE")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestLocationOffset(t *testing.T) {
	origin := Location{X: 5, Y: 5}

	t.Run("screen coordinates with east towards negative x", func(t *testing.T) {
		assert.Equal(t, Location{X: 5, Y: 4}, origin.Next(North))
		assert.Equal(t, Location{X: 5, Y: 6}, origin.Next(South))
		assert.Equal(t, Location{X: 4, Y: 5}, origin.Next(East))
		assert.Equal(t, Location{X: 6, Y: 5}, origin.Next(West))
	})

	t.Run("distance scales the step", func(t *testing.T) {
		assert.Equal(t, Location{X: 2, Y: 5}, origin.Offset(East, 3))
		assert.Equal(t, Location{X: 5, Y: 9}, origin.Offset(South, 4))
	})

	t.Run("neighbour of neighbour in the opposite direction is the origin", func(t *testing.T) {
		for _, loc := range []Location{{0, 0}, {3, 7}, {-2, 11}} {
			for _, dir := range Compass {
				assert.Equal(t, loc, loc.Next(dir).Next(dir.Opposite()), "dir %s from %s", dir, loc)
			}
		}
	})
}

func TestNearbyString(t *testing.T) {
	assert.Equal(t, "NEWS", Nearby{true, true, true, true}.String())
	assert.Equal(t, "NExx", Nearby{true, true, false, false}.String())
	assert.Equal(t, "xxxS", Nearby{false, false, false, true}.String())
}

func TestAllNearby(t *testing.T) {
	patterns := AllNearby()
	require.Len(t, patterns, 16)

	seen := map[string]struct{}{}
	for _, n := range patterns {
		seen[n.String()] = struct{}{}
	}
	assert.Len(t, seen, 16)
	assert.Equal(t, "xxxx", patterns[0].String())
	assert.Equal(t, "NEWS", patterns[15].String())
}
