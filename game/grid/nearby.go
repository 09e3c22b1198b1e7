package grid

import "strings"

// Nearby holds one wall flag per compass direction in N, E, W, S order.
type Nearby [4]bool

// Get reports whether the neighbour in dir is a wall.
func (n Nearby) Get(dir Direction) bool {
	i := dir.Index()
	if i < 0 {
		return false
	}
	return n[i]
}

// String prints NEWS for all walls and NExx for walls on N and E only.
func (n Nearby) String() string {
	var b strings.Builder
	for i, dir := range Compass {
		if n[i] {
			b.WriteByte(byte(dir))
		} else {
			b.WriteByte('x')
		}
	}
	return b.String()
}

// AllNearby enumerates the 16 possible sensing patterns.
func AllNearby() []Nearby {
	patterns := make([]Nearby, 0, 16)
	for bits := 0; bits < 16; bits++ {
		var n Nearby
		for i := range n {
			n[i] = bits&(1<<(3-i)) != 0
		}
		patterns = append(patterns, n)
	}
	return patterns
}
