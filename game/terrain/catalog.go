package terrain

import "sort"

// DiamondRules covers Diamond from every starting cell. States 0-7 reach the eastern
// tip, states 4 and 12-16 sweep the columns westward.
const DiamondRules = `# travel east, probing south to find which half we are in
0 *x** -> E 0
0 *E*x -> S 1
0 xE*S -> N 3
0 NE*S -> W 4
1 *x** -> E 2
1 *E** -> N 5
5 x*** -> N 3
# upper half: step south whenever east is blocked
2 *x** -> E 2
2 *E*x -> S 7
2 *E*S -> W 4
7 *x** -> E 2
# lower half: step north whenever east is blocked
3 *x** -> E 3
3 xE** -> N 3
3 NE** -> W 4
# sweep columns westward
4 ***x -> S 4
4 x**S -> N 12
12 x*** -> N 12
12 N*x* -> W 13
12 N*W* -> S 14
13 x*** -> N 13
13 N**x -> S 15
15 ***x -> S 15
15 **xS -> W 4
15 **WS -> N 16
14 **x* -> W 4
14 **Wx -> S 14
16 **x* -> W 13
16 x*W* -> N 16
`

// EmptyRoomRules covers EmptyRoom: go to the north-east corner, then sweep columns westward.
const EmptyRoomRules = `0 *x** -> E 0
0 xE** -> N 1
0 NE** -> S 2
1 x*** -> N 1
1 N*** -> S 2
2 ***x -> S 2
2 **xS -> W 3
3 x*** -> N 3
3 N*x* -> W 2
`

// WallFollowerRules keeps a wall on one side. The state is the heading
// (0 N, 1 E, 2 S, 3 W); it visits every cell of any perfect maze.
const WallFollowerRules = `0 *x** -> E 1
0 xE** -> N 0
0 NEx* -> W 3
0 NEW* -> S 2
1 ***x -> S 2
1 *x*S -> E 1
1 xE*S -> N 0
1 NE*S -> W 3
2 **x* -> W 3
2 **Wx -> S 2
2 *xWS -> E 1
2 *EWS -> N 0
3 x*** -> N 0
3 N*x* -> W 3
3 N*Wx -> S 2
3 N*WS -> E 1
`

// Entry is a bundled map and a rule set known to cover it.
type Entry struct {
	Name  string
	Rows  [][]byte
	Rules string
}

var catalog = map[string]Entry{
	"diamond": {Name: "diamond", Rows: Diamond, Rules: DiamondRules},
	"room":    {Name: "room", Rows: EmptyRoom, Rules: EmptyRoomRules},
}

// Lookup returns the bundled map called name.
func Lookup(name string) (Entry, bool) {
	entry, ok := catalog[name]
	return entry, ok
}

// Names lists the bundled maps in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
