package rules

import (
	"sort"

	"github.com/beka-birhanu/picobot-api/game/grid"
	"github.com/zyedidia/generic/mapset"
)

// Ambiguity is a sensing pattern two rules both accept.
type Ambiguity struct {
	State  uint32      `json:"state"`
	Nearby grid.Nearby `json:"-"`
	Code   string      `json:"nearby"`
	First  string      `json:"first"`
	Second string      `json:"second"`
}

// Overlap is a pair of rules for the same state whose conditions can both hold.
type Overlap struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Gap is a sensing pattern no rule accepts.
type Gap struct {
	State  uint32      `json:"state"`
	Nearby grid.Nearby `json:"-"`
	Code   string      `json:"nearby"`
}

// LintReport is the result of analysing a rule set without running it.
type LintReport struct {
	Ambiguous   []Ambiguity `json:"ambiguous"`
	Overlaps    []Overlap   `json:"overlaps"`
	Uncovered   []Gap       `json:"uncovered"`
	WallRisks   []string    `json:"wall_risks"`  // Advisory: rules that move somewhere not required to be clear.
	Dangling    []uint32    `json:"dangling"`    // Destination states without rules.
	Unreachable []uint32    `json:"unreachable"` // States with rules that state 0 never leads to.
}

// Clean reports whether no sensing pattern matches two rules. Gaps, wall
// risks and state reachability are advisory: a correct rule set may never
// meet the surroundings they describe.
func (l LintReport) Clean() bool {
	return len(l.Ambiguous) == 0 && len(l.Overlaps) == 0
}

// Lint checks every state of rs against all 16 sensing patterns.
func Lint(rs RuleSet) LintReport {
	report := LintReport{
		Ambiguous:   []Ambiguity{},
		Overlaps:    []Overlap{},
		Uncovered:   []Gap{},
		WallRisks:   []string{},
		Dangling:    []uint32{},
		Unreachable: []uint32{},
	}

	defined := mapset.New[uint32]()
	edges := map[uint32][]uint32{}
	for _, r := range rs {
		defined.Put(r.State)
		edges[r.State] = append(edges[r.State], r.Next)
		if r.Condition(r.Move) != Clear {
			report.WallRisks = append(report.WallRisks, r.String())
		}
	}

	for n, r := range rs {
		for _, other := range rs[n+1:] {
			if r.Overlaps(other) {
				report.Overlaps = append(report.Overlaps, Overlap{First: r.String(), Second: other.String()})
			}
		}
	}

	for _, state := range sortedStates(defined) {
		for _, nearby := range grid.AllNearby() {
			_, err := rs.Match(state, nearby)
			switch e := err.(type) {
			case nil:
			case *AmbiguityError:
				report.Ambiguous = append(report.Ambiguous, Ambiguity{
					State:  state,
					Nearby: nearby,
					Code:   nearby.String(),
					First:  e.First.String(),
					Second: e.Second.String(),
				})
			default:
				report.Uncovered = append(report.Uncovered, Gap{State: state, Nearby: nearby, Code: nearby.String()})
			}
		}
	}

	dangling := mapset.New[uint32]()
	for _, r := range rs {
		if !defined.Has(r.Next) {
			dangling.Put(r.Next)
		}
	}
	report.Dangling = append(report.Dangling, sortedStates(dangling)...)

	reached := mapset.New[uint32]()
	queue := []uint32{0}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		if reached.Has(state) {
			continue
		}
		reached.Put(state)
		queue = append(queue, edges[state]...)
	}
	for _, state := range sortedStates(defined) {
		if !reached.Has(state) {
			report.Unreachable = append(report.Unreachable, state)
		}
	}

	return report
}

func sortedStates(s mapset.Set[uint32]) []uint32 {
	states := make([]uint32, 0, s.Size())
	s.Each(func(state uint32) {
		states = append(states, state)
	})
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}
