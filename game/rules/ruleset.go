package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/picobot-api/game/grid"
)

var (
	ErrMalformedRule = errors.New("cannot parse rule")
	ErrNoMatch       = errors.New("no rule applies")
	ErrAmbiguous     = errors.New("more than one rule applies")
)

// AmbiguityError reports two rules that both match the same state and surroundings.
type AmbiguityError struct {
	First  Rule
	Second Rule
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s:\n%s\n%s", ErrAmbiguous, e.First, e.Second)
}

func (e *AmbiguityError) Unwrap() error {
	return ErrAmbiguous
}

// RuleSet is an ordered list of rules. Order never decides which rule applies.
type RuleSet []Rule

// Match returns the only rule matching state and nearby.
func (rs RuleSet) Match(state uint32, nearby grid.Nearby) (Rule, error) {
	var (
		found Rule
		ok    bool
	)
	for _, r := range rs {
		if !r.Matches(state, nearby) {
			continue
		}
		if ok {
			return Rule{}, &AmbiguityError{First: found, Second: r}
		}
		found, ok = r, true
	}
	if !ok {
		return Rule{}, ErrNoMatch
	}
	return found, nil
}

// String prints one rule per line.
func (rs RuleSet) String() string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}
