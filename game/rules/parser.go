package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beka-birhanu/picobot-api/game/grid"
)

var (
	commentPattern = regexp.MustCompile(`^\s*#`)
	rulePattern    = regexp.MustCompile(`^\s*([0-9]+) +([Nx*])([Ex*])([Wx*])([Sx*]) +-> +([NEWS]) +([0-9]+)\s*(#.*)?$`)
)

// LineError describes one line that could not be parsed.
type LineError struct {
	Line int    // 1-based line number.
	Text string // Offending line.
	Err  error  // Cause.
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// ParseError aggregates every line that failed to parse.
type ParseError struct {
	Lines []LineError
}

// Error prints one failure per line.
func (e *ParseError) Error() string {
	var b strings.Builder
	for _, l := range e.Lines {
		b.WriteString(l.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

func (e *ParseError) Unwrap() []error {
	errs := make([]error, len(e.Lines))
	for i, l := range e.Lines {
		errs[i] = l
	}
	return errs
}

// ParseLine parses a single line. Blank and comment lines yield (nil, nil).
func ParseLine(line string) (*Rule, error) {
	if strings.TrimSpace(line) == "" || commentPattern.MatchString(line) {
		return nil, nil
	}

	caps := rulePattern.FindStringSubmatch(line)
	if caps == nil {
		return nil, fmt.Errorf("%w %q", ErrMalformedRule, line)
	}

	state, err := strconv.ParseUint(caps[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w %q: state %s", ErrMalformedRule, line, err)
	}
	next, err := strconv.ParseUint(caps[7], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w %q: next state %s", ErrMalformedRule, line, err)
	}
	move, err := grid.ParseDirection(caps[6])
	if err != nil {
		return nil, err
	}

	rule := &Rule{State: uint32(state), Move: move, Next: uint32(next)}
	for i := range rule.Conditions {
		cond, err := ParseCondition(caps[2+i])
		if err != nil {
			return nil, err
		}
		rule.Conditions[i] = cond
	}
	return rule, nil
}

// Parse reads every line of text and returns the rules in order.
// All malformed lines are reported together in a *ParseError.
func Parse(text string) (RuleSet, error) {
	var (
		rules  RuleSet
		failed []LineError
	)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		rule, err := ParseLine(line)
		if err != nil {
			failed = append(failed, LineError{Line: i + 1, Text: line, Err: err})
			continue
		}
		if rule != nil {
			rules = append(rules, *rule)
		}
	}

	if len(failed) > 0 {
		return nil, &ParseError{Lines: failed}
	}
	return rules, nil
}
