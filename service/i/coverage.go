package i

import (
	"context"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/beka-birhanu/picobot-api/game/rules"
	"github.com/beka-birhanu/picobot-api/game/terrain"
	"github.com/google/uuid"
)

// EvaluateRequest asks for a rule set to be checked against a map.
type EvaluateRequest struct {
	Name       string
	Rules      string
	Map        terrain.Spec
	MoveBudget int // Zero means the configured default.
}

// CoverageChecker evaluates rule sets and serves stored reports.
type CoverageChecker interface {
	Evaluate(ctx context.Context, req EvaluateRequest) (*dmn.Report, error)
	Report(ctx context.Context, id uuid.UUID) (*dmn.Report, error)
	Lint(text string) (rules.LintReport, error)
	Watcher
}

// WatchRequest asks for a single run to be streamed step by step.
type WatchRequest struct {
	Rules      string
	Map        terrain.Spec
	Start      int // Starting index among clear cells.
	MoveBudget int // Zero means the configured default.
}

// Frame is the simulation state after a step.
type Frame struct {
	Step      int    `json:"step"`
	State     uint32 `json:"state"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Remaining int    `json:"remaining"`
	Board     string `json:"board"`
}

// WatchResult is how a watched run ended.
type WatchResult struct {
	Covered bool   `json:"covered"`
	Moves   int    `json:"moves"`
	Failure string `json:"failure,omitempty"`
}

// Watcher streams a single run to a caller.
type Watcher interface {
	Watch(ctx context.Context, req WatchRequest, emit func(Frame) error) (*WatchResult, error)
}
