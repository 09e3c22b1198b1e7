// Package coverageapi exposes coverage checks, rule linting and live runs over HTTP.
package coverageapi

import (
	"time"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/beka-birhanu/picobot-api/game/rules"
	"github.com/beka-birhanu/picobot-api/game/terrain"
)

// MapRequest selects a bundled map, a generated maze or a literal layout.
type MapRequest struct {
	Name   string `json:"name"`
	Layout string `json:"layout"`
	Seed   int64  `json:"seed"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (m MapRequest) spec() terrain.Spec {
	return terrain.Spec{
		Name:   m.Name,
		Layout: m.Layout,
		Seed:   m.Seed,
		Width:  m.Width,
		Height: m.Height,
	}
}

// EvaluateRequest asks for a coverage check.
type EvaluateRequest struct {
	Name       string     `json:"name"`
	Rules      string     `json:"rules" binding:"required"`
	Map        MapRequest `json:"map"`
	MoveBudget int        `json:"move_budget"`
}

// LintRequest carries rule text to analyse.
type LintRequest struct {
	Rules string `json:"rules" binding:"required"`
}

// WatchRequest is the first message a watch client sends.
type WatchRequest struct {
	Rules      string     `json:"rules"`
	Map        MapRequest `json:"map"`
	Start      int        `json:"start"`
	MoveBudget int        `json:"move_budget"`
}

// ReportResponse is a stored coverage report.
type ReportResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Map         string    `json:"map"`
	RuleHash    string    `json:"rule_hash"`
	Rules       string    `json:"rules"`
	Passed      bool      `json:"passed"`
	Starts      int       `json:"starts"`
	MoveBudget  int       `json:"move_budget"`
	WorstMoves  int       `json:"worst_moves"`
	TotalMoves  int       `json:"total_moves"`
	FailedStart *int      `json:"failed_start,omitempty"`
	Failure     string    `json:"failure,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newReportResponse(r *dmn.Report) *ReportResponse {
	resp := &ReportResponse{
		ID:         r.ID.String(),
		Name:       r.Name,
		Map:        r.MapKey,
		RuleHash:   r.RuleHash,
		Rules:      r.Rules,
		Passed:     r.Passed,
		Starts:     r.Starts,
		MoveBudget: r.MoveBudget,
		WorstMoves: r.WorstMoves,
		TotalMoves: r.TotalMoves,
		Failure:    r.Failure,
		CreatedAt:  r.CreatedAt,
	}
	if r.FailedStart >= 0 {
		start := r.FailedStart
		resp.FailedStart = &start
	}
	return resp
}

// MapResponse describes a bundled map.
type MapResponse struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Layout string `json:"layout"`
	Rules  string `json:"rules"`
}

// LineErrorResponse is one unparsable rule line.
type LineErrorResponse struct {
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

func newLineErrors(pe *rules.ParseError) []LineErrorResponse {
	lines := make([]LineErrorResponse, len(pe.Lines))
	for n, l := range pe.Lines {
		lines[n] = LineErrorResponse{Line: l.Line, Text: l.Text, Error: l.Err.Error()}
	}
	return lines
}

// WatchMessage is sent to watch clients: one per frame, then a result or an error.
type WatchMessage struct {
	Type   string      `json:"type"` // "frame", "result" or "error".
	Frame  interface{} `json:"frame,omitempty"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}
