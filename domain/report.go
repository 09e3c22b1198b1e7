// Package domain holds the records the service persists.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Report is the stored outcome of checking a rule set against a map.
type Report struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	MapKey      string    `json:"map" bson:"mapKey"`
	RuleHash    string    `json:"rule_hash" bson:"ruleHash"`
	Rules       string    `json:"rules" bson:"rules"`
	Passed      bool      `json:"passed" bson:"passed"`
	Starts      int       `json:"starts" bson:"starts"`
	MoveBudget  int       `json:"move_budget" bson:"moveBudget"`
	WorstMoves  int       `json:"worst_moves" bson:"worstMoves"`
	TotalMoves  int       `json:"total_moves" bson:"totalMoves"`
	FailedStart int       `json:"failed_start" bson:"failedStart"` // -1 when every start passed.
	Failure     string    `json:"failure,omitempty" bson:"failure,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
}

// ReportConfig holds the values needed to create a Report.
type ReportConfig struct {
	Name       string
	MapKey     string
	Rules      string // Canonical rule text.
	MoveBudget int
}

// NewReport creates a report that has not been evaluated yet.
func NewReport(c ReportConfig) *Report {
	return &Report{
		ID:          uuid.New(),
		Name:        c.Name,
		MapKey:      c.MapKey,
		RuleHash:    RuleHash(c.Rules),
		Rules:       c.Rules,
		MoveBudget:  c.MoveBudget,
		FailedStart: -1,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond), // Mongo keeps milliseconds only.
	}
}

// RuleHash identifies canonical rule text.
func RuleHash(rules string) string {
	sum := sha256.Sum256([]byte(rules))
	return hex.EncodeToString(sum[:])
}

// CacheKey identifies the evaluation of a rule set on a map under a move budget.
func (r *Report) CacheKey() string {
	return CacheKey(r.MapKey, r.RuleHash, r.MoveBudget)
}

// CacheKey identifies the evaluation of rule text with hash ruleHash on mapKey.
func CacheKey(mapKey, ruleHash string, moveBudget int) string {
	sum := sha256.Sum256([]byte(mapKey + "\x00" + ruleHash + "\x00" + strconv.Itoa(moveBudget)))
	return hex.EncodeToString(sum[:16])
}
