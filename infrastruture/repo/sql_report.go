package repo

import (
	"database/sql"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/picobot-api/domain"
)

const reportColumns = `id, name, map_key, rule_hash, rules, passed, starts, move_budget,
	worst_moves, total_moves, failed_start, failure, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanReport reads one row selected with reportColumns. created_at is stored
// as Unix nanoseconds so both SQL backends agree on its encoding.
func scanReport(row rowScanner) (*dmn.Report, error) {
	var (
		report  dmn.Report
		created int64
	)
	err := row.Scan(
		&report.ID, &report.Name, &report.MapKey, &report.RuleHash, &report.Rules,
		&report.Passed, &report.Starts, &report.MoveBudget, &report.WorstMoves,
		&report.TotalMoves, &report.FailedStart, &report.Failure, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dmn.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	report.CreatedAt = time.Unix(0, created).UTC()
	return &report, nil
}

func reportArgs(report *dmn.Report) []any {
	return []any{
		report.ID.String(), report.Name, report.MapKey, report.RuleHash, report.Rules,
		report.Passed, report.Starts, report.MoveBudget, report.WorstMoves,
		report.TotalMoves, report.FailedStart, report.Failure, report.CreatedAt.UnixNano(),
	}
}
