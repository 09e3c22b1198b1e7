package repo

import (
	"context"
	"database/sql"
	"errors"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteReportRepo stores reports in a SQLite file.
type SQLiteReportRepo struct {
	db *sql.DB
}

// NewSQLiteReportRepo opens path, which may be ":memory:", and creates the reports table.
func NewSQLiteReportRepo(ctx context.Context, path string) (*SQLiteReportRepo, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS coverage_reports (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			map_key TEXT NOT NULL,
			rule_hash TEXT NOT NULL,
			rules TEXT NOT NULL,
			passed INTEGER NOT NULL,
			starts INTEGER NOT NULL,
			move_budget INTEGER NOT NULL,
			worst_moves INTEGER NOT NULL,
			total_moves INTEGER NOT NULL,
			failed_start INTEGER NOT NULL,
			failure TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteReportRepo{db: db}, nil
}

func (r *SQLiteReportRepo) Save(ctx context.Context, report *dmn.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO coverage_reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			passed = excluded.passed,
			starts = excluded.starts,
			worst_moves = excluded.worst_moves,
			total_moves = excluded.total_moves,
			failed_start = excluded.failed_start,
			failure = excluded.failure
	`, reportArgs(report)...)
	return err
}

func (r *SQLiteReportRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Report, error) {
	return scanReport(r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM coverage_reports WHERE id = ?`, id.String()))
}

func (r *SQLiteReportRepo) Close() error {
	return r.db.Close()
}
