package repo

import (
	"context"
	"database/sql"
	"fmt"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/google/uuid"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresReportRepo stores reports in PostgreSQL.
type PostgresReportRepo struct {
	db *sql.DB
}

// NewPostgresReportRepo connects to PostgreSQL and creates the reports table if needed.
func NewPostgresReportRepo(ctx context.Context, connectionString string) (*PostgresReportRepo, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &PostgresReportRepo{db: db}
	if err := repo.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return repo, nil
}

func (r *PostgresReportRepo) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS coverage_reports (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		map_key TEXT NOT NULL,
		rule_hash TEXT NOT NULL,
		rules TEXT NOT NULL,
		passed BOOLEAN NOT NULL,
		starts INTEGER NOT NULL,
		move_budget INTEGER NOT NULL,
		worst_moves INTEGER NOT NULL,
		total_moves BIGINT NOT NULL,
		failed_start INTEGER NOT NULL,
		failure TEXT NOT NULL,
		created_at BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS coverage_reports_rule_hash ON coverage_reports (rule_hash);
	`

	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Save inserts or updates a report.
func (r *PostgresReportRepo) Save(ctx context.Context, report *dmn.Report) error {
	query := `
	INSERT INTO coverage_reports (` + reportColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id)
	DO UPDATE SET
		name = $2, passed = $6, starts = $7, worst_moves = $9,
		total_moves = $10, failed_start = $11, failure = $12
	`

	if _, err := r.db.ExecContext(ctx, query, reportArgs(report)...); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// ByID loads a report by ID.
func (r *PostgresReportRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM coverage_reports WHERE id = $1`
	return scanReport(r.db.QueryRowContext(ctx, query, id.String()))
}

func (r *PostgresReportRepo) Close() error {
	return r.db.Close()
}
