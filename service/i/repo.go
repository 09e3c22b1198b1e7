package i

import (
	"context"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/google/uuid"
)

// ReportRepo defines the interface for coverage report persistence.
type ReportRepo interface {
	// Save inserts or updates a report.
	Save(ctx context.Context, report *dmn.Report) error

	// ByID retrieves a report by its ID.
	// Returns ErrReportNotFound when no report has that ID.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.Report, error)

	Close() error
}
