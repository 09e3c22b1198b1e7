package repo

import (
	"context"
	"sync"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/google/uuid"
)

// MemoryReportRepo keeps reports in process memory.
type MemoryReportRepo struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]dmn.Report
}

func NewMemoryReportRepo() *MemoryReportRepo {
	return &MemoryReportRepo{reports: map[uuid.UUID]dmn.Report{}}
}

func (r *MemoryReportRepo) Save(ctx context.Context, report *dmn.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = *report
	return nil
}

func (r *MemoryReportRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, dmn.ErrReportNotFound
	}
	return &report, nil
}

func (r *MemoryReportRepo) Close() error {
	return nil
}
