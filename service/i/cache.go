package i

import (
	"context"

	dmn "github.com/beka-birhanu/picobot-api/domain"
)

// ReportCache stores finished reports by evaluation key.
type ReportCache interface {
	// Get returns the cached report or (nil, nil) on a miss.
	Get(ctx context.Context, key string) (*dmn.Report, error)
	Set(ctx context.Context, key string, report *dmn.Report) error

	// Lock serialises evaluations of the same key. The returned func releases it.
	Lock(ctx context.Context, key string) (func(), error)
}
