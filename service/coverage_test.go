package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/beka-birhanu/picobot-api/game"
	"github.com/beka-birhanu/picobot-api/game/rules"
	"github.com/beka-birhanu/picobot-api/game/terrain"
	"github.com/beka-birhanu/picobot-api/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*dmn.Report
	saves   int
	err     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reports: map[uuid.UUID]*dmn.Report{}}
}

func (r *fakeRepo) Save(_ context.Context, report *dmn.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves++
	r.reports[report.ID] = report
	return nil
}

func (r *fakeRepo) ByID(_ context.Context, id uuid.UUID) (*dmn.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, dmn.ErrReportNotFound
	}
	return report, nil
}

func (r *fakeRepo) Close() error { return nil }

type fakeCache struct {
	mu      sync.Mutex
	reports map[string]*dmn.Report
	locks   int
	lockErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{reports: map[string]*dmn.Report{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (*dmn.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reports[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, report *dmn.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[key] = report
	return nil
}

func (c *fakeCache) Lock(context.Context, string) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockErr != nil {
		return nil, c.lockErr
	}
	c.locks++
	return func() {}, nil
}

type fakeLogger struct{}

func (fakeLogger) Info(string)    {}
func (fakeLogger) Warning(string) {}
func (fakeLogger) Error(string)   {}

func newCoverage(t *testing.T, repo i.ReportRepo, cache i.ReportCache, opts *Options) *Coverage {
	t.Helper()
	svc, err := NewCoverage(repo, cache, fakeLogger{}, opts)
	require.NoError(t, err)
	return svc
}

func TestNewCoverage(t *testing.T) {
	t.Run("Requires repository", func(t *testing.T) {
		_, err := NewCoverage(nil, nil, fakeLogger{}, nil)
		assert.Error(t, err)
	})

	t.Run("Applies default budgets", func(t *testing.T) {
		svc := newCoverage(t, newFakeRepo(), nil, nil)
		assert.Equal(t, game.DefaultMoveBudget, svc.opts.MoveBudget)
		assert.Equal(t, defaultMaxMoveBudget, svc.opts.MaxMoveBudget)
	})

	t.Run("Raises max budget to default", func(t *testing.T) {
		svc := newCoverage(t, newFakeRepo(), nil, &Options{MoveBudget: 50, MaxMoveBudget: 10})
		assert.Equal(t, 50, svc.opts.MaxMoveBudget)
	})
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("Passing rule set is stored and cached", func(t *testing.T) {
		repo, cache := newFakeRepo(), newFakeCache()
		svc := newCoverage(t, repo, cache, nil)

		report, err := svc.Evaluate(ctx, i.EvaluateRequest{
			Name:  "room sweep",
			Rules: terrain.EmptyRoomRules,
			Map:   terrain.Spec{Name: "room"},
		})
		require.NoError(t, err)

		assert.True(t, report.Passed)
		assert.Equal(t, "room sweep", report.Name)
		assert.Equal(t, "room", report.MapKey)
		assert.Equal(t, 23*23, report.Starts)
		assert.Equal(t, -1, report.FailedStart)
		assert.Empty(t, report.Failure)
		assert.Equal(t, game.DefaultMoveBudget, report.MoveBudget)
		assert.Equal(t, 1, repo.saves)
		assert.Equal(t, 1, cache.locks)
		assert.Same(t, report, cache.reports[report.CacheKey()])

		stored, err := svc.Report(ctx, report.ID)
		require.NoError(t, err)
		assert.Same(t, report, stored)
	})

	t.Run("Cached report is returned without running", func(t *testing.T) {
		repo, cache := newFakeRepo(), newFakeCache()
		svc := newCoverage(t, repo, cache, nil)
		req := i.EvaluateRequest{Rules: terrain.DiamondRules, Map: terrain.Spec{Name: "diamond"}}

		first, err := svc.Evaluate(ctx, req)
		require.NoError(t, err)

		// Comments and spacing do not change the canonical rules.
		req.Rules = "# again\n" + terrain.DiamondRules
		second, err := svc.Evaluate(ctx, req)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, repo.saves)
	})

	t.Run("Runs without cache", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newCoverage(t, repo, nil, nil)
		req := i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}}

		_, err := svc.Evaluate(ctx, req)
		require.NoError(t, err)
		_, err = svc.Evaluate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.saves)
	})

	t.Run("Failing rule set yields failed report", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newCoverage(t, repo, nil, nil)

		report, err := svc.Evaluate(ctx, i.EvaluateRequest{
			Rules: "0 **** -> N 0",
			Map:   terrain.Spec{Name: "room"},
		})
		require.NoError(t, err)

		assert.False(t, report.Passed)
		assert.Equal(t, 0, report.FailedStart)
		assert.Equal(t, 1, report.Starts)
		assert.Contains(t, report.Failure, "start 0")
		assert.Equal(t, 1, repo.saves)
	})

	t.Run("Exhausted budget yields failed report", func(t *testing.T) {
		svc := newCoverage(t, newFakeRepo(), nil, nil)

		report, err := svc.Evaluate(ctx, i.EvaluateRequest{
			Rules:      terrain.EmptyRoomRules,
			Map:        terrain.Spec{Name: "room"},
			MoveBudget: 10,
		})
		require.NoError(t, err)

		assert.False(t, report.Passed)
		assert.Equal(t, 10, report.MoveBudget)
		assert.Equal(t, 10, report.WorstMoves)
		assert.Contains(t, report.Failure, game.ErrBudgetExhausted.Error())
	})

	t.Run("Generated maze with wall follower", func(t *testing.T) {
		svc := newCoverage(t, newFakeRepo(), nil, nil)

		report, err := svc.Evaluate(ctx, i.EvaluateRequest{
			Rules: terrain.WallFollowerRules,
			Map:   terrain.Spec{Name: terrain.MazeName, Width: 6, Height: 5, Seed: 7},
		})
		require.NoError(t, err)
		assert.True(t, report.Passed)
		assert.Equal(t, "maze:6x5:7", report.MapKey)
	})

	t.Run("Invalid requests", func(t *testing.T) {
		svc := newCoverage(t, newFakeRepo(), nil, &Options{MaxMoveBudget: game.DefaultMoveBudget})

		tests := []struct {
			name string
			req  i.EvaluateRequest
			want error
		}{
			{"malformed rules", i.EvaluateRequest{Rules: "0 xxxx -> Q 0", Map: terrain.Spec{Name: "room"}}, rules.ErrMalformedRule},
			{"empty rules", i.EvaluateRequest{Rules: "# nothing", Map: terrain.Spec{Name: "room"}}, ErrNoRules},
			{"unknown map", i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "castle"}}, terrain.ErrUnknownMap},
			{"oversized layout", i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Layout: strings.Repeat(strings.Repeat("#", 100)+"\n", 100)}}, terrain.ErrInvalidLayout},
			{"bad layout", i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Layout: "##\n##"}}, terrain.ErrInvalidLayout},
			{"no clear cells", i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Layout: "###\n###\n###"}}, game.ErrNoClearCells},
			{"negative budget", i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}, MoveBudget: -1}, game.ErrInvalidBudget},
			{"budget too large", i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}, MoveBudget: game.DefaultMoveBudget + 1}, ErrBudgetTooLarge},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Evaluate(ctx, tt.req)
				assert.ErrorIs(t, err, ErrInvalidRequest)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("Parse errors keep line details", func(t *testing.T) {
		svc := newCoverage(t, newFakeRepo(), nil, nil)
		_, err := svc.Evaluate(ctx, i.EvaluateRequest{Rules: "0 xxxx -> N 0\nbogus", Map: terrain.Spec{Name: "room"}})

		var parseErr *rules.ParseError
		require.True(t, errors.As(err, &parseErr))
		require.Len(t, parseErr.Lines, 1)
		assert.Equal(t, 2, parseErr.Lines[0].Line)
	})

	t.Run("Repository failure is returned", func(t *testing.T) {
		repo := newFakeRepo()
		repo.err = errors.New("disk full")
		svc := newCoverage(t, repo, nil, nil)

		_, err := svc.Evaluate(ctx, i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}})
		assert.EqualError(t, err, "disk full")
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		svc := newCoverage(t, newFakeRepo(), nil, nil)

		_, err := svc.Evaluate(cctx, i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// countdownContext reports cancellation once Err has been called more than left times.
type countdownContext struct {
	context.Context
	left int
}

func (c *countdownContext) Err() error {
	if c.left <= 0 {
		return context.Canceled
	}
	c.left--
	return nil
}

func TestEvaluateStopsWhenCancelledMidRun(t *testing.T) {
	repo := newFakeRepo()
	svc := newCoverage(t, repo, nil, nil)

	// The first start completes; the check before the second one fails.
	ctx := &countdownContext{Context: context.Background(), left: 3}
	_, err := svc.Evaluate(ctx, i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, 0, repo.saves)
}

func TestEvaluateLockFailure(t *testing.T) {
	t.Run("Abandoned wait returns the context error", func(t *testing.T) {
		repo, cache := newFakeRepo(), newFakeCache()
		cache.lockErr = errors.New("lock wait ended")
		svc := newCoverage(t, repo, cache, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Evaluate(ctx, i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, repo.saves)
	})

	t.Run("Unavailable lock still evaluates", func(t *testing.T) {
		repo, cache := newFakeRepo(), newFakeCache()
		cache.lockErr = errors.New("redis down")
		svc := newCoverage(t, repo, cache, nil)

		report, err := svc.Evaluate(context.Background(), i.EvaluateRequest{Rules: terrain.EmptyRoomRules, Map: terrain.Spec{Name: "room"}})
		require.NoError(t, err)
		assert.True(t, report.Passed)
		assert.Equal(t, 1, repo.saves)
	})
}

func TestReport(t *testing.T) {
	svc := newCoverage(t, newFakeRepo(), nil, nil)
	_, err := svc.Report(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dmn.ErrReportNotFound)
}

func TestLint(t *testing.T) {
	svc := newCoverage(t, newFakeRepo(), nil, nil)

	t.Run("Reports ambiguity", func(t *testing.T) {
		report, err := svc.Lint("0 **** -> N 0\n0 x*** -> N 0")
		require.NoError(t, err)
		assert.NotEmpty(t, report.Ambiguous)
		assert.False(t, report.Clean())
	})

	t.Run("Rejects malformed text", func(t *testing.T) {
		_, err := svc.Lint("nope")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
