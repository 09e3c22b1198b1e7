package repo

import (
	"context"
	"os"
	"testing"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/beka-birhanu/picobot-api/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func sampleReport() *dmn.Report {
	report := dmn.NewReport(dmn.ReportConfig{
		Name:       "sweep",
		MapKey:     "room",
		Rules:      "0 x*** -> N 0\n",
		MoveBudget: 1000,
	})
	report.Starts = 12
	report.WorstMoves = 40
	report.TotalMoves = 300
	return report
}

func testReportRepo(t *testing.T, r i.ReportRepo) {
	ctx := context.Background()

	t.Run("Missing report", func(t *testing.T) {
		_, err := r.ByID(ctx, uuid.New())
		assert.ErrorIs(t, err, dmn.ErrReportNotFound)
	})

	t.Run("Save and load", func(t *testing.T) {
		report := sampleReport()
		require.NoError(t, r.Save(ctx, report))

		got, err := r.ByID(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, report.ID, got.ID)
		assert.Equal(t, report.Name, got.Name)
		assert.Equal(t, report.MapKey, got.MapKey)
		assert.Equal(t, report.RuleHash, got.RuleHash)
		assert.Equal(t, report.Rules, got.Rules)
		assert.False(t, got.Passed)
		assert.Equal(t, 12, got.Starts)
		assert.Equal(t, 1000, got.MoveBudget)
		assert.Equal(t, 40, got.WorstMoves)
		assert.Equal(t, 300, got.TotalMoves)
		assert.Equal(t, -1, got.FailedStart)
		assert.True(t, report.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("Save updates existing report", func(t *testing.T) {
		report := sampleReport()
		require.NoError(t, r.Save(ctx, report))

		report.Passed = false
		report.FailedStart = 3
		report.Failure = "start 3 (2,1): no rule applies"
		require.NoError(t, r.Save(ctx, report))

		got, err := r.ByID(ctx, report.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.FailedStart)
		assert.Equal(t, report.Failure, got.Failure)
	})

	t.Run("Passed flag round trips", func(t *testing.T) {
		report := sampleReport()
		report.Passed = true
		require.NoError(t, r.Save(ctx, report))

		got, err := r.ByID(ctx, report.ID)
		require.NoError(t, err)
		assert.True(t, got.Passed)
	})
}

func TestMemoryReportRepo(t *testing.T) {
	r := NewMemoryReportRepo()
	defer r.Close()
	testReportRepo(t, r)

	t.Run("Returned report is a copy", func(t *testing.T) {
		report := sampleReport()
		require.NoError(t, r.Save(context.Background(), report))
		report.Name = "changed"

		got, err := r.ByID(context.Background(), report.ID)
		require.NoError(t, err)
		assert.Equal(t, "sweep", got.Name)
	})
}

func TestSQLiteReportRepo(t *testing.T) {
	t.Run("Requires path", func(t *testing.T) {
		_, err := NewSQLiteReportRepo(context.Background(), "")
		assert.Error(t, err)
	})

	r, err := NewSQLiteReportRepo(context.Background(), ":memory:")
	require.NoError(t, err)
	defer r.Close()
	testReportRepo(t, r)
}

func TestPostgresReportRepo(t *testing.T) {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set")
	}

	r, err := NewPostgresReportRepo(context.Background(), url)
	require.NoError(t, err)
	defer r.Close()
	testReportRepo(t, r)
}

func TestMongoReportRepo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer func() {
		_ = client.Disconnect(ctx)
	}()
	require.NoError(t, client.Ping(ctx, nil))

	collection := "coverage_reports_" + uuid.NewString()
	defer func() {
		_ = client.Database("picobot_test").Collection(collection).Drop(ctx)
	}()

	r := NewMongoReportRepo(client, "picobot_test", collection)
	defer r.Close()
	testReportRepo(t, r)
}
