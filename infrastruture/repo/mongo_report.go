package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReportRepo handles the persistence of coverage reports in MongoDB.
type MongoReportRepo struct {
	collection *mongo.Collection
}

// NewMongoReportRepo creates a new MongoReportRepo with the given MongoDB client, database name, and collection name.
func NewMongoReportRepo(client *mongo.Client, dbName, collectionName string) *MongoReportRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &MongoReportRepo{
		collection: collection,
	}
}

// Save inserts or updates a report.
// If the report already exists, it updates the existing record.
func (r *MongoReportRepo) Save(ctx context.Context, report *dmn.Report) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": report.ID}
	update := bson.M{
		"$set": bson.M{
			"name":        report.Name,
			"mapKey":      report.MapKey,
			"ruleHash":    report.RuleHash,
			"rules":       report.Rules,
			"passed":      report.Passed,
			"starts":      report.Starts,
			"moveBudget":  report.MoveBudget,
			"worstMoves":  report.WorstMoves,
			"totalMoves":  report.TotalMoves,
			"failedStart": report.FailedStart,
			"failure":     report.Failure,
		},
		"$setOnInsert": bson.M{
			"createdAt": report.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByID retrieves a report by its ID.
// Returns ErrReportNotFound if there is no such report.
func (r *MongoReportRepo) ByID(ctx context.Context, id uuid.UUID) (*dmn.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": id}
	var report dmn.Report
	if err := r.collection.FindOne(ctx, filter).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrReportNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	report.CreatedAt = report.CreatedAt.UTC()
	return &report, nil
}

// Close is a no-op; the client is owned by the caller.
func (r *MongoReportRepo) Close() error {
	return nil
}
