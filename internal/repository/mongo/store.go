package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"job-board-backend/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection name constants.
const (
	colUsers        = "users"
	colCompanies    = "companies"
	colJobs         = "jobs"
	colApplications = "applications"
)

var _ domain.HealthChecker = (*Store)(nil)

// Store holds the client and database shared by the repositories.
// The caller owns the client lifecycle.
type Store struct {
	client *mongod.Client
	db     *mongod.Database
}

func New(client *mongod.Client, db *mongod.Database) *Store {
	return &Store{client: client, db: db}
}

// Migrate creates the indexes every collection relies on, including the
// uniqueness constraints behind ErrConflict and ErrDuplicateApplication.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) collection(name string) *mongod.Collection {
	return s.db.Collection(name)
}

// withTx runs fn inside a multi-document transaction
func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo: start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongod.ErrNoDocuments)
}

func isDuplicateKey(err error) bool {
	return mongod.IsDuplicateKeyError(err)
}

// noDocuments maps a missing document to domain.ErrNotFound
func noDocuments(err error) error {
	if isNoDocuments(err) {
		return domain.ErrNotFound
	}
	return err
}

// missOrStale explains a guarded update that matched nothing: the document is
// either gone or no longer in the state the caller read.
func (s *Store) missOrStale(ctx context.Context, col, id string) error {
	n, err := s.collection(col).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("mongo: recheck %s: %w", col, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrStaleWrite
}

// contains matches s anywhere in a field, case-insensitively
func contains(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func findPage(page domain.Page, sort bson.D) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(sort).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.PageSize))
}

// groupCount calls fn with the number of documents per distinct value of field
func groupCount(ctx context.Context, col *mongod.Collection, field string, fn func(key string, n int64)) error {
	cursor, err := col.Aggregate(ctx, mongod.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Key string `bson:"_id"`
		N   int64  `bson:"n"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return err
	}
	for _, g := range groups {
		fn(g.Key, g.N)
	}
	return nil
}

func migrationIndexes() map[string][]mongod.IndexModel {
	return map[string][]mongod.IndexModel{
		colUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		colCompanies: {
			// One company per owner.
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "verified", Value: -1}, {Key: "created_at", Value: -1}}},
		},
		colJobs: {
			{Keys: bson.D{{Key: "posted_by", Value: 1}}},
			{Keys: bson.D{{Key: "company_id", Value: 1}}},
			{Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "approval_status", Value: 1},
				{Key: "featured", Value: -1},
				{Key: "created_at", Value: -1},
			}},
		},
		colApplications: {
			// One application per (job, applicant).
			{
				Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "applicant_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "applicant_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}
}
