package mongo

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
)

type userRepo struct {
	store *Store
}

func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepo{store: store}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	_, err := r.store.collection(colUsers).InsertOne(ctx, user)
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("mongo: create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.store.collection(colUsers).FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, noDocuments(err)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Search != "" {
		re := contains(filter.Search)
		query["$or"] = bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
			bson.M{"email": re},
		}
	}

	col := r.store.collection(colUsers)
	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: count users: %w", err)
	}

	cursor, err := col.Find(ctx, query, findPage(page, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("mongo: list users decode: %w", err)
	}
	return users, total, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	res, err := r.store.collection(colUsers).ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("mongo: update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the user with everything they own. Jobs the user applied to
// give back their application counts first.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(ctx context.Context) error {
		res, err := r.store.collection(colUsers).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("mongo: delete user: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrNotFound
		}

		if err := releaseApplicantCounts(ctx, r.store, id); err != nil {
			return err
		}
		if _, err := r.store.collection(colApplications).DeleteMany(ctx, bson.M{"applicant_id": id}); err != nil {
			return fmt.Errorf("mongo: delete user applications: %w", err)
		}

		companyIDs, err := distinctIDs(ctx, r.store.collection(colCompanies), bson.M{"owner_id": id})
		if err != nil {
			return err
		}
		jobIDs, err := distinctIDs(ctx, r.store.collection(colJobs), bson.M{"$or": bson.A{
			bson.M{"posted_by": id},
			bson.M{"company_id": bson.M{"$in": companyIDs}},
		}})
		if err != nil {
			return err
		}
		if err := deleteJobs(ctx, r.store, jobIDs); err != nil {
			return err
		}
		if _, err := r.store.collection(colCompanies).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": companyIDs}}); err != nil {
			return fmt.Errorf("mongo: delete user companies: %w", err)
		}
		return nil
	})
}

// releaseApplicantCounts decrements, never below zero, the counter of every job applicantID applied to
func releaseApplicantCounts(ctx context.Context, store *Store, applicantID string) error {
	cursor, err := store.collection(colApplications).Aggregate(ctx, mongod.Pipeline{
		{{Key: "$match", Value: bson.M{"applicant_id": applicantID}}},
		{{Key: "$group", Value: bson.M{"_id": "$job_id", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return fmt.Errorf("mongo: count user applications: %w", err)
	}
	defer cursor.Close(ctx)

	var perJob []struct {
		JobID string `bson:"_id"`
		N     int64  `bson:"n"`
	}
	if err := cursor.All(ctx, &perJob); err != nil {
		return fmt.Errorf("mongo: count user applications decode: %w", err)
	}

	jobs := store.collection(colJobs)
	for _, j := range perJob {
		update := mongod.Pipeline{
			{{Key: "$set", Value: bson.M{
				"applications_count": bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$applications_count", j.N}}}},
			}}},
		}
		if _, err := jobs.UpdateOne(ctx, bson.M{"_id": j.JobID}, update); err != nil {
			return fmt.Errorf("mongo: release job counter: %w", err)
		}
	}
	return nil
}

// distinctIDs returns the _id of every document matching filter
func distinctIDs(ctx context.Context, col *mongod.Collection, filter bson.M) ([]string, error) {
	var ids []string
	if err := col.Distinct(ctx, "_id", filter).Decode(&ids); err != nil {
		return nil, fmt.Errorf("mongo: distinct %s: %w", col.Name(), err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// deleteJobs removes jobs and their applications
func deleteJobs(ctx context.Context, store *Store, jobIDs []string) error {
	if len(jobIDs) == 0 {
		return nil
	}
	if _, err := store.collection(colApplications).DeleteMany(ctx, bson.M{"job_id": bson.M{"$in": jobIDs}}); err != nil {
		return fmt.Errorf("mongo: delete job applications: %w", err)
	}
	if _, err := store.collection(colJobs).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": jobIDs}}); err != nil {
		return fmt.Errorf("mongo: delete jobs: %w", err)
	}
	return nil
}
