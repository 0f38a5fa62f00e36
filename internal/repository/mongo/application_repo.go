package mongo

import (
	"context"
	"fmt"
	"time"

	"job-board-backend/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type applicationRepo struct {
	store *Store
}

func NewApplicationRepository(store *Store) domain.ApplicationRepository {
	return &applicationRepo{store: store}
}

// Create inserts the application and bumps the job's counter in one transaction
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return r.store.withTx(ctx, func(ctx context.Context) error {
		if _, err := r.store.collection(colApplications).InsertOne(ctx, storedApplication(app)); err != nil {
			if isDuplicateKey(err) {
				return domain.ErrDuplicateApplication
			}
			return fmt.Errorf("mongo: create application: %w", err)
		}
		res, err := r.store.collection(colJobs).UpdateOne(ctx,
			bson.M{"_id": app.JobID},
			bson.M{"$inc": bson.M{"applications_count": 1}},
		)
		if err != nil {
			return fmt.Errorf("mongo: increment applications: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("%w: job %s", domain.ErrNotFound, app.JobID)
		}
		return nil
	})
}

// storedApplication drops the joined fields, which are never persisted
func storedApplication(app *domain.Application) *domain.Application {
	doc := *app
	doc.JobTitle, doc.CompanyName, doc.ApplicantName, doc.ApplicantEmail = "", "", "", ""
	if doc.Notes == nil {
		doc.Notes = []domain.Note{}
	}
	return &doc
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	apps, err := r.aggregate(ctx, bson.M{"_id": id}, domain.Page{})
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, domain.ErrNotFound
	}
	return &apps[0], nil
}

func (r *applicationRepo) List(ctx context.Context, filter domain.ApplicationFilter, page domain.Page) ([]domain.Application, int64, error) {
	query := bson.M{}
	if filter.JobID != "" {
		query["job_id"] = filter.JobID
	}
	if filter.ApplicantID != "" {
		query["applicant_id"] = filter.ApplicantID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.store.collection(colApplications).CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: count applications: %w", err)
	}
	apps, err := r.aggregate(ctx, query, page)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepo) ListByJobID(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.aggregate(ctx, bson.M{"job_id": jobID}, domain.Page{})
}

func (r *applicationRepo) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return r.aggregate(ctx, bson.M{"applicant_id": applicantID}, domain.Page{})
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	n, err := r.store.collection(colApplications).CountDocuments(ctx,
		bson.M{"job_id": jobID, "applicant_id": applicantID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("mongo: application exists: %w", err)
	}
	return n > 0, nil
}

// Transition writes the workflow fields guarded on the status the caller read.
// The cover letter, resume and notes are not touched here.
func (r *applicationRepo) Transition(ctx context.Context, app *domain.Application, from domain.ApplicationStatus) error {
	res, err := r.store.collection(colApplications).UpdateOne(ctx,
		bson.M{"_id": app.ID, "status": from},
		bson.M{"$set": bson.M{
			"status":     app.Status,
			"interview":  app.Interview,
			"updated_at": app.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("mongo: transition application: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.store.missOrStale(ctx, colApplications, app.ID)
	}
	return nil
}

// AppendNote pushes a single note onto the stored array
func (r *applicationRepo) AppendNote(ctx context.Context, id string, note domain.Note, updatedAt time.Time) error {
	res, err := r.store.collection(colApplications).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updated_at": updatedAt},
	})
	if err != nil {
		return fmt.Errorf("mongo: append note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the application and releases the job's counter, never below zero
func (r *applicationRepo) Delete(ctx context.Context, app *domain.Application) error {
	return r.store.withTx(ctx, func(ctx context.Context) error {
		var deleted domain.Application
		err := r.store.collection(colApplications).FindOneAndDelete(ctx, bson.M{"_id": app.ID}).Decode(&deleted)
		if err != nil {
			return noDocuments(err)
		}
		_, err = r.store.collection(colJobs).UpdateOne(ctx,
			bson.M{"_id": deleted.JobID, "applications_count": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"applications_count": -1}},
		)
		if err != nil {
			return fmt.Errorf("mongo: release job counter: %w", err)
		}
		return nil
	})
}

// aggregate lists matching applications newest first with job, company and
// applicant details joined. A zero page returns every match.
func (r *applicationRepo) aggregate(ctx context.Context, match bson.M, page domain.Page) ([]domain.Application, error) {
	pipeline := mongod.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if page.PageSize > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: page.Offset()}},
			bson.D{{Key: "$limit", Value: page.PageSize}},
		)
	}
	pipeline = append(pipeline, applicationJoins()...)

	cursor, err := r.store.collection(colApplications).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo: list applications: %w", err)
	}
	defer cursor.Close(ctx)

	var apps []domain.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("mongo: list applications decode: %w", err)
	}
	for i := range apps {
		if apps[i].Notes == nil {
			apps[i].Notes = []domain.Note{}
		}
	}
	return apps, nil
}

func applicationJoins() mongod.Pipeline {
	first := func(path string) bson.M {
		return bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{path, 0}}, ""}}
	}
	lookup := func(from, localField, as string) bson.D {
		return bson.D{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           as,
		}}}
	}
	return mongod.Pipeline{
		lookup(colJobs, "job_id", "job"),
		lookup(colCompanies, "job.company_id", "company"),
		lookup(colUsers, "applicant_id", "applicant"),
		{{Key: "$addFields", Value: bson.M{
			"job_title":    first("$job.title"),
			"company_name": first("$company.name"),
			"applicant_name": bson.M{"$trim": bson.M{"input": bson.M{"$concat": bson.A{
				first("$applicant.first_name"), " ", first("$applicant.last_name"),
			}}}},
			"applicant_email": first("$applicant.email"),
		}}},
		{{Key: "$project", Value: bson.M{"job": 0, "company": 0, "applicant": 0}}},
	}
}
