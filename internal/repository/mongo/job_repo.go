package mongo

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
)

type jobRepo struct {
	store *Store
}

func NewJobRepository(store *Store) domain.JobRepository {
	return &jobRepo{store: store}
}

// Create inserts the job with zeroed counters
func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	doc := *job
	doc.ApplicationsCount = 0
	doc.ViewsCount = 0
	if _, err := r.store.collection(colJobs).InsertOne(ctx, &doc); err != nil {
		return fmt.Errorf("mongo: create job: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.store.collection(colJobs).FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		return nil, noDocuments(err)
	}
	return &job, nil
}

func (r *jobRepo) GetByIDWithCompany(ctx context.Context, id string) (*domain.JobWithCompany, error) {
	pipeline := append(mongod.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}, withCompany()...)
	jobs, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &jobs[0], nil
}

func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter, page domain.Page) ([]domain.JobWithCompany, int64, error) {
	pipeline := append(withCompany(), bson.D{{Key: "$match", Value: jobQuery(filter)}})
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"data": bson.A{
			bson.M{"$sort": bson.D{{Key: "featured", Value: -1}, {Key: "created_at", Value: -1}}},
			bson.M{"$skip": page.Offset()},
			bson.M{"$limit": page.PageSize},
		},
		"total": bson.A{bson.M{"$count": "n"}},
	}}})

	cursor, err := r.store.collection(colJobs).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Data  []domain.JobWithCompany `bson:"data"`
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("mongo: list jobs decode: %w", err)
	}
	if len(result) == 0 || len(result[0].Total) == 0 {
		return nil, 0, nil
	}
	return result[0].Data, result[0].Total[0].N, nil
}

// jobQuery mirrors the listing filters, matching the joined company name on search
func jobQuery(filter domain.JobFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ApprovalStatus != "" {
		query["approval_status"] = filter.ApprovalStatus
	}
	if filter.PostedBy != "" {
		query["posted_by"] = filter.PostedBy
	}
	if filter.JobType != "" {
		query["job_type"] = filter.JobType
	}
	if filter.ExperienceLevel != "" {
		query["experience_level"] = filter.ExperienceLevel
	}
	if filter.SalaryMin > 0 {
		query["salary.min"] = bson.M{"$gte": filter.SalaryMin}
	}
	if filter.SalaryMax > 0 {
		query["salary.max"] = bson.M{"$lte": filter.SalaryMax}
	}
	if filter.Featured {
		query["featured"] = true
	}
	if filter.Remote {
		query["locations.remote"] = true
	}

	var and bson.A
	if filter.Location != "" {
		re := contains(filter.Location)
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"locations.city": re},
			bson.M{"locations.state": re},
			bson.M{"locations.country": re},
		}})
	}
	if filter.Search != "" {
		re := contains(filter.Search)
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"company_name": re},
			bson.M{"skills": re},
		}})
	}
	if len(and) > 0 {
		query["$and"] = and
	}
	return query
}

// withCompany joins the posting company's public fields onto each job
func withCompany() mongod.Pipeline {
	return mongod.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         colCompanies,
			"localField":   "company_id",
			"foreignField": "_id",
			"as":           "company",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"company_name":     bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$company.name", 0}}, ""}},
			"company_industry": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$company.industry", 0}}, ""}},
			"company_verified": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$company.verified", 0}}, false}},
		}}},
		{{Key: "$project", Value: bson.M{"company": 0}}},
	}
}

func (r *jobRepo) aggregate(ctx context.Context, pipeline mongod.Pipeline) ([]domain.JobWithCompany, error) {
	cursor, err := r.store.collection(colJobs).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo: aggregate jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []domain.JobWithCompany
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("mongo: aggregate jobs decode: %w", err)
	}
	return jobs, nil
}

// Update writes the editable fields guarded on the approval status the caller read.
// Counters are owned by their atomic increments.
func (r *jobRepo) Update(ctx context.Context, job *domain.Job, from domain.ApprovalStatus) error {
	guard := bson.M{"_id": job.ID, "approval_status": from}
	res, err := r.store.collection(colJobs).UpdateOne(ctx, guard, bson.M{"$set": bson.M{
		"title":                job.Title,
		"description":          job.Description,
		"requirements":         job.Requirements,
		"locations":            job.Locations,
		"salary":               job.Salary,
		"job_type":             job.JobType,
		"experience_level":     job.ExperienceLevel,
		"skills":               job.Skills,
		"benefits":             job.Benefits,
		"application_deadline": job.ApplicationDeadline,
		"status":               job.Status,
		"approval_status":      job.ApprovalStatus,
		"approved_at":          job.ApprovedAt,
		"rejection_reason":     job.RejectionReason,
		"featured":             job.Featured,
		"updated_at":           job.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("mongo: update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.store.missOrStale(ctx, colJobs, job.ID)
	}
	return nil
}

// Delete removes the job and its applications
func (r *jobRepo) Delete(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(ctx context.Context) error {
		res, err := r.store.collection(colJobs).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("mongo: delete job: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		if _, err := r.store.collection(colApplications).DeleteMany(ctx, bson.M{"job_id": id}); err != nil {
			return fmt.Errorf("mongo: delete job applications: %w", err)
		}
		return nil
	})
}

func (r *jobRepo) IncrementViews(ctx context.Context, id string) error {
	res, err := r.store.collection(colJobs).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views_count": 1}},
	)
	if err != nil {
		return fmt.Errorf("mongo: increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
