package mongo

import (
	"context"
	"fmt"

	"job-board-backend/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type companyRepo struct {
	store *Store
}

func NewCompanyRepository(store *Store) domain.CompanyRepository {
	return &companyRepo{store: store}
}

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	_, err := r.store.collection(colCompanies).InsertOne(ctx, company)
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("mongo: create company: %w", err)
	}
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *companyRepo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Company, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID})
}

func (r *companyRepo) findOne(ctx context.Context, filter bson.M) (*domain.Company, error) {
	var company domain.Company
	if err := r.store.collection(colCompanies).FindOne(ctx, filter).Decode(&company); err != nil {
		return nil, noDocuments(err)
	}
	return &company, nil
}

func (r *companyRepo) List(ctx context.Context, filter domain.CompanyFilter, page domain.Page) ([]domain.Company, int64, error) {
	query := bson.M{}
	if !filter.IncludeInactive {
		query["is_active"] = true
	}
	if filter.Industry != "" {
		query["industry"] = contains(filter.Industry)
	}
	if filter.Size != "" {
		query["size"] = filter.Size
	}
	if filter.Search != "" {
		re := contains(filter.Search)
		query["$or"] = bson.A{bson.M{"name": re}, bson.M{"description": re}}
	}

	col := r.store.collection(colCompanies)
	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: count companies: %w", err)
	}

	sort := bson.D{{Key: "verified", Value: -1}, {Key: "created_at", Value: -1}}
	cursor, err := col.Find(ctx, query, findPage(page, sort))
	if err != nil {
		return nil, 0, fmt.Errorf("mongo: list companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []domain.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, 0, fmt.Errorf("mongo: list companies decode: %w", err)
	}
	return companies, total, nil
}

func (r *companyRepo) Update(ctx context.Context, company *domain.Company) error {
	res, err := r.store.collection(colCompanies).ReplaceOne(ctx, bson.M{"_id": company.ID}, company)
	if err != nil {
		return fmt.Errorf("mongo: update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the company, its jobs and their applications
func (r *companyRepo) Delete(ctx context.Context, id string) error {
	return r.store.withTx(ctx, func(ctx context.Context) error {
		res, err := r.store.collection(colCompanies).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("mongo: delete company: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		jobIDs, err := distinctIDs(ctx, r.store.collection(colJobs), bson.M{"company_id": id})
		if err != nil {
			return err
		}
		return deleteJobs(ctx, r.store, jobIDs)
	})
}
