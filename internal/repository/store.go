package repository

import (
	"context"
	"fmt"

	"job-board-backend/config"
	"job-board-backend/internal/domain"
	mongostore "job-board-backend/internal/repository/mongo"
	"job-board-backend/internal/repository/postgres"
	"job-board-backend/pkg/database"
	"job-board-backend/pkg/logger"
)

// Set is the entity store behind the usecases
type Set struct {
	Users        domain.UserRepository
	Companies    domain.CompanyRepository
	Jobs         domain.JobRepository
	Applications domain.ApplicationRepository
	Admin        domain.AdminRepository
	Health       domain.HealthChecker
	Close        func()
}

// Open connects the configured driver and applies its schema
func Open(ctx context.Context, cfg *config.Config) (*Set, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Set{
			Users:        postgres.NewUserRepository(pool),
			Companies:    postgres.NewCompanyRepository(pool),
			Jobs:         postgres.NewJobRepository(pool),
			Applications: postgres.NewApplicationRepository(pool),
			Admin:        postgres.NewAdminRepository(pool),
			Health:       pool,
			Close:        pool.Close,
		}, nil

	case config.StoreDriverMongo:
		client, db, err := database.NewMongoConnection(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client, db)
		if err := store.Migrate(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Set{
			Users:        mongostore.NewUserRepository(store),
			Companies:    mongostore.NewCompanyRepository(store),
			Jobs:         mongostore.NewJobRepository(store),
			Applications: mongostore.NewApplicationRepository(store),
			Admin:        mongostore.NewAdminRepository(store),
			Health:       store,
			Close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.Log.Warn("MongoDB disconnect failed", "error", err)
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
