package mongo

import (
	"context"
	"os"
	"testing"

	"job-board-backend/internal/repository/storetest"
	"job-board-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// openTestStore creates a throwaway database on MONGO_URL, skipping when unset.
// The server must run as a replica set since counters move inside transactions.
func openTestStore(t *testing.T) storetest.Repos {
	t.Helper()
	url := os.Getenv("MONGO_URL")
	if url == "" {
		t.Skip("MONGO_URL not set")
	}

	ctx := context.Background()
	client, db, err := database.NewMongoConnection(ctx, url, "jobboard_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	store := New(client, db)
	require.NoError(t, store.Migrate(ctx))

	return storetest.Repos{
		Users:        NewUserRepository(store),
		Companies:    NewCompanyRepository(store),
		Jobs:         NewJobRepository(store),
		Applications: NewApplicationRepository(store),
	}
}

func TestApplicationCounterInvariant(t *testing.T) {
	storetest.RunApplicationCounter(t, openTestStore(t))
}

func TestGuardedWrites(t *testing.T) {
	storetest.RunGuardedWrites(t, openTestStore(t))
}
