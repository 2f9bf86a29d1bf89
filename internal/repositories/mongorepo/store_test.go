package mongorepo

import (
	"context"
	"os"
	"testing"

	"github.com/anonto42/socialfeed/backend/internal/repositories/storetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Runs against the replica set named by MONGO_URI in a throwaway database,
// e.g. mongodb://localhost:27017/?replicaSet=rs0
func TestStore_Conformance(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	store, err := Connect(ctx, uri, "socialfeed_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.db.Drop(ctx)
		store.Close(ctx)
	})

	storetest.Run(t, store)
}
