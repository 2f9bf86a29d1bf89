package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Bolt(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{StoreDriver: DriverBolt, BoltPath: filepath.Join(t.TempDir(), "open.db")}

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))

	users, err := store.Users().ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	CloseStore(ctx, store)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &Config{StoreDriver: "sqlite"})
	assert.Error(t, err)
}
