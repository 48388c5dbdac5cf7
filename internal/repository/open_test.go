package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"propertyhub/internal/config"
	"propertyhub/internal/model"
)

func TestOpen_SQLiteResetDropsData(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")}

	store, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	u, err := model.NewUser("A", "a@x.com", "1", "hash")
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, u))
	require.NoError(t, store.Close(ctx))

	cfg.ResetDB = true
	store, err = Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close(ctx)
	_, err = store.Users.FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "cassandra"}, zap.NewNop())
	assert.Error(t, err)
}
