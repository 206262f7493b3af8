package seed

import (
	"context"
	"path/filepath"
	"testing"

	"farm-catalog/internal/auth"
	"farm-catalog/internal/config"
	"farm-catalog/internal/database"
	"farm-catalog/internal/models"
	"farm-catalog/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_Idempotent(t *testing.T) {
	db, err := database.Open(&config.Config{DatabaseURL: filepath.Join(t.TempDir(), "seed.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	st := store.New(db)
	ctx := context.Background()

	require.NoError(t, Run(ctx, st, "admin@farm.test", "first", zap.NewNop()))
	require.NoError(t, Run(ctx, st, "admin@farm.test", "second", zap.NewNop()))

	n, err := st.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	rams, err := st.LatestActive(ctx, models.CategoryRam, 6)
	require.NoError(t, err)
	assert.Len(t, rams, 2)

	admin, err := st.UserByEmail(ctx, "admin@farm.test")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "second"))
}

func TestRun_RequiresCredentials(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background(), nil, "", "pw", zap.NewNop()), ErrMissingAdmin)
}
