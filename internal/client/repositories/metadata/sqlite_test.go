package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/afteryou/internal/client/storage"
	"github.com/dmitrijs2005/afteryou/internal/common"
	"github.com/dmitrijs2005/afteryou/internal/dbx"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, common.AccessTokenKey, "abc.def.ghi"))

	v, err := r.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", v)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.Empty(t, v)
}

func TestSet_Upsert(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "old"))
	require.NoError(t, r.Set(ctx, "k", "new"))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestDelete_ManyKeys_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", "1"))
	require.NoError(t, r.Set(ctx, "b", "2"))
	require.NoError(t, r.Set(ctx, "c", "3"))

	require.NoError(t, r.Delete(ctx, "a", "b", "missing"))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx))

	for _, k := range []string{"a", "b"} {
		_, err := r.Get(ctx, k)
		require.ErrorIs(t, err, common.ErrorNotFound, k)
	}
	v, err := r.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestSet_InsideRolledBackTx(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, NewSQLiteRepository(tx).Set(ctx, "k", "v"))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = NewSQLiteRepository(db).Get(ctx, "k")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestErrorsWrapped_OnClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	require.ErrorContains(t, r.Set(ctx, "k", "v"), "failed to set metadata[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata")
}
