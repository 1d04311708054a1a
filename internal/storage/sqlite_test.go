package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rfcarvalho/gastos/internal/model"
)

// createTestStorage opens a migrated store backed by a throwaway database
// file. The file lives in the test's temp dir so parallel tests never share
// state.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedExpense(t *testing.T, store *SQLiteStorage, date, category string, amount float64, description, user string) int64 {
	t.Helper()

	id, err := store.InsertExpense(context.Background(), &model.Expense{
		Date:        &date,
		Category:    &category,
		Amount:      &amount,
		Description: description,
		User:        user,
	})
	require.NoError(t, err)
	return id
}

func seedRule(t *testing.T, store *SQLiteStorage, keyword, category string) {
	t.Helper()

	created, err := store.UpsertCategoryRule(context.Background(), keyword, category)
	require.NoError(t, err)
	require.True(t, created, "keyword %q already seeded", keyword)
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("")
		require.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "gastos.db")
		store, err := NewSQLiteStorage(path)
		require.NoError(t, err)
		require.NoError(t, store.Close())
	})
}
