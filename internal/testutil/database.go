// Package testutil provides shared test helpers for database-backed tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/storage"
)

// SetupTestStore creates a migrated SQLite store in a per-test temp
// directory and registers cleanup.
func SetupTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, store.Migrate(context.Background()), "failed to run migrations")

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SeedRules inserts dictionary rows in the given order. Order matters:
// first-match classification depends on it.
func SeedRules(t *testing.T, store *storage.SQLiteStorage, rules []model.CategoryRule) {
	t.Helper()
	ctx := context.Background()
	for _, rule := range rules {
		_, err := store.UpsertCategoryRule(ctx, rule.Keyword, rule.Category)
		require.NoError(t, err, "failed to seed rule %q", rule.Keyword)
	}
}

// SeedExpense inserts one expense and returns its id.
func SeedExpense(t *testing.T, store *storage.SQLiteStorage, expense model.Expense) int64 {
	t.Helper()
	id, err := store.InsertExpense(context.Background(), &expense)
	require.NoError(t, err, "failed to seed expense")
	return id
}
