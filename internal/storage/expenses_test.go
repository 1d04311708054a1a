package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/service"
)

func TestInsertExpense(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("full record round-trips", func(t *testing.T) {
		id := seedExpense(t, store, "2026-08-01 10:30:00", "Mercado", 123.45, "MERCADO XYZ", "Pessoal")

		got, err := store.GetExpenseByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, id, got.ID)
		require.NotNil(t, got.Date)
		assert.Equal(t, "2026-08-01 10:30:00", *got.Date)
		require.NotNil(t, got.Category)
		assert.Equal(t, "Mercado", *got.Category)
		require.NotNil(t, got.Amount)
		assert.InDelta(t, 123.45, *got.Amount, 0.001)
		assert.Equal(t, "MERCADO XYZ", got.Description)
		assert.Equal(t, "Pessoal", got.User)
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		id, err := store.InsertExpense(ctx, &model.Expense{
			Description: "Nao identificado",
			User:        "Conjunto",
		})
		require.NoError(t, err)

		got, err := store.GetExpenseByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.Date)
		assert.Nil(t, got.Category)
		assert.Nil(t, got.Amount)
	})

	t.Run("nil expense is rejected", func(t *testing.T) {
		_, err := store.InsertExpense(ctx, nil)
		require.ErrorIs(t, err, ErrNilExpense)
	})
}

func TestGetExpenseByID(t *testing.T) {
	store := createTestStorage(t)

	got, err := store.GetExpenseByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateExpenseFields(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	id := seedExpense(t, store, "2026-08-01", model.CategoryVerify, 10.00, "LOJA A", "Pessoal")

	t.Run("updates editable fields", func(t *testing.T) {
		affected, err := store.UpdateExpenseFields(ctx, id, map[string]string{
			"descricao": "Loja A Centro",
			"categoria": "Vestuario",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		got, err := store.GetExpenseByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Loja A Centro", got.Description)
		require.NotNil(t, got.Category)
		assert.Equal(t, "Vestuario", *got.Category)
	})

	t.Run("reserved labels are valid manual overrides", func(t *testing.T) {
		affected, err := store.UpdateExpenseFields(ctx, id, map[string]string{"categoria": "Outros"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("rejects non-editable fields", func(t *testing.T) {
		_, err := store.UpdateExpenseFields(ctx, id, map[string]string{"valor": "999"})
		require.ErrorIs(t, err, ErrFieldNotEditable)

		_, err = store.UpdateExpenseFields(ctx, id, map[string]string{"usuario": "Outro"})
		require.ErrorIs(t, err, ErrFieldNotEditable)
	})

	t.Run("unknown id affects zero rows", func(t *testing.T) {
		affected, err := store.UpdateExpenseFields(ctx, 999, map[string]string{"categoria": "Mercado"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})

	t.Run("empty change set is a no-op", func(t *testing.T) {
		affected, err := store.UpdateExpenseFields(ctx, id, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})
}

func TestGetExpensesByIDRange(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seedExpense(t, store, "2026-08-01", "Mercado", float64(i), "LOJA", "Pessoal")
	}

	t.Run("ascending", func(t *testing.T) {
		got, err := store.GetExpensesByIDRange(ctx, 2, 4, service.RangeFilter{Order: "ASC"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, int64(4), got[2].ID)
	})

	t.Run("default order is descending", func(t *testing.T) {
		got, err := store.GetExpensesByIDRange(ctx, 2, 4, service.RangeFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, int64(4), got[0].ID)
		assert.Equal(t, int64(2), got[2].ID)
	})

	t.Run("limit and offset paginate", func(t *testing.T) {
		got, err := store.GetExpensesByIDRange(ctx, 1, 5, service.RangeFilter{Order: "ASC", Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		_, err := store.GetExpensesByIDRange(ctx, 4, 2, service.RangeFilter{})
		require.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("bad order is rejected", func(t *testing.T) {
		_, err := store.GetExpensesByIDRange(ctx, 1, 5, service.RangeFilter{Order: "SIDEWAYS"})
		require.ErrorIs(t, err, ErrInvalidOrder)
	})
}

func TestGetExpensesNeedingReview(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	seedExpense(t, store, "2026-08-01 09:00:00", model.CategoryVerify, 10, "LOJA A", "Pessoal")
	seedExpense(t, store, "2026-08-03 09:00:00", model.CategoryVerify, 20, "LOJA B", "Pessoal")
	seedExpense(t, store, "2026-08-02 09:00:00", "Mercado", 30, "MERCADO", "Pessoal")

	got, err := store.GetExpensesNeedingReview(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, "LOJA B", got[0].Description)
	assert.Equal(t, "LOJA A", got[1].Description)

	got, err = store.GetExpensesNeedingReview(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LOJA B", got[0].Description)
}

func TestGetAllExpenses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	got, err := store.GetAllExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	seedExpense(t, store, "2026-08-02", "Mercado", 10, "B", "Pessoal")
	seedExpense(t, store, "2026-08-01", "Mercado", 20, "A", "Pessoal")

	got, err = store.GetAllExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Stored order, not date order.
	assert.Equal(t, "B", got[0].Description)
	assert.Equal(t, "A", got[1].Description)
}
