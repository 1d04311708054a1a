package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/notify"
	"github.com/rfcarvalho/gastos/internal/storage"
	"github.com/rfcarvalho/gastos/internal/testutil"
)

func newTestProcessor(t *testing.T) (*Processor, *storage.SQLiteStorage) {
	t.Helper()
	store := testutil.SetupTestStore(t)
	return New(store, notify.NewUserResolver(nil)), store
}

func TestProcessRecordsPurchase(t *testing.T) {
	p, store := newTestProcessor(t)
	ctx := context.Background()

	outcome, err := p.Process(ctx, model.Notification{
		Title:     "Compra aprovada",
		Message:   "Compra aprovada de R$ 1.234,56 em MERCADO XYZ para João",
		SourceApp: "com.c6bank.app",
		SentAt:    "2026-08-29 10:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRecorded, outcome.Status)
	require.NotZero(t, outcome.ExpenseID)

	got, err := store.GetExpenseByID(ctx, outcome.ExpenseID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "MERCADO XYZ", got.Description)
	assert.Equal(t, "Conjunto", got.User)
	require.NotNil(t, got.Amount)
	assert.InDelta(t, 1234.56, *got.Amount, 0.001)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2026-08-29 10:00:00", *got.Date)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Mercado Xyz", *got.Category)
}

func TestProcessIgnoresNonPurchase(t *testing.T) {
	p, store := newTestProcessor(t)
	ctx := context.Background()

	outcome, err := p.Process(ctx, model.Notification{
		Title:   "Fatura fechada",
		Message: "Sua fatura fechou em R$ 900,00",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusIgnored, outcome.Status)
	assert.Equal(t, notify.ReasonNotPurchase, outcome.Reason)

	expenses, err := store.GetAllExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestProcessIgnoresDeclined(t *testing.T) {
	p, _ := newTestProcessor(t)

	outcome, err := p.Process(context.Background(), model.Notification{
		Title:   "Compra Recusada",
		Message: "Compra de R$ 50,00 em LOJA recusada",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusIgnored, outcome.Status)
	assert.Equal(t, notify.ReasonDeclined, outcome.Reason)
}

func TestProcessKeepsPartialExtraction(t *testing.T) {
	p, store := newTestProcessor(t)
	ctx := context.Background()

	// No amount, no merchant: the record is still inserted with whatever
	// could be recovered.
	outcome, err := p.Process(ctx, model.Notification{
		Title:     "Compra aprovada",
		Message:   "Compra aprovada no cartao final 1234",
		SourceApp: "com.nu.production",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRecorded, outcome.Status)

	got, err := store.GetExpenseByID(ctx, outcome.ExpenseID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Amount)
	assert.Nil(t, got.Date)
	assert.Equal(t, model.DescriptionUnknown, got.Description)
	assert.Equal(t, "Pessoal", got.User)

	// The sentinel is long enough to pass the classifier, so it mints a
	// dictionary entry like any other unmatched description.
	require.NotNil(t, got.Category)
	assert.Equal(t, "Nao Identificado", *got.Category)
}

func TestProcessUsesDictionaryMatch(t *testing.T) {
	p, store := newTestProcessor(t)
	ctx := context.Background()

	created, err := store.UpsertCategoryRule(ctx, "padaria", "Alimentação")
	require.NoError(t, err)
	require.True(t, created)

	outcome, err := p.Process(ctx, model.Notification{
		Title:     "Compra aprovada",
		Message:   "Compra aprovada de R$ 8,50 em PADARIA DO ZÉ",
		SourceApp: "com.nu.production",
	})
	require.NoError(t, err)

	got, err := store.GetExpenseByID(ctx, outcome.ExpenseID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Alimentação", *got.Category)

	// The matched description must not mint a second rule.
	rules, err := store.GetCategoryRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}
