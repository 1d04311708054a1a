package categorize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfcarvalho/gastos/internal/model"
)

// fakeRuleStore is an in-memory dictionary with the same ordering and
// conflict semantics as the SQLite store.
type fakeRuleStore struct {
	upsertErr error
	rules     []model.CategoryRule
	nextID    int64
}

func newFakeRuleStore(rules ...model.CategoryRule) *fakeRuleStore {
	s := &fakeRuleStore{nextID: 1}
	for _, r := range rules {
		r.ID = s.nextID
		s.nextID++
		s.rules = append(s.rules, r)
	}
	return s
}

func (s *fakeRuleStore) GetCategoryRules(_ context.Context) ([]model.CategoryRule, error) {
	out := make([]model.CategoryRule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func (s *fakeRuleStore) UpsertCategoryRule(_ context.Context, keyword, category string) (bool, error) {
	if s.upsertErr != nil {
		return false, s.upsertErr
	}
	for _, r := range s.rules {
		if r.Keyword == keyword {
			return false, nil
		}
	}
	s.rules = append(s.rules, model.CategoryRule{ID: s.nextID, Keyword: keyword, Category: category})
	s.nextID++
	return true, nil
}

func TestClassifyShortDescription(t *testing.T) {
	store := newFakeRuleStore()
	c := New(store)

	for _, desc := range []string{"", "A B", "***", "ab"} {
		got, err := c.Classify(context.Background(), desc)
		require.NoError(t, err)
		assert.Equal(t, model.CategoryVerify, got, "description %q", desc)
	}

	// The gate never touches the dictionary.
	assert.Empty(t, store.rules)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	store := newFakeRuleStore(
		model.CategoryRule{Keyword: "merc", Category: "Mercado"},
		model.CategoryRule{Keyword: "mercado xyz", Category: "Loja Especial"},
	)
	c := New(store)

	got, err := c.Classify(context.Background(), "MERCADO XYZ LOJA")
	require.NoError(t, err)
	assert.Equal(t, "Mercado", got)
}

func TestClassifyMatchIsAccentInsensitive(t *testing.T) {
	store := newFakeRuleStore(
		model.CategoryRule{Keyword: "açougue", Category: "Alimentação"},
	)
	c := New(store)

	got, err := c.Classify(context.Background(), "ACOUGUE DO ZE")
	require.NoError(t, err)
	assert.Equal(t, "Alimentação", got)
}

func TestClassifyMintsNewRule(t *testing.T) {
	store := newFakeRuleStore()
	c := New(store)

	got, err := c.Classify(context.Background(), "NETFLIX COM")
	require.NoError(t, err)
	assert.Equal(t, "Netflix Com", got)

	require.Len(t, store.rules, 1)
	assert.Equal(t, "netflix com", store.rules[0].Keyword)
	assert.Equal(t, "Netflix Com", store.rules[0].Category)

	// A second sighting matches the freshly minted rule instead of
	// creating a duplicate.
	got, err = c.Classify(context.Background(), "NETFLIX COM")
	require.NoError(t, err)
	assert.Equal(t, "Netflix Com", got)
	assert.Len(t, store.rules, 1)
}

func TestClassifyBlockedLabelNotMinted(t *testing.T) {
	store := newFakeRuleStore()
	c := New(store)

	got, err := c.Classify(context.Background(), "outros")
	require.NoError(t, err)
	assert.Equal(t, "Outros", got)
	assert.Empty(t, store.rules)
}

func TestClassifyUpsertFailureStillLabels(t *testing.T) {
	store := newFakeRuleStore()
	store.upsertErr = errors.New("database is locked")
	c := New(store)

	got, err := c.Classify(context.Background(), "PADARIA SUL")
	require.NoError(t, err)
	assert.Equal(t, "Padaria Sul", got)
}
