// Package service defines the contracts between the storage layer and its
// consumers (pipeline, HTTP surface, CLI).
package service

import (
	"context"

	"github.com/rfcarvalho/gastos/internal/model"
)

// RangeFilter defines pagination options for ranged expense queries.
type RangeFilter struct {
	Order  string // "ASC" or "DESC", defaults to DESC
	Limit  int
	Offset int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Expense operations.
	InsertExpense(ctx context.Context, expense *model.Expense) (int64, error)
	UpdateExpenseFields(ctx context.Context, id int64, changes map[string]string) (int64, error)
	GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error)
	GetExpensesByIDRange(ctx context.Context, startID, endID int64, filter RangeFilter) ([]model.Expense, error)
	GetAllExpenses(ctx context.Context) ([]model.Expense, error)
	GetExpensesNeedingReview(ctx context.Context, limit int) ([]model.Expense, error)

	// Category dictionary operations.
	GetCategoryRules(ctx context.Context) ([]model.CategoryRule, error)
	UpsertCategoryRule(ctx context.Context, keyword, category string) (bool, error)
	AddCategoryRule(ctx context.Context, keyword, category string) error
	UpdateCategoryRule(ctx context.Context, id int64, keyword, category string) error
	DeleteCategoryRule(ctx context.Context, id int64) error
	DeleteCategoryGroup(ctx context.Context, category string, reclassify bool) (int64, error)

	// Reconciliation operations.
	ResyncExpenses(ctx context.Context) (int64, error)
	RecategorizeAll(ctx context.Context) (int64, error)
	HarmonizeCategories(ctx context.Context) (added int64, skipped int64, err error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// RuleStore is the narrow dictionary view the classifier needs.
type RuleStore interface {
	GetCategoryRules(ctx context.Context) ([]model.CategoryRule, error)
	UpsertCategoryRule(ctx context.Context, keyword, category string) (bool, error)
}
