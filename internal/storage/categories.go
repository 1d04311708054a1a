package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rfcarvalho/gastos/internal/common"
	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/text"
)

// GetCategoryRules returns every dictionary row in stored (id) order.
// Insertion order is part of the classification contract: the first matching
// keyword wins, so iteration order must be stable.
func (s *SQLiteStorage) GetCategoryRules(ctx context.Context) ([]model.CategoryRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, palavra_chave, categoria FROM Categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category rules: %w", err)
	}
	defer rows.Close()

	var rules []model.CategoryRule
	for rows.Next() {
		var rule model.CategoryRule
		if err := rows.Scan(&rule.ID, &rule.Keyword, &rule.Category); err != nil {
			return nil, fmt.Errorf("failed to scan category rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rules: %w", err)
	}

	slog.Debug("retrieved category rules", "count", len(rules))
	return rules, nil
}

// UpsertCategoryRule inserts a keyword→category mapping with
// conflict-tolerant semantics: when the keyword already exists the existing
// row is kept silently and created is false. Keywords are normalized to
// lowercase on write; the caller decides the label's casing.
func (s *SQLiteStorage) UpsertCategoryRule(ctx context.Context, keyword, category string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(keyword, "keyword"); err != nil {
		return false, err
	}
	if err := validateString(category, "category"); err != nil {
		return false, err
	}

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO Categories (palavra_chave, categoria) VALUES (?, ?)`,
		keyword, strings.TrimSpace(category))
	if err != nil {
		return false, fmt.Errorf("failed to upsert category rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// AddCategoryRule is the operator-facing creation path. Unlike the
// classifier's upsert it validates its input: reserved category labels are
// refused and both keyword and label need at least four useful characters.
// The label is stored title-cased.
func (s *SQLiteStorage) AddCategoryRule(ctx context.Context, keyword, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	keyword = strings.TrimSpace(keyword)
	category = strings.TrimSpace(category)

	// The label is stored title-cased, so the reserved check must cover the
	// stored form too or "outros" would slip past as "Outros".
	if model.IsBlockedCategory(category) || model.IsBlockedCategory(text.Title(category)) {
		return fmt.Errorf("%w: %s", common.ErrBlockedCategory, category)
	}
	if text.UsefulLength(keyword) < text.MinUsefulLength {
		return fmt.Errorf("%w: %q", common.ErrKeywordTooShort, keyword)
	}
	if text.UsefulLength(category) < text.MinUsefulLength {
		return fmt.Errorf("%w: %q", common.ErrKeywordTooShort, category)
	}

	if _, err := s.UpsertCategoryRule(ctx, keyword, text.Title(category)); err != nil {
		return err
	}
	return nil
}

// UpdateCategoryRule rewrites one dictionary row, as used by the table
// editor on the administrative surface.
func (s *SQLiteStorage) UpdateCategoryRule(ctx context.Context, id int64, keyword, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(keyword, "keyword"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE Categories SET palavra_chave = ?, categoria = ? WHERE id = ?`,
		strings.ToLower(strings.TrimSpace(keyword)), strings.TrimSpace(category), id)
	if err != nil {
		return fmt.Errorf("failed to update category rule %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category rule %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteCategoryRule removes one dictionary row and, in the same
// transaction, resets every expense holding the deleted row's category label
// to the review sentinel. The cascade keys on the label, not the keyword:
// deleting one of several keywords sharing a category blanks all expenses
// under that category. That breadth is deliberate and documented, not a bug
// to narrow.
func (s *SQLiteStorage) DeleteCategoryRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var category string
	err = tx.QueryRowContext(ctx,
		`SELECT categoria FROM Categories WHERE id = ?`, id).Scan(&category)
	if err == sql.ErrNoRows {
		return fmt.Errorf("category rule %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load category rule %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM Categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category rule %d: %w", id, err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE Expenses SET categoria = ? WHERE categoria = ?`,
		model.CategoryVerify, category)
	if err != nil {
		return fmt.Errorf("failed to reset expenses for category %q: %w", category, err)
	}
	reset, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of category rule %d: %w", id, err)
	}

	slog.Info("deleted category rule",
		"id", id,
		"category", category,
		"expenses_reset", reset)
	return nil
}

// DeleteCategoryGroup removes every dictionary row sharing a category label
// and returns how many were deleted. With reclassify set, expenses holding
// that label are sent to the review sentinel in the same transaction.
func (s *SQLiteStorage) DeleteCategoryGroup(ctx context.Context, category string, reclassify bool) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(category, "category"); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM Categories WHERE categoria = ?`, category)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category group %q: %w", category, err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if reclassify {
		if _, err := tx.ExecContext(ctx,
			`UPDATE Expenses SET categoria = ? WHERE categoria = ?`,
			model.CategoryVerify, category); err != nil {
			return 0, fmt.Errorf("failed to reclassify expenses for %q: %w", category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete of category group %q: %w", category, err)
	}

	slog.Info("deleted category group",
		"category", category,
		"rules_removed", removed,
		"reclassified", reclassify)
	return removed, nil
}
