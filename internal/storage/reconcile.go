package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/text"
)

// Reconciliation operations narrow the tolerated drift between
// Expenses.categoria and the Categories dictionary. They run as one
// scan-and-update pass: each row-level statement is atomic but the pass as a
// whole is not, so a crash mid-scan leaves a partially-applied update. That
// is a documented limitation, and callers should treat the three operations
// as mutually exclusive to avoid interleaved drift.
//
// Both resync and recategorize compare accent-normalized lowercase text.
// The descriptions-vs-dictionary comparison is the same classification
// decision everywhere; keeping two comparison semantics was an inconsistency
// in the system this replaces.

// usableRules returns dictionary rows eligible for reconciliation: reserved
// labels and keywords below the useful-length floor are skipped.
func usableRules(rules []model.CategoryRule) []model.CategoryRule {
	usable := make([]model.CategoryRule, 0, len(rules))
	for _, rule := range rules {
		if model.IsBlockedCategory(rule.Category) {
			continue
		}
		if text.UsefulLength(rule.Keyword) < text.MinUsefulLength {
			continue
		}
		usable = append(usable, rule)
	}
	return usable
}

// expenseRow is the slim projection the reconciliation scans work over.
type expenseRow struct {
	category    *string
	description string
	id          int64
}

func (s *SQLiteStorage) loadExpenseRows(ctx context.Context) ([]expenseRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, descricao, categoria FROM Expenses`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var result []expenseRow
	for rows.Next() {
		var (
			row      expenseRow
			desc     *string
			category *string
		)
		if err := rows.Scan(&row.id, &desc, &category); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if desc != nil {
			row.description = *desc
		}
		row.category = category
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return result, nil
}

// ResyncExpenses stamps each keyword's category onto every expense whose
// description contains that keyword. Keywords are applied in dictionary
// order and later keywords overwrite earlier ones, so the last applied wins. The
// returned count sums per-keyword matches, so a row touched by several
// keywords is counted once per keyword, matching the aggregate the
// administrative surface has always displayed.
func (s *SQLiteStorage) ResyncExpenses(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	rules, err := s.GetCategoryRules(ctx)
	if err != nil {
		return 0, err
	}
	rules = usableRules(rules)

	expenses, err := s.loadExpenseRows(ctx)
	if err != nil {
		return 0, err
	}

	normalized := make([]string, len(expenses))
	for i, expense := range expenses {
		normalized[i] = text.Normalize(expense.description)
	}

	var updated int64
	for _, rule := range rules {
		keyword := text.Normalize(rule.Keyword)
		for i, expense := range expenses {
			if !strings.Contains(normalized[i], keyword) {
				continue
			}
			if _, err := s.db.ExecContext(ctx,
				`UPDATE Expenses SET categoria = ? WHERE id = ?`,
				rule.Category, expense.id); err != nil {
				return updated, fmt.Errorf("failed to resync expense %d: %w", expense.id, err)
			}
			updated++
		}
	}

	slog.Info("resynced expenses from dictionary",
		"rules", len(rules),
		"updates", updated)
	return updated, nil
}

// RecategorizeAll recomputes each expense's category with the classifier's
// first-match policy and writes only actual changes. Running it twice with
// no intervening dictionary change is a no-op the second time.
func (s *SQLiteStorage) RecategorizeAll(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	rules, err := s.GetCategoryRules(ctx)
	if err != nil {
		return 0, err
	}
	rules = usableRules(rules)

	expenses, err := s.loadExpenseRows(ctx)
	if err != nil {
		return 0, err
	}

	var changed int64
	for _, expense := range expenses {
		descNorm := text.Normalize(expense.description)

		var newCategory string
		for _, rule := range rules {
			if strings.Contains(descNorm, text.Normalize(rule.Keyword)) {
				newCategory = rule.Category
				break
			}
		}
		if newCategory == "" {
			continue
		}
		if expense.category != nil && *expense.category == newCategory {
			continue
		}

		if _, err := s.db.ExecContext(ctx,
			`UPDATE Expenses SET categoria = ? WHERE id = ?`,
			newCategory, expense.id); err != nil {
			return changed, fmt.Errorf("failed to recategorize expense %d: %w", expense.id, err)
		}
		changed++
	}

	slog.Info("recategorized expenses", "changed", changed)
	return changed, nil
}

// HarmonizeCategories creates a dictionary entry for every category label
// that appears in Expenses with no Categories row backing it, skipping
// reserved labels and labels below the useful-length floor. Returns how many
// entries were added and how many candidates were skipped.
func (s *SQLiteStorage) HarmonizeCategories(ctx context.Context) (int64, int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT g.categoria
		  FROM Expenses g
		  LEFT JOIN Categories c ON c.categoria = g.categoria
		 WHERE c.categoria IS NULL
		   AND g.categoria IS NOT NULL`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query orphan categories: %w", err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return 0, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		missing = append(missing, category)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("error iterating categories: %w", err)
	}

	var added, skipped int64
	for _, category := range missing {
		category = strings.TrimSpace(category)
		// Check the title-cased form too: the entry is stored title-cased,
		// and an orphan label like "outros" must not become "Outros".
		if model.IsBlockedCategory(category) ||
			model.IsBlockedCategory(text.Title(category)) ||
			text.UsefulLength(category) < text.MinUsefulLength {
			skipped++
			continue
		}

		created, err := s.UpsertCategoryRule(ctx, strings.ToLower(category), text.Title(category))
		if err != nil {
			return added, skipped, fmt.Errorf("failed to harmonize category %q: %w", category, err)
		}
		if created {
			added++
		}
	}

	slog.Info("harmonized categories", "added", added, "skipped", skipped)
	return added, skipped, nil
}
