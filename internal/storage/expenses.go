package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/service"
)

const expenseColumns = "id, data, categoria, valor, descricao, usuario"

// scanExpense reads one expense row. The date, category and amount columns
// are nullable; description and user collapse to the empty string when null
// (legacy rows only).
func scanExpense(row interface{ Scan(...any) error }) (*model.Expense, error) {
	var (
		e        model.Expense
		date     sql.NullString
		category sql.NullString
		amount   sql.NullFloat64
		desc     sql.NullString
		user     sql.NullString
	)
	if err := row.Scan(&e.ID, &date, &category, &amount, &desc, &user); err != nil {
		return nil, err
	}
	if date.Valid {
		e.Date = &date.String
	}
	if category.Valid {
		e.Category = &category.String
	}
	if amount.Valid {
		e.Amount = &amount.Float64
	}
	e.Description = desc.String
	e.User = user.String
	return &e, nil
}

// InsertExpense appends one expense row and returns its assigned id.
// Missing optional fields never reject the insert.
func (s *SQLiteStorage) InsertExpense(ctx context.Context, expense *model.Expense) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if expense == nil {
		return 0, ErrNilExpense
	}

	var (
		date     sql.NullString
		category sql.NullString
		amount   sql.NullFloat64
	)
	if expense.Date != nil {
		date = sql.NullString{String: *expense.Date, Valid: true}
	}
	if expense.Category != nil {
		category = sql.NullString{String: *expense.Category, Valid: true}
	}
	if expense.Amount != nil {
		amount = sql.NullFloat64{Float64: *expense.Amount, Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO Expenses (data, categoria, valor, descricao, usuario) VALUES (?, ?, ?, ?, ?)`,
		date, category, amount, expense.Description, expense.User)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get expense ID: %w", err)
	}

	slog.Info("recorded expense",
		"id", id,
		"description", expense.Description,
		"user", expense.User)
	return id, nil
}

// UpdateExpenseFields applies single-field edits to one expense. Only the
// description and category columns are mutable through this path; any other
// field is rejected. Returns the number of rows affected; 0 means no such
// id, which is a caller signal, not an error.
func (s *SQLiteStorage) UpdateExpenseFields(ctx context.Context, id int64, changes map[string]string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}
	if err := validateChanges(changes); err != nil {
		return 0, err
	}

	assignments := make([]string, 0, len(changes))
	params := make([]any, 0, len(changes)+1)
	// Stable order keeps the statement deterministic for the two-field case.
	for _, field := range []string{"descricao", "categoria"} {
		if value, ok := changes[field]; ok {
			assignments = append(assignments, fmt.Sprintf("%s = ?", field))
			params = append(params, value)
		}
	}
	params = append(params, id)

	query := fmt.Sprintf("UPDATE Expenses SET %s WHERE id = ?", strings.Join(assignments, ", "))
	result, err := s.db.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to update expense %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}

// GetExpenseByID returns one expense, or nil when the id does not exist.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM Expenses WHERE id = ?", expenseColumns), id)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense %d: %w", id, err)
	}
	return expense, nil
}

// GetExpensesByIDRange returns a page of expenses with ids inside
// [startID, endID], ordered by id in the requested direction.
func (s *SQLiteStorage) GetExpensesByIDRange(ctx context.Context, startID, endID int64, filter service.RangeFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if startID > endID {
		return nil, ErrInvalidRange
	}
	order, err := validateOrder(filter.Order)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(
		"SELECT %s FROM Expenses WHERE id BETWEEN ? AND ? ORDER BY id %s LIMIT ? OFFSET ?",
		expenseColumns, order)
	rows, err := s.db.QueryContext(ctx, query, startID, endID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense range: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// GetAllExpenses returns every recorded expense in id order. This is the
// bulk read the reporting surface consumes; all filtering happens there.
func (s *SQLiteStorage) GetAllExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM Expenses ORDER BY id", expenseColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, err
	}
	slog.Debug("retrieved expenses", "count", len(expenses))
	return expenses, nil
}

// GetExpensesNeedingReview returns expenses currently carrying the review
// sentinel, newest first.
func (s *SQLiteStorage) GetExpensesNeedingReview(ctx context.Context, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 500
	}

	query := fmt.Sprintf(
		"SELECT %s FROM Expenses WHERE categoria = ? ORDER BY data DESC LIMIT ?",
		expenseColumns)
	rows, err := s.db.QueryContext(ctx, query, model.CategoryVerify, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query review expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

func collectExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
