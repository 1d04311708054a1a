// Package storage provides the data persistence layer for the gastos service.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrNilExpense       = errors.New("expense cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidRange     = errors.New("start id must not exceed end id")
	ErrInvalidOrder     = errors.New("order must be ASC or DESC")
	ErrFieldNotEditable = errors.New("field is not editable")
)

// editableExpenseFields is the only set of columns the single-record update
// path may touch. The primary key and every other column are immutable here.
var editableExpenseFields = map[string]struct{}{
	"descricao": {},
	"categoria": {},
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateOrder normalizes and checks a range-query sort direction.
func validateOrder(order string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "", "DESC":
		return "DESC", nil
	case "ASC":
		return "ASC", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidOrder, order)
	}
}

// validateChanges checks a field-update map against the editable set.
func validateChanges(changes map[string]string) error {
	for field := range changes {
		if _, ok := editableExpenseFields[field]; !ok {
			return fmt.Errorf("%w: %s", ErrFieldNotEditable, field)
		}
	}
	return nil
}
