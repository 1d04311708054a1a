// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Dictionary guard errors.
	ErrBlockedCategory = errors.New("category is reserved")
	ErrKeywordTooShort = errors.New("keyword has fewer than 4 useful characters")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsRetryable determines if an error should be reported to the caller as a
// transient failure worth re-delivering. SQLite surfaces lock contention as
// SQLITE_BUSY once the busy timeout expires; that must fail the request, not
// hang the worker.
func IsRetryable(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return errors.Is(err, context.DeadlineExceeded)
}
