// Package pipeline wires the notification-processing steps together: decide,
// extract, resolve the owning user, categorize, persist.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rfcarvalho/gastos/internal/categorize"
	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/notify"
	"github.com/rfcarvalho/gastos/internal/service"
)

// Status of one processed notification.
type Status string

const (
	// StatusRecorded means an expense row was inserted.
	StatusRecorded Status = "ok"
	// StatusIgnored means the notification was rejected by the classifier.
	// Rejections are expected outcomes, not errors.
	StatusIgnored Status = "ignorado"
)

// Outcome reports what happened to one inbound notification.
type Outcome struct {
	Status    Status
	Reason    string
	ExpenseID int64
}

// Processor runs the ingestion pipeline for inbound notifications. Each
// webhook delivery gets its own short-lived call with no shared mutable
// state; coordination is delegated entirely to the store.
type Processor struct {
	store      service.Storage
	classifier *categorize.Classifier
	resolver   *notify.UserResolver
}

// New creates a processor over the given store and user resolver.
func New(store service.Storage, resolver *notify.UserResolver) *Processor {
	return &Processor{
		store:      store,
		classifier: categorize.New(store),
		resolver:   resolver,
	}
}

// Process handles one notification end to end. A storage failure is the only
// error path: classifier rejections and extraction misses are normal
// outcomes and the record is inserted with whatever fields were recoverable.
func (p *Processor) Process(ctx context.Context, n model.Notification) (Outcome, error) {
	decision := notify.Classify(n)
	if !decision.Accepted {
		slog.Debug("ignored notification",
			"title", n.Title,
			"reason", decision.Reason)
		return Outcome{Status: StatusIgnored, Reason: decision.Reason}, nil
	}

	amount, description := notify.Extract(n.Message)
	user := p.resolver.Resolve(n.SourceApp)

	category, err := p.classifier.Classify(ctx, description)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to classify %q: %w", description, err)
	}

	expense := &model.Expense{
		Category:    &category,
		Amount:      amount,
		Description: description,
		User:        user,
	}
	if n.SentAt != "" {
		expense.Date = &n.SentAt
	}

	id, err := p.store.InsertExpense(ctx, expense)
	if err != nil {
		// Logged with the attempted record so a failed delivery can be
		// replayed by hand.
		slog.Error("failed to record expense",
			"description", description,
			"category", category,
			"user", user,
			"date", n.SentAt,
			"error", err)
		return Outcome{}, fmt.Errorf("failed to record expense: %w", err)
	}

	slog.Info("processed purchase notification",
		"expense_id", id,
		"category", category,
		"user", user)
	return Outcome{Status: StatusRecorded, ExpenseID: id}, nil
}
