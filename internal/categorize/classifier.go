// Package categorize assigns a spending category to a merchant description
// using the persistent keyword dictionary.
package categorize

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rfcarvalho/gastos/internal/model"
	"github.com/rfcarvalho/gastos/internal/service"
	"github.com/rfcarvalho/gastos/internal/text"
)

// Classifier matches descriptions against the dictionary and mints new
// entries for descriptions nothing matches.
type Classifier struct {
	rules service.RuleStore
}

// New creates a classifier over the given dictionary store.
func New(rules service.RuleStore) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the category label for a description.
//
// Descriptions with fewer than four useful characters go straight to the
// review sentinel without touching the dictionary. Otherwise rules are
// scanned in stored (insertion) order and the first keyword found inside the
// normalized description wins, so dictionary order is part of the
// classification contract. When nothing matches, the description itself
// becomes a new rule: keyword lowercased, label title-cased.
func (c *Classifier) Classify(ctx context.Context, description string) (string, error) {
	if text.UsefulLength(description) < text.MinUsefulLength {
		return model.CategoryVerify, nil
	}

	normalized := text.Normalize(description)

	rules, err := c.rules.GetCategoryRules(ctx)
	if err != nil {
		return "", err
	}
	for _, rule := range rules {
		if strings.Contains(normalized, text.Normalize(rule.Keyword)) {
			return rule.Category, nil
		}
	}

	keyword := strings.ToLower(strings.TrimSpace(description))
	label := text.Title(strings.TrimSpace(description))

	// Reserved labels are never auto-created. The expense still gets the
	// label; the dictionary stays clean and the drift is reconciled later.
	if model.IsBlockedCategory(label) {
		return label, nil
	}

	created, err := c.rules.UpsertCategoryRule(ctx, keyword, label)
	if err != nil {
		// The expense is still recorded with the computed label; a rule with
		// no backing row is tolerated drift.
		slog.Error("failed to create dictionary entry",
			"keyword", keyword,
			"category", label,
			"error", err)
		return label, nil
	}
	if created {
		slog.Info("created dictionary entry", "keyword", keyword, "category", label)
	}
	return label, nil
}
