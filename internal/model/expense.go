// Package model defines the core domain types shared across the application.
package model

// Sentinel values written into expense rows when the pipeline cannot do better.
const (
	// CategoryVerify marks an expense that needs manual review.
	CategoryVerify = "VERIFICAR"
	// DescriptionUnknown is stored when no merchant could be extracted.
	DescriptionUnknown = "Nao identificado"
)

// BlockedCategories are reserved labels that must never be auto-created as
// dictionary entries nor targeted by the add-keyword path. They remain valid
// as manual overrides and as reclassification targets.
var BlockedCategories = map[string]struct{}{
	"VERIFICAR": {},
	"Outros":    {},
	"OUTROS":    {},
}

// IsBlockedCategory reports whether a category label is reserved.
func IsBlockedCategory(name string) bool {
	_, ok := BlockedCategories[name]
	return ok
}

// Expense represents one recorded purchase.
//
// Date is stored exactly as supplied by the notification source and is not
// validated or reformatted. Category is a denormalized copy of a dictionary
// label, not a foreign key; it may drift from the Categories table until a
// reconciliation operation narrows the gap.
type Expense struct {
	ID          int64
	Date        *string
	Category    *string
	Amount      *float64
	Description string
	User        string
}
