package model

// CategoryRule is one keyword→label mapping in the classification dictionary.
// Keyword is stored lowercase and is globally unique; Category is the
// human-facing label assigned when Keyword is found inside a description.
type CategoryRule struct {
	ID       int64
	Keyword  string
	Category string
}
