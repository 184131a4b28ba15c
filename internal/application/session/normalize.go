// Package session holds the query-builder form state: the maintained
// condition list, the common fields, and the asynchronous regeneration
// discipline that keeps the displayed query string current.
package session

import (
	domainquery "github.com/turtacn/PatQuery-Bridge/internal/domain/query"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// The list maintenance policy itself lives in the domain package; the form
// goes through these wrappers so callers of the session API never import the
// domain layer directly.

// Normalize enforces the condition-list invariants for a dialect: the list is
// never empty, at most one condition is blank (the trailing TEXT slot kept
// open for input), and the USPTO dialect collapses to a single TEXT condition.
func Normalize(dialect types.Dialect, conditions []types.SearchCondition) []types.SearchCondition {
	return domainquery.Normalize(dialect, conditions)
}

// Remove deletes the condition with the given id and re-normalizes.  Removing
// the permitted blank slot clears it in place instead, so the list never
// loses its open input row.
func Remove(dialect types.Dialect, conditions []types.SearchCondition, id string) []types.SearchCondition {
	return domainquery.RemoveCondition(dialect, conditions, id)
}

// UpdateText replaces the text of the condition with the given id and
// re-normalizes, appending a fresh trailing blank when the user has just
// filled the previous one.
func UpdateText(dialect types.Dialect, conditions []types.SearchCondition, id, text string) []types.SearchCondition {
	return domainquery.UpdateConditionText(dialect, conditions, id, text)
}

//Personal.AI order the ending
