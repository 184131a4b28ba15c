package query

import (
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// Normalize applies the list maintenance policy to a condition list and
// returns the normalized list.  Invariants on the result:
//
//  1. at most one condition is blank, and if present it is the last entry;
//  2. the list always ends with exactly one blank TEXT condition ready for
//     new input (except in USPTO mode, which allows a single condition only);
//  3. the list is never empty — a fresh blank TEXT condition is synthesized
//     if it would become so.
//
// Normalize is idempotent: an already-normalized list is returned unchanged,
// identifiers included (the trailing blank is reused, not regenerated).
// The input slice is not mutated.
func Normalize(dialect types.Dialect, conditions []types.SearchCondition) []types.SearchCondition {
	if dialect == types.DialectUSPTO {
		return collapseForUSPTO(conditions)
	}

	out := make([]types.SearchCondition, 0, len(conditions)+1)
	for _, c := range conditions {
		if !c.IsBlank() {
			out = append(out, c.Clone())
		}
	}

	// Reuse the existing trailing blank when there is one, so repeated
	// normalization is a fixed point.
	if n := len(conditions); n > 0 {
		last := conditions[n-1]
		if last.Type == types.ConditionText && last.IsBlank() {
			out = append(out, last.Clone())
			return out
		}
	}
	out = append(out, types.NewTextCondition())
	return out
}

// collapseForUSPTO restricts the list to a single TEXT condition, keeping only
// the first condition's text.  The collapse is lossy by design: conditions
// beyond the first are discarded and switching dialects back does not
// resurrect them.
func collapseForUSPTO(conditions []types.SearchCondition) []types.SearchCondition {
	for _, c := range conditions {
		if c.Type == types.ConditionText {
			return []types.SearchCondition{c.Clone()}
		}
		// A leading non-TEXT condition has no text to preserve.
		break
	}
	return []types.SearchCondition{types.NewTextCondition()}
}

// RemoveCondition removes the condition with the given id and re-normalizes.
// Removing the single permitted trailing blank clears its text in place
// instead of shrinking the list below the policy minimum.
func RemoveCondition(dialect types.Dialect, conditions []types.SearchCondition, id string) []types.SearchCondition {
	out := make([]types.SearchCondition, 0, len(conditions))
	for _, c := range conditions {
		if c.ID != id {
			out = append(out, c)
			continue
		}
		if c.Type == types.ConditionText && c.IsBlank() {
			// The would-be-removed blank stays, cleared.
			cleared := c.Clone()
			cleared.Text.Text = ""
			cleared.Text.Error = ""
			out = append(out, cleared)
		}
	}
	return Normalize(dialect, out)
}

// UpdateConditionText replaces the text of the condition with the given id and
// re-normalizes, which appends a fresh trailing blank when the user has just
// filled the previous one.
func UpdateConditionText(dialect types.Dialect, conditions []types.SearchCondition, id, text string) []types.SearchCondition {
	out := make([]types.SearchCondition, 0, len(conditions))
	for _, c := range conditions {
		if c.ID == id && c.Type == types.ConditionText {
			updated := c.Clone()
			updated.Text.Text = text
			out = append(out, updated)
			continue
		}
		out = append(out, c)
	}
	return Normalize(dialect, out)
}

//Personal.AI order the ending
