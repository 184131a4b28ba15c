// Package query holds the domain rules for the search-condition list: the
// scope-set exclusivity invariant, the list maintenance policy, and the local
// syntax checks applied to individual conditions before assembly.
package query

import (
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// NormalizeScopes enforces the scope-set invariant on a selection:
// an empty set falls back to full text, and full text is exclusive —
// if FT is present every other scope is dropped.  Duplicates are removed,
// selection order is otherwise preserved.
func NormalizeScopes(scopes []types.TextScope) []types.TextScope {
	if len(scopes) == 0 {
		return []types.TextScope{types.ScopeFullText}
	}
	seen := make(map[types.TextScope]bool, len(scopes))
	out := make([]types.TextScope, 0, len(scopes))
	for _, s := range scopes {
		if s == types.ScopeFullText {
			return []types.TextScope{types.ScopeFullText}
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []types.TextScope{types.ScopeFullText}
	}
	return out
}

// ToggleScope returns the scope set after the user toggles one scope.
// Selecting FT clears all other scopes; selecting a non-FT scope removes FT;
// deselecting the last non-FT scope falls back to FT.  The input slice is
// never mutated.
func ToggleScope(scopes []types.TextScope, toggled types.TextScope) []types.TextScope {
	if toggled == types.ScopeFullText {
		// FT is exclusive and cannot be deselected directly.
		return []types.TextScope{types.ScopeFullText}
	}

	current := NormalizeScopes(scopes)
	selected := false
	out := make([]types.TextScope, 0, len(current)+1)
	for _, s := range current {
		if s == types.ScopeFullText {
			continue
		}
		if s == toggled {
			selected = true
			continue
		}
		out = append(out, s)
	}
	if !selected {
		out = append(out, toggled)
	}
	if len(out) == 0 {
		return []types.TextScope{types.ScopeFullText}
	}
	return out
}

// HasScope reports whether the normalized selection contains the given scope.
func HasScope(scopes []types.TextScope, scope types.TextScope) bool {
	for _, s := range NormalizeScopes(scopes) {
		if s == scope {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
