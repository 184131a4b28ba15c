package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

func TestNormalizeScopes(t *testing.T) {
	assert.Equal(t, []types.TextScope{types.ScopeFullText}, NormalizeScopes(nil))
	assert.Equal(t,
		[]types.TextScope{types.ScopeFullText},
		NormalizeScopes([]types.TextScope{types.ScopeTitle, types.ScopeFullText}),
		"full text is exclusive")
	assert.Equal(t,
		[]types.TextScope{types.ScopeTitle, types.ScopeAbstract},
		NormalizeScopes([]types.TextScope{types.ScopeTitle, types.ScopeAbstract, types.ScopeTitle}),
		"duplicates removed, order preserved")
}

func TestToggleScope_SelectingFTClearsOthers(t *testing.T) {
	scopes := []types.TextScope{types.ScopeTitle, types.ScopeClaims}
	assert.Equal(t,
		[]types.TextScope{types.ScopeFullText},
		ToggleScope(scopes, types.ScopeFullText))
}

func TestToggleScope_SelectingNonFTRemovesFT(t *testing.T) {
	scopes := []types.TextScope{types.ScopeFullText}
	assert.Equal(t,
		[]types.TextScope{types.ScopeTitle},
		ToggleScope(scopes, types.ScopeTitle))
}

func TestToggleScope_DeselectingLastNonFTFallsBackToFT(t *testing.T) {
	scopes := []types.TextScope{types.ScopeTitle}
	assert.Equal(t,
		[]types.TextScope{types.ScopeFullText},
		ToggleScope(scopes, types.ScopeTitle))
}

func TestToggleScope_AddAndRemove(t *testing.T) {
	scopes := []types.TextScope{types.ScopeTitle}
	scopes = ToggleScope(scopes, types.ScopeAbstract)
	assert.Equal(t, []types.TextScope{types.ScopeTitle, types.ScopeAbstract}, scopes)

	scopes = ToggleScope(scopes, types.ScopeTitle)
	assert.Equal(t, []types.TextScope{types.ScopeAbstract}, scopes)

	// Input slices are never mutated.
	original := []types.TextScope{types.ScopeTitle, types.ScopeClaims}
	_ = ToggleScope(original, types.ScopeCPC)
	assert.Equal(t, []types.TextScope{types.ScopeTitle, types.ScopeClaims}, original)
}

func TestHasScope(t *testing.T) {
	assert.True(t, HasScope(nil, types.ScopeFullText))
	assert.True(t, HasScope([]types.TextScope{types.ScopeTitle}, types.ScopeTitle))
	assert.False(t, HasScope([]types.TextScope{types.ScopeTitle}, types.ScopeFullText))
}

func TestValidateConditionText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty ok", "   ", false},
		{"plain words", "neural network", false},
		{"balanced parens", "(laser OR diode) AND pump", false},
		{"quoted phrase", `"machine learning" model`, false},
		{"leading NOT ok", "NOT obsolete", false},
		{"unmatched open paren", "ti:(laser", true},
		{"unmatched close paren", "laser)", true},
		{"unmatched quote", `"laser diode`, true},
		{"trailing operator", "laser AND", true},
		{"trailing proximity", "laser ADJ2", true},
		{"consecutive operators", "laser AND OR diode", true},
		{"leading operator folds into phrase", "NEAR field communication", false},
		{"parens inside quotes ignored", `"f(x) transform"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConditionText(tt.text)
			if tt.wantErr {
				assert.NotNil(t, err, tt.text)
			} else {
				assert.Nil(t, err, tt.text)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	assert.Nil(t, ValidateDate(""))
	assert.Nil(t, ValidateDate("2020-01-01"))
	assert.Nil(t, ValidateDate("20200101"))
	assert.NotNil(t, ValidateDate("01/01/2020"))
	assert.NotNil(t, ValidateDate("2020-1-1"))
}

//Personal.AI order the ending
