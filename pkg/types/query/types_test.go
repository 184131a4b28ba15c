package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	assert.Equal(t, DialectGoogle, ParseDialect("google"))
	assert.Equal(t, DialectGoogle, ParseDialect(" Google "))
	assert.Equal(t, DialectUSPTO, ParseDialect("USPTO"))
	assert.Equal(t, DialectUnknown, ParseDialect("bing"))
	assert.Equal(t, DialectUnknown, ParseDialect(""))

	assert.True(t, DialectGoogle.Valid())
	assert.True(t, DialectUSPTO.Valid())
	assert.False(t, DialectUnknown.Valid())
}

func TestNewTextCondition_Defaults(t *testing.T) {
	c := NewTextCondition()
	require.Equal(t, ConditionText, c.Type)
	require.NotNil(t, c.Text)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, []TextScope{ScopeFullText}, c.Text.SelectedScopes)
	assert.Equal(t, TermAll, c.Text.TermOperator)
	assert.True(t, c.IsBlank())

	// Fresh identifiers are never reused.
	assert.NotEqual(t, c.ID, NewTextCondition().ID)
}

func TestSearchCondition_JSONEnvelope(t *testing.T) {
	c := NewTextConditionWithText("neural network")
	c.Text.SelectedScopes = []TextScope{ScopeTitle, ScopeAbstract}
	c.Text.TermOperator = TermAny

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"TEXT"`)
	assert.Contains(t, string(raw), `"data":{`)

	var back SearchCondition
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, c.ID, back.ID)
	require.NotNil(t, back.Text)
	assert.Equal(t, "neural network", back.Text.Text)
	assert.Equal(t, []TextScope{ScopeTitle, ScopeAbstract}, back.Text.SelectedScopes)
	assert.Equal(t, TermAny, back.Text.TermOperator)
}

func TestSearchCondition_UnmarshalUnknownType(t *testing.T) {
	var c SearchCondition
	err := json.Unmarshal([]byte(`{"id":"x","type":"HOLOGRAM","data":{}}`), &c)
	assert.Error(t, err)
}

func TestSearchCondition_IsBlankPerVariant(t *testing.T) {
	chem := SearchCondition{Type: ConditionChemistry, Chemistry: &ChemistryData{Term: "  "}}
	assert.True(t, chem.IsBlank())
	chem.Chemistry.Term = "C6H6"
	assert.False(t, chem.IsBlank())

	measure := SearchCondition{Type: ConditionMeasure, Measure: &MeasureData{}}
	assert.True(t, measure.IsBlank())
	measure.Measure.UnitsConcepts = "tensile strength"
	assert.False(t, measure.IsBlank())

	numbers := SearchCondition{Type: ConditionNumbers, Numbers: &NumbersData{DocIDsText: "US9000000\n"}}
	assert.False(t, numbers.IsBlank())
}

func TestClone_IsDeep(t *testing.T) {
	c := NewTextConditionWithText("solar")
	clone := c.Clone()
	clone.Text.Text = "wind"
	clone.Text.SelectedScopes[0] = ScopeClaims

	assert.Equal(t, "solar", c.Text.Text)
	assert.Equal(t, ScopeFullText, c.Text.SelectedScopes[0])
	assert.Equal(t, c.ID, clone.ID)
}

func TestChemOperatorLabelMapping(t *testing.T) {
	// Many-to-one: both exact labels collapse.
	assert.Equal(t, ChemExact, ChemOperatorFromLabel("Exact"))
	assert.Equal(t, ChemExact, ChemOperatorFromLabel("Exact Batch"))
	assert.Equal(t, ChemSimilar, ChemOperatorFromLabel("similar"))
	assert.Equal(t, ChemSubstructure, ChemOperatorFromLabel("Substructure"))
	assert.Equal(t, ChemSMARTS, ChemOperatorFromLabel("SMARTS"))

	// The reverse prefers the canonical label.
	assert.Equal(t, "Exact", CanonicalChemLabel(ChemExact))
	assert.Equal(t, "SMARTS", CanonicalChemLabel(ChemSMARTS))
}

func TestCommonFields_IsEmpty(t *testing.T) {
	f := NewCommonFields()
	assert.True(t, f.IsEmpty())

	f.Inventors = append(f.Inventors, NewDynamicEntry("Jane Doe"))
	assert.False(t, f.IsEmpty())
}

func TestDefaultUSPTOSettings(t *testing.T) {
	s := DefaultUSPTOSettings()
	assert.Equal(t, "AND", s.DefaultOperator)
	assert.True(t, s.Plurals)
	assert.False(t, s.BritishEquivalents)
	assert.Equal(t, []string{"US-PGPUB", "USPAT", "USOCR"}, s.SelectedDatabases)
}

func TestEnumerations(t *testing.T) {
	assert.Len(t, Languages, 16)
	assert.GreaterOrEqual(t, len(PatentOffices), 170)
	assert.Contains(t, PatentOffices, "OTHER")
	assert.True(t, DateFiling.Valid())
	assert.False(t, DateType("grant").Valid())
}

//Personal.AI order the ending
