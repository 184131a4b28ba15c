package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

func resetGenerateFlags() {
	genFormat = ""
	genTexts = nil
	genScopes = ""
	genTermOperator = "ALL"
	genCPCs = nil
	genChemTerms = nil
	genChemOperator = "Exact"
	genInventors = nil
	genAssignees = nil
	genDateFrom = ""
	genDateTo = ""
	genDateType = "publication"
	genOffices = ""
	genLanguages = ""
	genStatus = ""
	genPatentType = ""
	genLitigation = ""
	genDefaultOperator = "AND"
	genDatabases = ""
	genHighlights = ""
	genNoPlurals = false
	genBritish = false
	genURLOnly = false
}

func TestBuildGenerateRequest_TextCondition(t *testing.T) {
	resetGenerateFlags()
	genFormat = "google"
	genTexts = []string{"solar cell"}
	genScopes = "TI,AB"
	genTermOperator = "ANY"

	req, err := buildGenerateRequest()
	require.NoError(t, err)
	assert.Equal(t, types.DialectGoogle, req.Format)
	require.Len(t, req.SearchConditions, 1)

	c := req.SearchConditions[0]
	assert.Equal(t, types.ConditionText, c.Type)
	assert.Equal(t, "solar cell", c.Text.Text)
	assert.Equal(t, []types.TextScope{types.ScopeTitle, types.ScopeAbstract}, c.Text.SelectedScopes)
	assert.Equal(t, types.TermAny, c.Text.TermOperator)
	assert.NotEmpty(t, c.ID)
}

func TestBuildGenerateRequest_MixedConditions(t *testing.T) {
	resetGenerateFlags()
	genFormat = "uspto"
	genTexts = []string{"battery"}
	genCPCs = []string{"H01L"}
	genChemTerms = []string{"C1=CC=CC=C1"}
	genChemOperator = "Substructure"

	req, err := buildGenerateRequest()
	require.NoError(t, err)
	require.Len(t, req.SearchConditions, 3)
	assert.Equal(t, types.ConditionText, req.SearchConditions[0].Type)
	assert.Equal(t, types.ConditionClassification, req.SearchConditions[1].Type)
	assert.Equal(t, "H01L", req.SearchConditions[1].Classification.CPC)
	assert.Equal(t, types.ConditionChemistry, req.SearchConditions[2].Type)
	assert.Equal(t, types.ChemSubstructure, req.SearchConditions[2].Chemistry.Operator)
}

func TestBuildGenerateRequest_CommonFields(t *testing.T) {
	resetGenerateFlags()
	genFormat = "google"
	genTexts = []string{"oled"}
	genInventors = []string{"Jane Doe", "John Roe"}
	genAssignees = []string{"Acme Corp"}
	genDateFrom = "2020-01-01"
	genDateTo = "2024-12-31"
	genDateType = "filing"
	genOffices = "us, ep"
	genLanguages = "english"
	genStatus = "grant"

	req, err := buildGenerateRequest()
	require.NoError(t, err)
	f := req.GoogleLikeFields
	require.NotNil(t, f)
	assert.Len(t, f.Inventors, 2)
	assert.Equal(t, "Jane Doe", f.Inventors[0].Value)
	assert.Len(t, f.Assignees, 1)
	assert.Equal(t, types.DateFiling, f.DateType)
	assert.Equal(t, []string{"US", "EP"}, f.PatentOffices)
	assert.Equal(t, []string{"ENGLISH"}, f.Languages)
	assert.Equal(t, "GRANT", f.Status)
}

func TestBuildGenerateRequest_USPTOSettings(t *testing.T) {
	resetGenerateFlags()
	genFormat = "uspto"
	genTexts = []string{"electrode"}
	genDefaultOperator = "or"
	genNoPlurals = true
	genDatabases = "uspat"

	req, err := buildGenerateRequest()
	require.NoError(t, err)
	s := req.USPTOSettings
	require.NotNil(t, s)
	assert.Equal(t, "OR", s.DefaultOperator)
	assert.False(t, s.Plurals)
	assert.Equal(t, []string{"USPAT"}, s.SelectedDatabases)
}

func TestBuildGenerateRequest_Validation(t *testing.T) {
	resetGenerateFlags()
	genFormat = "klingon"
	genTexts = []string{"x"}
	_, err := buildGenerateRequest()
	assert.Error(t, err)

	resetGenerateFlags()
	genFormat = "google"
	_, err = buildGenerateRequest()
	assert.Error(t, err, "no conditions")

	resetGenerateFlags()
	genFormat = "google"
	genTexts = []string{"x"}
	genDateType = "granted"
	_, err = buildGenerateRequest()
	assert.Error(t, err)
}

func TestParseScopes(t *testing.T) {
	scopes, err := parseScopes("")
	require.NoError(t, err)
	assert.Equal(t, []types.TextScope{types.ScopeFullText}, scopes)

	scopes, err = parseScopes("ti, cl")
	require.NoError(t, err)
	assert.Equal(t, []types.TextScope{types.ScopeTitle, types.ScopeClaims}, scopes)

	_, err = parseScopes("TI,XX")
	assert.Error(t, err)

	_, err = parseScopes("FT,TI")
	assert.Error(t, err, "full text is exclusive")
}

func TestParseTermOperator(t *testing.T) {
	op, err := parseTermOperator("any")
	require.NoError(t, err)
	assert.Equal(t, types.TermAny, op)

	op, err = parseTermOperator("")
	require.NoError(t, err)
	assert.Equal(t, types.TermAll, op)

	_, err = parseTermOperator("MOST")
	assert.Error(t, err)
}

func TestSplitUpper(t *testing.T) {
	assert.Empty(t, splitUpper(""))
	assert.Equal(t, []string{"US", "EP"}, splitUpper(" us ,ep,"))
}

//Personal.AI order the ending
