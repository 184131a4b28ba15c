package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerm_WildcardDetection(t *testing.T) {
	assert.False(t, NewTerm("laser", false).HasWildcard)
	assert.True(t, NewTerm("las*", false).HasWildcard)
	assert.True(t, NewTerm("col$r", false).HasWildcard)
	assert.True(t, NewTerm("te?t", false).HasWildcard)
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	dist := 3
	tree := &QueryRoot{
		Query: &BooleanOp{
			Operator: OpAnd,
			Operands: []Node{
				&FieldedSearch{
					FieldCanonicalName: FieldTitle,
					SystemFieldCode:    "TTL",
					Query: &ProximityOp{
						Operator: OpAdj,
						Distance: &dist,
						Ordered:  true,
						Terms: []Node{
							NewTerm("solar", false),
							NewTerm("cell", false),
						},
					},
				},
				&DateSearch{
					FieldCanonicalName: DateApplication,
					Operator:           ">=",
					DateValue:          "2020-01-01",
					SystemFieldCode:    "APD",
				},
				&Classification{Scheme: "CPC", Value: "H01L31/18", IncludeChildren: true},
				&BooleanOp{
					Operator: OpNot,
					Operands: []Node{NewTerm("thin film", true)},
				},
			},
		},
		Settings: map[string]interface{}{"defaultOperator": "OR"},
	}

	raw, err := Marshal(tree)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"node_type":"QueryRootNode"`)

	back, err := Unmarshal(raw)
	require.NoError(t, err)
	root, ok := back.(*QueryRoot)
	require.True(t, ok)
	assert.Equal(t, "OR", root.Settings["defaultOperator"])

	op, ok := root.Query.(*BooleanOp)
	require.True(t, ok)
	require.Len(t, op.Operands, 4)

	fielded, ok := op.Operands[0].(*FieldedSearch)
	require.True(t, ok)
	assert.Equal(t, FieldTitle, fielded.FieldCanonicalName)

	prox, ok := fielded.Query.(*ProximityOp)
	require.True(t, ok)
	require.NotNil(t, prox.Distance)
	assert.Equal(t, 3, *prox.Distance)
	require.Len(t, prox.Terms, 2)

	date, ok := op.Operands[1].(*DateSearch)
	require.True(t, ok)
	assert.Equal(t, ">=", date.Operator)
	assert.Equal(t, "APD", date.SystemFieldCode)

	not, ok := op.Operands[3].(*BooleanOp)
	require.True(t, ok)
	phrase, ok := not.Operands[0].(*Term)
	require.True(t, ok)
	assert.True(t, phrase.IsPhrase)
}

func TestUnmarshal_UnknownNodeType(t *testing.T) {
	_, err := Unmarshal([]byte(`{"node_type":"MysteryNode"}`))
	assert.Error(t, err)
}

func TestUnmarshal_MissingNodeType(t *testing.T) {
	_, err := Unmarshal([]byte(`{"value":"x"}`))
	assert.Error(t, err)
}

//Personal.AI order the ending
