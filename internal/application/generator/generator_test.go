package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatQuery-Bridge/internal/domain/ast"
)

func root(n ast.Node) *ast.QueryRoot { return &ast.QueryRoot{Query: n} }

func TestGoogle_Terms(t *testing.T) {
	got, err := Google(root(ast.NewTerm("laser", false)))
	require.NoError(t, err)
	assert.Equal(t, "laser", got)

	got, err = Google(root(ast.NewTerm("solar cell", true)))
	require.NoError(t, err)
	assert.Equal(t, `"solar cell"`, got)

	// An operator keyword used as a term is quoted to stay a term.
	got, err = Google(root(ast.NewTerm("near", false)))
	require.NoError(t, err)
	assert.Equal(t, `"near"`, got)

	got, err = Google(root(ast.NewTerm(EmptyTermValue, false)))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestGoogle_BooleanPrecedence(t *testing.T) {
	// (a OR b) AND c: the OR group binds looser and gets parenthesized.
	tree := &ast.BooleanOp{
		Operator: ast.OpAnd,
		Operands: []ast.Node{
			&ast.BooleanOp{
				Operator: ast.OpOr,
				Operands: []ast.Node{ast.NewTerm("anode", false), ast.NewTerm("cathode", false)},
			},
			ast.NewTerm("separator", false),
		},
	}
	got, err := Google(root(tree))
	require.NoError(t, err)
	assert.Equal(t, "(anode OR cathode) AND separator", got)
}

func TestGoogle_NotAndProximity(t *testing.T) {
	tree := &ast.BooleanOp{
		Operator: ast.OpNot,
		Operands: []ast.Node{ast.NewTerm("obsolete", false)},
	}
	got, err := Google(root(tree))
	require.NoError(t, err)
	assert.Equal(t, "NOT obsolete", got)

	dist := 3
	prox := &ast.ProximityOp{
		Operator: ast.OpNear,
		Distance: &dist,
		Terms:    []ast.Node{ast.NewTerm("laser", false), ast.NewTerm("diode", false)},
	}
	got, err = Google(root(prox))
	require.NoError(t, err)
	assert.Equal(t, "laser NEAR3 diode", got)
}

func TestGoogle_FieldedSearch(t *testing.T) {
	tree := &ast.FieldedSearch{
		FieldCanonicalName: ast.FieldTitle,
		Query:              ast.NewTerm("solar", false),
	}
	got, err := Google(root(tree))
	require.NoError(t, err)
	assert.Equal(t, "TI=(solar)", got)

	inv := &ast.FieldedSearch{
		FieldCanonicalName: ast.FieldInventor,
		Query:              ast.NewTerm("Jane Doe", true),
	}
	got, err = Google(root(inv))
	require.NoError(t, err)
	assert.Equal(t, `inventor=("Jane Doe")`, got)

	cpc := &ast.FieldedSearch{
		FieldCanonicalName: ast.FieldCPC,
		Query:              &ast.Classification{Scheme: "CPC", Value: "H01L31/18", IncludeChildren: true},
	}
	got, err = Google(root(cpc))
	require.NoError(t, err)
	assert.Equal(t, "CPC=H01L3118/low", got)
}

func TestGoogle_DateSearch(t *testing.T) {
	date := &ast.DateSearch{
		FieldCanonicalName: ast.DateApplication,
		Operator:           ">=",
		DateValue:          "2020-01-01",
	}
	got, err := Google(root(date))
	require.NoError(t, err)
	assert.Equal(t, "after:filing:20200101", got)

	eq := &ast.DateSearch{
		FieldCanonicalName: ast.DatePublication,
		Operator:           "=",
		DateValue:          "20200101",
	}
	got, err = Google(root(eq))
	require.NoError(t, err)
	assert.Equal(t, "after:publication:20200101 before:publication:20200101", got)

	_, err = Google(root(&ast.DateSearch{
		FieldCanonicalName: "application_year",
		Operator:           "<>",
		DateValue:          "2020",
	}))
	assert.Error(t, err)
}

func TestUSPTO_FieldedAndProximity(t *testing.T) {
	dist := 2
	tree := &ast.FieldedSearch{
		FieldCanonicalName: ast.FieldTitle,
		Query: &ast.ProximityOp{
			Operator: ast.OpAdj,
			Distance: &dist,
			Terms:    []ast.Node{ast.NewTerm("solar", false), ast.NewTerm("cell", false)},
		},
	}
	got, err := USPTO(root(tree))
	require.NoError(t, err)
	assert.Equal(t, "TTL/(solar ADJ2 cell)", got)
}

func TestUSPTO_BooleanPrecedence(t *testing.T) {
	tree := &ast.BooleanOp{
		Operator: ast.OpAnd,
		Operands: []ast.Node{
			&ast.BooleanOp{
				Operator: ast.OpOr,
				Operands: []ast.Node{ast.NewTerm("anode", false), ast.NewTerm("cathode", false)},
			},
			ast.NewTerm("separator", false),
		},
	}
	got, err := USPTO(root(tree))
	require.NoError(t, err)
	assert.Equal(t, "(anode OR cathode) AND separator", got)
}

func TestUSPTO_ClassificationSlashRestored(t *testing.T) {
	tree := &ast.FieldedSearch{
		FieldCanonicalName: ast.FieldCPC,
		Query:              &ast.Classification{Scheme: "CPC", Value: "H01L3118", IncludeChildren: true},
	}
	got, err := USPTO(root(tree))
	require.NoError(t, err)
	assert.Equal(t, "CPC/H01L/3118", got)
}

func TestUSPTO_DateSearch(t *testing.T) {
	date := &ast.DateSearch{
		FieldCanonicalName: ast.DateApplication,
		Operator:           ">=",
		DateValue:          "20200101",
	}
	got, err := USPTO(root(date))
	require.NoError(t, err)
	assert.Equal(t, "@APD>=1/1/2020", got)

	ranged := &ast.DateSearch{
		FieldCanonicalName: ast.DateIssue,
		Operator:           ">=",
		DateValue:          "1/1/2020",
		DateValue2:         "6/30/2020",
	}
	got, err = USPTO(root(ranged))
	require.NoError(t, err)
	assert.Equal(t, "@ISD>=1/1/2020<=6/30/2020", got)
}

func TestUSPTO_NameFields(t *testing.T) {
	tree := &ast.BooleanOp{
		Operator: ast.OpAnd,
		Operands: []ast.Node{
			&ast.FieldedSearch{FieldCanonicalName: ast.FieldInventor, Query: ast.NewTerm("Doe", false)},
			&ast.FieldedSearch{FieldCanonicalName: ast.FieldAssignee, Query: ast.NewTerm("Acme Corp", true)},
		},
	}
	got, err := USPTO(root(tree))
	require.NoError(t, err)
	assert.Equal(t, `IN/Doe AND AN/"Acme Corp"`, got)
}

func TestGenerate_NilRoot(t *testing.T) {
	got, err := Google(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	got, err = USPTO(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

//Personal.AI order the ending
