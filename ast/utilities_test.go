package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/timereport/ast"
)

func exampleQuery() *ast.Query {
	return &ast.Query{
		Clauses: []ast.Node{
			&ast.WhereClause{
				Conditions: []ast.Node{
					&ast.BinaryExpression{
						Left:     &ast.Identifier{Name: "project"},
						Operator: ast.OperatorEqual,
						Right:    &ast.Literal{Value: "acme", DataKind: ast.DataKindString},
					},
					&ast.BinaryExpression{
						Left:     &ast.Identifier{Name: "year"},
						Operator: ast.OperatorEqual,
						Right:    &ast.Literal{Value: 2024.0, DataKind: ast.DataKindNumber},
					},
				},
			},
			&ast.ShowClause{
				Fields: []ast.ShowField{
					{Field: &ast.Identifier{Name: "hours"}},
					{Field: &ast.Identifier{Name: "rate"}},
				},
			},
			&ast.ViewClause{Name: "chart"},
		},
	}
}

func TestWalkVisitsEveryNodeInPreOrder(t *testing.T) {
	var kinds []ast.Kind
	ast.Walk(exampleQuery(), func(node ast.Node) bool {
		kinds = append(kinds, node.NodeKind())
		return true
	})

	expected := []ast.Kind{
		ast.KindQuery,
		ast.KindWhereClause,
		ast.KindBinaryExpression,
		ast.KindIdentifier,
		ast.KindLiteral,
		ast.KindBinaryExpression,
		ast.KindIdentifier,
		ast.KindLiteral,
		ast.KindShowClause,
		ast.KindIdentifier,
		ast.KindIdentifier,
		ast.KindViewClause,
	}
	assert.Equal(t, expected, kinds)
}

func TestWalkStopsDescentOnFalse(t *testing.T) {
	count := 0
	ast.Walk(exampleQuery(), func(node ast.Node) bool {
		count++
		return node.NodeKind() != ast.KindWhereClause
	})

	// The WHERE clause's conditions must be skipped: query, where, show,
	// 2 show fields, view.
	assert.Equal(t, 6, count)
}

func TestEqual(t *testing.T) {
	assert.True(t, ast.Equal(exampleQuery(), exampleQuery()))

	changed := exampleQuery()
	changed.Clauses[2] = &ast.ViewClause{Name: "table"}
	assert.False(t, ast.Equal(exampleQuery(), changed))

	assert.True(t, ast.Equal(nil, nil))
	assert.False(t, ast.Equal(exampleQuery(), nil))

	var typedNil *ast.Literal
	assert.True(t, ast.Equal(nil, typedNil))
}

func TestTransformRewritesIdentifiers(t *testing.T) {
	original := exampleQuery()

	transformed := ast.Transform(original, func(node ast.Node) ast.Node {
		if identifier, isIdentifier := node.(*ast.Identifier); isIdentifier {
			return &ast.Identifier{Name: strings.ToUpper(identifier.Name)}
		}
		return node
	})

	transformedQuery, isQuery := transformed.(*ast.Query)
	require.True(t, isQuery)

	whereClause := transformedQuery.Clauses[0].(*ast.WhereClause)
	condition := whereClause.Conditions[0].(*ast.BinaryExpression)
	assert.Equal(t, "PROJECT", condition.Left.(*ast.Identifier).Name)

	// The input tree must be left untouched.
	originalCondition := original.Clauses[0].(*ast.WhereClause).Conditions[0].(*ast.BinaryExpression)
	assert.Equal(t, "project", originalCondition.Left.(*ast.Identifier).Name)
}

func TestTransformIdentityPreservesStructure(t *testing.T) {
	original := exampleQuery()
	transformed := ast.Transform(original, func(node ast.Node) ast.Node { return node })
	assert.True(t, ast.Equal(original, transformed))
}

func TestGatherStatistics(t *testing.T) {
	stats := ast.Gather(exampleQuery())

	assert.Equal(t, 12, stats.TotalNodes)
	assert.Equal(t, 3, stats.ClauseCount)
	assert.Equal(t, 2, stats.ConditionCount)
	assert.Equal(t, 2, stats.FieldCount)
	assert.Equal(t, 4, stats.MaxDepth)
	assert.Equal(t, 2, stats.NodesByKind[ast.KindBinaryExpression.String()])
	assert.Equal(t, ast.ComplexitySimple, stats.Complexity)
}

func TestGatherClassifiesAggregationAsComplex(t *testing.T) {
	query := &ast.Query{
		Clauses: []ast.Node{
			&ast.ShowClause{
				Fields: []ast.ShowField{
					{
						Aggregation: &ast.AggregationFunction{
							Aggregation: ast.AggregationSum,
							Field:       &ast.Identifier{Name: "hours"},
						},
					},
				},
			},
		},
	}

	stats := ast.Gather(query)
	assert.Equal(t, ast.ComplexityComplex, stats.Complexity)
}

func TestVisitorDispatchesByKind(t *testing.T) {
	visitor := ast.Visitor{
		Identifier: func(identifier *ast.Identifier) any { return identifier.Name },
		Default:    func(node ast.Node) any { return nil },
	}

	result := visitor.Visit(&ast.Identifier{Name: "hours"})
	assert.Equal(t, "hours", result)

	assert.Nil(t, visitor.Visit(&ast.ViewClause{Name: "chart"}))
}

func TestVisitorFallsBackToDefaultForUnknownNodes(t *testing.T) {
	visitor := ast.Visitor{
		Default: func(node ast.Node) any { return "default" },
	}

	require.NotPanics(t, func() {
		result := visitor.Visit(&nodeWithoutKind{})
		assert.Equal(t, "default", result)
	})
}

func TestPrintShowsTreeStructure(t *testing.T) {
	printed := ast.Print(exampleQuery())

	assert.Contains(t, printed, ast.KindQuery.String())
	assert.Contains(t, printed, "project")
	// Children are indented under their parents.
	assert.Regexp(t, `(?m)^\s+`+ast.KindWhereClause.String(), printed)
}
