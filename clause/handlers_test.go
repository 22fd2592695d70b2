package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/timereport/ast"
)

func numberLiteral(value float64) ast.Node {
	return &ast.Literal{Value: value, DataKind: ast.DataKindNumber}
}

func stringLiteral(value string) ast.Node {
	return &ast.Literal{Value: value, DataKind: ast.DataKindString}
}

func percentageLiteral(value float64) ast.Node {
	return &ast.Literal{Value: value, DataKind: ast.DataKindPercentage}
}

func TestHandlerValidation(t *testing.T) {
	testCases := []struct {
		name        string
		handler     Handler
		args        []ast.Node
		expectValid bool
	}{
		{"ServicesWithoutArgs", ServiceMixHandler{}, nil, false},
		{"ServicesWithStrings", ServiceMixHandler{}, []ast.Node{stringLiteral("consulting")}, true},
		{"RolloverBare", RolloverHandler{}, nil, true},
		{"RolloverWithCap", RolloverHandler{}, []ast.Node{numberLiteral(20)}, true},
		{"RolloverTooManyArgs", RolloverHandler{}, []ast.Node{numberLiteral(20), numberLiteral(30)}, false},
		{"UtilizationWithBounds", UtilizationHandler{}, []ast.Node{percentageLiteral(70), percentageLiteral(110)}, true},
		{"UtilizationWithoutArgs", UtilizationHandler{}, nil, false},
		{"ContractWithHours", ContractHandler{}, []ast.Node{numberLiteral(140)}, true},
		{"ContractWithRenewal", ContractHandler{}, []ast.Node{numberLiteral(140), stringLiteral("2025-04-01")}, true},
		{"ContractWithBadDate", ContractHandler{}, []ast.Node{numberLiteral(140), stringLiteral("not a date")}, false},
		{"ValueWithBounds", ValueHandler{}, []ast.Node{numberLiteral(1000), numberLiteral(5000)}, true},
		{"AlertWithoutFlags", AlertHandler{}, nil, false},
		{"ForecastWholeMonths", ForecastHandler{}, []ast.Node{numberLiteral(3)}, true},
		{"ForecastFractionalMonths", ForecastHandler{}, []ast.Node{numberLiteral(1.5)}, false},
		{"ForecastZeroMonths", ForecastHandler{}, []ast.Node{numberLiteral(0)}, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			extension := &ast.ExtensionClause{
				Kind: testCase.handler.Kind(),
				Args: testCase.args,
			}

			result := testCase.handler.Validate(extension)
			assert.Equal(t, testCase.expectValid, result.Valid)
			if !testCase.expectValid {
				assert.NotEmpty(t, result.Errors)
			}
		})
	}
}

func TestRatioArgConversion(t *testing.T) {
	extension := &ast.ExtensionClause{
		Kind: "utilization",
		Args: []ast.Node{percentageLiteral(70)},
	}

	result, err := UtilizationHandler{}.Interpret(extension)
	require.NoError(t, err)

	threshold, isThreshold := result.(UtilizationThreshold)
	require.True(t, isThreshold)
	assert.Equal(t, 0.7, threshold.Min)
	assert.Zero(t, threshold.Max)
}
