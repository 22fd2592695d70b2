package clause

import (
	"fmt"

	"hermannm.dev/timereport/ast"
)

// Argument coercion shared by the built-in handlers. Extension clause args
// arrive as raw expression nodes from the parser; handlers narrow them to the
// shapes they accept.

func stringArg(arg ast.Node) (string, error) {
	switch arg := arg.(type) {
	case *ast.Literal:
		if value, ok := arg.Value.(string); ok {
			return value, nil
		}
		return "", fmt.Errorf("expected string argument, got %v literal '%v'", arg.DataKind, arg.Value)
	case *ast.Identifier:
		return arg.Name, nil
	default:
		return "", fmt.Errorf("expected string argument, got %v", describeArg(arg))
	}
}

func numberArg(arg ast.Node) (float64, error) {
	literal, ok := arg.(*ast.Literal)
	if !ok {
		return 0, fmt.Errorf("expected number argument, got %v", describeArg(arg))
	}
	value, ok := literal.Value.(float64)
	if !ok || (literal.DataKind != ast.DataKindNumber && literal.DataKind != ast.DataKindPercentage) {
		return 0, fmt.Errorf("expected number argument, got %v literal '%v'", literal.DataKind, literal.Value)
	}
	return value, nil
}

// ratioArg accepts either a percentage literal (70% -> 0.7) or a plain number
// already expressed as a ratio (0.7 -> 0.7).
func ratioArg(arg ast.Node) (float64, error) {
	literal, ok := arg.(*ast.Literal)
	if !ok {
		return 0, fmt.Errorf("expected percentage argument, got %v", describeArg(arg))
	}
	value, ok := literal.Value.(float64)
	if !ok {
		return 0, fmt.Errorf("expected percentage argument, got literal '%v'", literal.Value)
	}

	if literal.DataKind == ast.DataKindPercentage {
		return value / 100, nil
	}
	return value, nil
}

func describeArg(arg ast.Node) string {
	if arg == nil {
		return "nothing"
	}
	return arg.NodeKind().String()
}
