package clause

import "hermannm.dev/timereport/ast"

// ValueFilter restricts a report to monthly buckets whose invoiced amount
// falls inside the given bounds, e.g. `VALUE 1000, 5000`. Max 0 means no
// upper bound.
type ValueFilter struct {
	Min float64 `json:"min"`
	Max float64 `json:"max,omitempty"`
}

func (ValueFilter) ClauseKind() string { return "value" }

type ValueHandler struct{}

func (ValueHandler) Kind() string { return "value" }

func (ValueHandler) Validate(clause *ast.ExtensionClause) ast.ValidationResult {
	result := ast.ValidationResult{Valid: true}

	if len(clause.Args) == 0 || len(clause.Args) > 2 {
		result.AddError("VALUE clause requires one or two number arguments (min, optional max)")
		return result
	}
	for _, arg := range clause.Args {
		if _, err := numberArg(arg); err != nil {
			result.AddError("VALUE clause: %v", err)
		}
	}
	return result
}

func (ValueHandler) Interpret(clause *ast.ExtensionClause) (Result, error) {
	filter := ValueFilter{}

	min, err := numberArg(clause.Args[0])
	if err != nil {
		return nil, err
	}
	filter.Min = min

	if len(clause.Args) == 2 {
		max, err := numberArg(clause.Args[1])
		if err != nil {
			return nil, err
		}
		filter.Max = max
	}
	return filter, nil
}
