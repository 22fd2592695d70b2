package clause

import "hermannm.dev/timereport/ast"

// UtilizationThreshold sets alerting bounds on utilization, e.g.
// `UTILIZATION 70%, 110%`. Reports flag months (and the overall summary)
// falling below Min or above Max. Max 0 means no upper bound.
type UtilizationThreshold struct {
	Min float64 `json:"min"`
	Max float64 `json:"max,omitempty"`
}

func (UtilizationThreshold) ClauseKind() string { return "utilization" }

type UtilizationHandler struct{}

func (UtilizationHandler) Kind() string { return "utilization" }

func (UtilizationHandler) Validate(clause *ast.ExtensionClause) ast.ValidationResult {
	result := ast.ValidationResult{Valid: true}

	if len(clause.Args) == 0 || len(clause.Args) > 2 {
		result.AddError(
			"UTILIZATION clause requires one or two percentage arguments (min, optional max)",
		)
		return result
	}
	for _, arg := range clause.Args {
		if _, err := ratioArg(arg); err != nil {
			result.AddError("UTILIZATION clause: %v", err)
		}
	}
	return result
}

func (UtilizationHandler) Interpret(clause *ast.ExtensionClause) (Result, error) {
	threshold := UtilizationThreshold{}

	min, err := ratioArg(clause.Args[0])
	if err != nil {
		return nil, err
	}
	threshold.Min = min

	if len(clause.Args) == 2 {
		max, err := ratioArg(clause.Args[1])
		if err != nil {
			return nil, err
		}
		threshold.Max = max
	}
	return threshold, nil
}
