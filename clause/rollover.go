package clause

import "hermannm.dev/timereport/ast"

// Rollover carries surplus or deficit hours between monthly buckets, measured
// against the contracted monthly pace. `ROLLOVER` enables unbounded carrying;
// `ROLLOVER 10` caps the carried surplus at 10 hours per month.
type Rollover struct {
	Enabled  bool    `json:"enabled"`
	MaxHours float64 `json:"maxHours,omitempty"`
}

func (Rollover) ClauseKind() string { return "rollover" }

type RolloverHandler struct{}

func (RolloverHandler) Kind() string { return "rollover" }

func (RolloverHandler) Validate(clause *ast.ExtensionClause) ast.ValidationResult {
	result := ast.ValidationResult{Valid: true}

	if len(clause.Args) > 1 {
		result.AddError("ROLLOVER clause takes at most one argument (max carried hours)")
		return result
	}
	if len(clause.Args) == 1 {
		if _, err := numberArg(clause.Args[0]); err != nil {
			result.AddError("ROLLOVER clause: %v", err)
		}
	}
	return result
}

func (RolloverHandler) Interpret(clause *ast.ExtensionClause) (Result, error) {
	rollover := Rollover{Enabled: true}

	if len(clause.Args) == 1 {
		maxHours, err := numberArg(clause.Args[0])
		if err != nil {
			return nil, err
		}
		rollover.MaxHours = maxHours
	}
	return rollover, nil
}
