package clause

import "hermannm.dev/timereport/ast"

// Alert requests named alert flags to be evaluated on the report, e.g.
// `ALERT 'no-entries', 'budget-overrun'`.
type Alert struct {
	Flags []string `json:"flags"`
}

func (Alert) ClauseKind() string { return "alert" }

type AlertHandler struct{}

func (AlertHandler) Kind() string { return "alert" }

func (AlertHandler) Validate(clause *ast.ExtensionClause) ast.ValidationResult {
	result := ast.ValidationResult{Valid: true}

	if len(clause.Args) == 0 {
		result.AddError("ALERT clause requires at least one alert flag")
		return result
	}
	for _, arg := range clause.Args {
		if _, err := stringArg(arg); err != nil {
			result.AddError("ALERT clause: %v", err)
		}
	}
	return result
}

func (AlertHandler) Interpret(clause *ast.ExtensionClause) (Result, error) {
	flags := make([]string, 0, len(clause.Args))
	for _, arg := range clause.Args {
		flag, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	return Alert{Flags: flags}, nil
}
