package clause

import "hermannm.dev/timereport/ast"

// Forecast appends projected data points to the report's trend series, e.g.
// `FORECAST 3` projects three months past the last bucket.
type Forecast struct {
	Months int `json:"months"`
}

func (Forecast) ClauseKind() string { return "forecast" }

type ForecastHandler struct{}

func (ForecastHandler) Kind() string { return "forecast" }

func (ForecastHandler) Validate(clause *ast.ExtensionClause) ast.ValidationResult {
	result := ast.ValidationResult{Valid: true}

	if len(clause.Args) != 1 {
		result.AddError("FORECAST clause requires exactly one argument (months to project)")
		return result
	}

	months, err := numberArg(clause.Args[0])
	if err != nil {
		result.AddError("FORECAST clause: %v", err)
	} else if months < 1 || months != float64(int(months)) {
		result.AddError("FORECAST clause: months must be a positive whole number, got %v", months)
	}
	return result
}

func (ForecastHandler) Interpret(clause *ast.ExtensionClause) (Result, error) {
	months, err := numberArg(clause.Args[0])
	if err != nil {
		return nil, err
	}
	return Forecast{Months: int(months)}, nil
}
