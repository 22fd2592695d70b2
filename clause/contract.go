package clause

import (
	"time"

	"github.com/araddon/dateparse"
	"hermannm.dev/timereport/ast"
	"hermannm.dev/wrap"
)

// Contract declares the contracted monthly hours (and optionally the contract
// renewal date), e.g. `CONTRACT 120, '2025-01-01'`. The executor uses it for
// budget progress and as the pace that rollover measures against.
type Contract struct {
	MonthlyHours float64   `json:"monthlyHours"`
	RenewalDate  time.Time `json:"renewalDate,omitempty"`
}

func (Contract) ClauseKind() string { return "contract" }

type ContractHandler struct{}

func (ContractHandler) Kind() string { return "contract" }

func (ContractHandler) Validate(clause *ast.ExtensionClause) ast.ValidationResult {
	result := ast.ValidationResult{Valid: true}

	if len(clause.Args) == 0 || len(clause.Args) > 2 {
		result.AddError(
			"CONTRACT clause requires monthly hours and an optional renewal date",
		)
		return result
	}
	if _, err := numberArg(clause.Args[0]); err != nil {
		result.AddError("CONTRACT clause: %v", err)
	}
	if len(clause.Args) == 2 {
		date, err := stringArg(clause.Args[1])
		if err != nil {
			result.AddError("CONTRACT clause: %v", err)
		} else if _, err := dateparse.ParseAny(date); err != nil {
			result.AddError("CONTRACT clause: unparseable renewal date '%s'", date)
		}
	}
	return result
}

func (ContractHandler) Interpret(clause *ast.ExtensionClause) (Result, error) {
	contract := Contract{}

	monthlyHours, err := numberArg(clause.Args[0])
	if err != nil {
		return nil, err
	}
	contract.MonthlyHours = monthlyHours

	if len(clause.Args) == 2 {
		date, err := stringArg(clause.Args[1])
		if err != nil {
			return nil, err
		}
		renewalDate, err := dateparse.ParseAny(date)
		if err != nil {
			return nil, wrap.Errorf(err, "failed to parse contract renewal date '%s'", date)
		}
		contract.RenewalDate = renewalDate
	}
	return contract, nil
}
