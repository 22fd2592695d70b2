package clause

import "hermannm.dev/timereport/ast"

// ServiceMix restricts a report to entries belonging to the listed service
// categories, e.g. `SERVICES 'consulting', 'development'`.
type ServiceMix struct {
	Services []string `json:"services"`
}

func (ServiceMix) ClauseKind() string { return "services" }

type ServiceMixHandler struct{}

func (ServiceMixHandler) Kind() string { return "services" }

func (ServiceMixHandler) Validate(clause *ast.ExtensionClause) ast.ValidationResult {
	result := ast.ValidationResult{Valid: true}

	if len(clause.Args) == 0 {
		result.AddError("SERVICES clause requires at least one service category")
		return result
	}
	for _, arg := range clause.Args {
		if _, err := stringArg(arg); err != nil {
			result.AddError("SERVICES clause: %v", err)
		}
	}
	return result
}

func (ServiceMixHandler) Interpret(clause *ast.ExtensionClause) (Result, error) {
	services := make([]string, 0, len(clause.Args))
	for _, arg := range clause.Args {
		service, err := stringArg(arg)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return ServiceMix{Services: services}, nil
}
