package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"hermannm.dev/timereport/ast"
	"hermannm.dev/timereport/clause"
	"hermannm.dev/wrap"
)

// InterpreterError signals that a syntactically valid query references a
// field or keyword outside the accepted vocabulary.
type InterpreterError struct {
	Message string `json:"message"`
	Clause  string `json:"clause,omitempty"`
	Field   string `json:"field,omitempty"`
}

func (err *InterpreterError) Error() string {
	if err.Clause != "" {
		return fmt.Sprintf("invalid %s clause: %s", err.Clause, err.Message)
	}
	return err.Message
}

// EntryFields is the vocabulary of time entry fields accepted in WHERE and
// SHOW clauses.
var EntryFields = []string{"year", "month", "project", "service", "date", "hours", "rate", "notes"}

// Interpreter turns validated query trees into flat descriptors. It holds
// only the clause handler registry and is safe for concurrent use.
type Interpreter struct {
	registry *clause.Registry
}

func NewInterpreter(registry *clause.Registry) *Interpreter {
	return &Interpreter{registry: registry}
}

// Interpret validates the query tree, walks its clauses in order and builds
// the descriptor. Validation errors and semantic errors abort before any
// execution can happen; validation warnings do not.
//
// Multiple occurrences of a single-valued clause kind are permitted by the
// grammar; the first occurrence wins and later ones are ignored.
func (interpreter *Interpreter) Interpret(query *ast.Query) (*Descriptor, error) {
	if query == nil {
		return nil, errors.New("cannot interpret nil query")
	}

	if validation := interpreter.validate(query); !validation.Valid {
		validationErrs := make([]error, len(validation.Errors))
		for i, message := range validation.Errors {
			validationErrs[i] = errors.New(message)
		}
		return nil, wrap.Errors("invalid query", validationErrs...)
	}

	descriptor := &Descriptor{
		View:       ViewSummary,
		Period:     PeriodCurrentYear,
		Size:       SizeNormal,
		Extensions: make(Extensions),
	}

	seen := make(map[ast.Kind]bool)
	for _, clauseNode := range query.Clauses {
		kind := clauseNode.NodeKind()
		if kind != ast.KindExtensionClause && seen[kind] {
			continue
		}
		seen[kind] = true

		if err := interpreter.interpretClause(clauseNode, descriptor); err != nil {
			return nil, err
		}
	}

	return descriptor, nil
}

// validate combines structural validation with the registered handlers'
// per-clause validation of extension clauses.
func (interpreter *Interpreter) validate(query *ast.Query) ast.ValidationResult {
	result := ast.Validate(query)

	for _, clauseNode := range query.Clauses {
		extension, isExtension := clauseNode.(*ast.ExtensionClause)
		if !isExtension {
			continue
		}
		if handler, found := interpreter.registry.HandlerFor(extension.Kind); found {
			result.Merge(handler.Validate(extension))
		}
	}

	return result
}

func (interpreter *Interpreter) interpretClause(
	clauseNode ast.Node, descriptor *Descriptor,
) error {
	switch clauseNode := clauseNode.(type) {
	case *ast.WhereClause:
		for _, condition := range clauseNode.Conditions {
			if err := interpretCondition(condition, descriptor); err != nil {
				return err
			}
		}
	case *ast.ShowClause:
		for _, field := range clauseNode.Fields {
			displayField, err := interpretShowField(field)
			if err != nil {
				return err
			}
			descriptor.Fields = append(descriptor.Fields, displayField)
		}
	case *ast.ViewClause:
		viewKind, found := ViewKindFromName(clauseNode.Name)
		if !found {
			return unknownKeywordError("VIEW", clauseNode.Name, []string{"summary", "chart", "table", "full"})
		}
		descriptor.View = viewKind
	case *ast.ChartClause:
		chartKind, found := ChartKindFromName(clauseNode.Name)
		if !found {
			return unknownKeywordError("CHART", clauseNode.Name, []string{"trend", "monthly", "budget"})
		}
		descriptor.Chart = chartKind
	case *ast.PeriodClause:
		periodKind, found := PeriodKindFromName(clauseNode.Name)
		if !found {
			return unknownKeywordError("PERIOD", clauseNode.Name,
				[]string{"current-year", "all-time", "last-6-months", "last-12-months"})
		}
		descriptor.Period = periodKind
	case *ast.SizeClause:
		sizeKind, found := SizeKindFromName(clauseNode.Name)
		if !found {
			return unknownKeywordError("SIZE", clauseNode.Name, []string{"compact", "normal", "detailed"})
		}
		descriptor.Size = sizeKind
	case *ast.OrderByClause:
		if !isEntryField(clauseNode.Field.Name) {
			return unknownFieldError("ORDER BY", clauseNode.Field.Name)
		}
		descriptor.SortField = strings.ToLower(clauseNode.Field.Name)
		descriptor.SortOrder = clauseNode.Order
	case *ast.GroupByClause:
		for _, field := range clauseNode.Fields {
			if !isEntryField(field.Name) {
				return unknownFieldError("GROUP BY", field.Name)
			}
			descriptor.GroupBy = append(descriptor.GroupBy, strings.ToLower(field.Name))
		}
	case *ast.HavingClause:
		if err := interpretHavingCondition(clauseNode.Condition, descriptor); err != nil {
			return err
		}
	case *ast.LimitClause:
		descriptor.Limit = clauseNode.Count
	case *ast.ExtensionClause:
		return interpreter.interpretExtension(clauseNode, descriptor)
	default:
		// Unknown clause kinds are tolerated rather than fatal, preserving
		// forward compatibility with new node kinds.
		return nil
	}

	return nil
}

func (interpreter *Interpreter) interpretExtension(
	extension *ast.ExtensionClause, descriptor *Descriptor,
) error {
	handler, found := interpreter.registry.HandlerFor(extension.Kind)
	if !found {
		return &InterpreterError{
			Message: fmt.Sprintf("no handler registered for clause kind '%s'", extension.Kind),
			Clause:  extension.Kind,
		}
	}

	// First occurrence wins for repeated extension clauses of the same kind.
	if _, alreadySet := descriptor.Extensions[extension.Kind]; alreadySet {
		return nil
	}

	result, err := handler.Interpret(extension)
	if err != nil {
		return wrap.Errorf(err, "failed to interpret '%s' clause", extension.Kind)
	}
	descriptor.Extensions[extension.Kind] = result
	return nil
}

func interpretCondition(condition ast.Node, descriptor *Descriptor) error {
	switch condition := condition.(type) {
	case *ast.BinaryExpression:
		return interpretComparison(condition, descriptor)
	case *ast.InExpression:
		return interpretInExpression(condition, descriptor)
	case *ast.LikeExpression:
		field, err := conditionField(condition.Field)
		if err != nil {
			return err
		}
		if field != "project" {
			return unknownFieldError("WHERE", field)
		}
		pattern, _ := condition.Pattern.Value.(string)
		descriptor.Project = pattern
		descriptor.ProjectOperator = ast.OperatorContains
		return nil
	default:
		return &InterpreterError{
			Message: fmt.Sprintf("unsupported condition of kind %v", condition.NodeKind()),
			Clause:  "WHERE",
		}
	}
}

func interpretComparison(comparison *ast.BinaryExpression, descriptor *Descriptor) error {
	field, err := conditionField(comparison.Left)
	if err != nil {
		return err
	}

	switch field {
	case "year":
		year, err := wholeNumberOperand(comparison, field)
		if err != nil {
			return err
		}
		descriptor.Year = &year
	case "month":
		month, err := wholeNumberOperand(comparison, field)
		if err != nil {
			return err
		}
		if month < 1 || month > 12 {
			return &InterpreterError{
				Message: fmt.Sprintf("month must be between 1 and 12, got %d", month),
				Clause:  "WHERE",
				Field:   field,
			}
		}
		descriptor.Month = &month
	case "project":
		project, err := stringOperand(comparison, field)
		if err != nil {
			return err
		}
		descriptor.Project = project
		descriptor.ProjectOperator = comparison.Operator
	case "service":
		service, err := stringOperand(comparison, field)
		if err != nil {
			return err
		}
		descriptor.Service = service
	case "date":
		return interpretDateCondition(comparison, descriptor)
	case "hours", "rate":
		literal, ok := comparison.Right.(*ast.Literal)
		if !ok {
			return operandError(field, "number")
		}
		value, ok := literal.Value.(float64)
		if !ok {
			return operandError(field, "number")
		}
		descriptor.Numeric = append(descriptor.Numeric, NumericFilter{
			Field:    field,
			Operator: comparison.Operator,
			Value:    value,
		})
	default:
		return unknownFieldError("WHERE", field)
	}

	return nil
}

func interpretDateCondition(comparison *ast.BinaryExpression, descriptor *Descriptor) error {
	if comparison.Operator == ast.OperatorBetween {
		dateRange, ok := comparison.Right.(*ast.DateRange)
		if !ok {
			return operandError("date", "date range")
		}

		from, err := dateOperand(dateRange.From)
		if err != nil {
			return err
		}
		to, err := dateOperand(dateRange.To)
		if err != nil {
			return err
		}
		descriptor.DateRange = &DateRangeFilter{From: from, To: to}
		return nil
	}

	if literal, ok := comparison.Right.(*ast.Literal); ok {
		switch literal.DataKind {
		case ast.DataKindRelativeDate:
			// Resolved against the evaluation clock by the executor, so that
			// interpretation stays deterministic.
			descriptor.RelativeDate, _ = literal.Value.(string)
			return nil
		case ast.DataKindDate, ast.DataKindString:
			date, err := dateOperand(literal)
			if err != nil {
				return err
			}
			dateRange, err := dateRangeForOperator(comparison.Operator, date)
			if err != nil {
				return err
			}
			descriptor.DateRange = dateRange
			return nil
		}
	}

	return operandError("date", "date literal or relative date")
}

// dateRangeForOperator turns a single-date comparison into an inclusive
// range. Date filters are day-granular, so the strict operators shift the
// bound by one day and leave the other end open.
func dateRangeForOperator(operator ast.Operator, date time.Time) (*DateRangeFilter, error) {
	switch operator {
	case ast.OperatorEqual:
		return &DateRangeFilter{From: date, To: date}, nil
	case ast.OperatorGreater:
		return &DateRangeFilter{From: date.AddDate(0, 0, 1)}, nil
	case ast.OperatorGreaterOrEqual:
		return &DateRangeFilter{From: date}, nil
	case ast.OperatorLess:
		return &DateRangeFilter{To: date.AddDate(0, 0, -1)}, nil
	case ast.OperatorLessOrEqual:
		return &DateRangeFilter{To: date}, nil
	default:
		return nil, &InterpreterError{
			Message: fmt.Sprintf("operator '%s' is not supported for date comparisons", operator),
			Clause:  "WHERE",
			Field:   "date",
		}
	}
}

func interpretInExpression(expr *ast.InExpression, descriptor *Descriptor) error {
	field, err := conditionField(expr.Field)
	if err != nil {
		return err
	}

	switch field {
	case "project":
		for _, item := range expr.Values.Items {
			project, ok := stringValue(item)
			if !ok {
				return operandError(field, "string list")
			}
			descriptor.Projects = append(descriptor.Projects, project)
		}
	case "month":
		for _, item := range expr.Values.Items {
			literal, ok := item.(*ast.Literal)
			if !ok {
				return operandError(field, "number list")
			}
			month, ok := literal.Value.(float64)
			if !ok || month != float64(int(month)) || month < 1 || month > 12 {
				return operandError(field, "month number list")
			}
			descriptor.Months = append(descriptor.Months, int(month))
		}
	default:
		return &InterpreterError{
			Message: fmt.Sprintf("IN is not supported for field '%s'", field),
			Clause:  "WHERE",
			Field:   field,
		}
	}

	return nil
}

// interpretHavingCondition builds a bucket-level filter. Unlike WHERE
// conditions, HAVING comparisons apply to aggregated monthly totals, so only
// the aggregated numeric fields are accepted.
func interpretHavingCondition(condition ast.Node, descriptor *Descriptor) error {
	comparison, ok := condition.(*ast.BinaryExpression)
	if !ok {
		return &InterpreterError{
			Message: "HAVING requires a comparison like 'hours > 10'",
			Clause:  "HAVING",
		}
	}

	field, err := conditionField(comparison.Left)
	if err != nil {
		return err
	}
	switch field {
	case "hours", "rate", "invoiced":
	default:
		return &InterpreterError{
			Message: fmt.Sprintf(
				"HAVING only supports the aggregated fields hours, rate and invoiced, got '%s'",
				field,
			),
			Clause: "HAVING",
			Field:  field,
		}
	}

	numberError := &InterpreterError{
		Message: fmt.Sprintf("field '%s' requires a number operand", field),
		Clause:  "HAVING",
		Field:   field,
	}
	literal, ok := comparison.Right.(*ast.Literal)
	if !ok {
		return numberError
	}
	value, ok := literal.Value.(float64)
	if !ok {
		return numberError
	}

	descriptor.Having = append(descriptor.Having, NumericFilter{
		Field:    field,
		Operator: comparison.Operator,
		Value:    value,
	})
	return nil
}

func interpretShowField(field ast.ShowField) (DisplayField, error) {
	if field.Aggregation != nil {
		name := strings.ToLower(field.Aggregation.Field.Name)
		if !isEntryField(name) {
			return DisplayField{}, unknownFieldError("SHOW", field.Aggregation.Field.Name)
		}
		return DisplayField{Name: name, Aggregation: field.Aggregation.Aggregation}, nil
	}

	name := strings.ToLower(field.Field.Name)
	if !isEntryField(name) {
		return DisplayField{}, unknownFieldError("SHOW", field.Field.Name)
	}
	return DisplayField{Name: name}, nil
}

func isEntryField(name string) bool {
	name = strings.ToLower(name)
	for _, field := range EntryFields {
		if field == name {
			return true
		}
	}
	return false
}

func conditionField(node ast.Node) (string, error) {
	identifier, ok := node.(*ast.Identifier)
	if !ok {
		return "", &InterpreterError{
			Message: "condition must start with a field name",
			Clause:  "WHERE",
		}
	}
	return strings.ToLower(identifier.Name), nil
}

func wholeNumberOperand(comparison *ast.BinaryExpression, field string) (int, error) {
	if comparison.Operator != ast.OperatorEqual {
		return 0, &InterpreterError{
			Message: fmt.Sprintf("field '%s' only supports exact match with '='", field),
			Clause:  "WHERE",
			Field:   field,
		}
	}

	literal, ok := comparison.Right.(*ast.Literal)
	if !ok {
		return 0, operandError(field, "number")
	}
	number, ok := literal.Value.(float64)
	if !ok || number != float64(int(number)) {
		return 0, operandError(field, "whole number")
	}
	return int(number), nil
}

// stringOperand accepts both quoted strings and bare words, so project=acme
// works without quotes.
func stringOperand(comparison *ast.BinaryExpression, field string) (string, error) {
	value, ok := stringValue(comparison.Right)
	if !ok {
		return "", operandError(field, "string")
	}
	return value, nil
}

func stringValue(node ast.Node) (string, bool) {
	switch node := node.(type) {
	case *ast.Literal:
		value, ok := node.Value.(string)
		return value, ok
	case *ast.Identifier:
		return node.Name, true
	}
	return "", false
}

func dateOperand(literal *ast.Literal) (time.Time, error) {
	text, ok := literal.Value.(string)
	if !ok {
		return time.Time{}, operandError("date", "date literal")
	}

	date, err := dateparse.ParseAny(text)
	if err != nil {
		return time.Time{}, &InterpreterError{
			Message: fmt.Sprintf("unparseable date '%s'", text),
			Clause:  "WHERE",
			Field:   "date",
		}
	}
	return date, nil
}

func operandError(field string, expected string) error {
	return &InterpreterError{
		Message: fmt.Sprintf("field '%s' requires a %s operand", field, expected),
		Clause:  "WHERE",
		Field:   field,
	}
}

func unknownFieldError(clauseName string, field string) error {
	return &InterpreterError{
		Message: fmt.Sprintf(
			"unknown field '%s' (known fields: %s)", field, strings.Join(EntryFields, ", "),
		),
		Clause: clauseName,
		Field:  field,
	}
}

func unknownKeywordError(clauseName string, keyword string, valid []string) error {
	return &InterpreterError{
		Message: fmt.Sprintf(
			"unknown %s keyword '%s' (must be one of: %s)",
			strings.ToLower(clauseName),
			keyword,
			strings.Join(valid, ", "),
		),
		Clause: clauseName,
	}
}
