package ast

import "fmt"

// ValidationResult collects every structural problem found in a query tree.
// Errors make the tree unusable for interpretation; warnings flag suspicious
// but workable shapes (such as an empty SHOW field list), so callers can
// choose to proceed on warnings alone.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (result *ValidationResult) AddError(format string, args ...any) {
	result.Valid = false
	result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
}

func (result *ValidationResult) AddWarning(format string, args ...any) {
	result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
}

// Merge folds another validation result into this one.
func (result *ValidationResult) Merge(other ValidationResult) {
	result.Valid = result.Valid && other.Valid
	result.Errors = append(result.Errors, other.Errors...)
	result.Warnings = append(result.Warnings, other.Warnings...)
}

// Validate checks the structural invariants of every node in the tree.
// It never panics: nil nodes and nodes with a missing or unrecognized kind
// discriminator are reported as errors describing the specific node. All
// problems are collected in one pass rather than failing fast.
func Validate(node Node) ValidationResult {
	result := ValidationResult{Valid: true}
	validateNode(node, &result)
	return result
}

func validateNode(node Node, result *ValidationResult) {
	if node == nil || isNilPointer(node) {
		result.AddError("encountered nil node in query tree")
		return
	}

	if !node.NodeKind().IsValid() {
		result.AddError("node of type %T is missing a valid node kind", node)
		return
	}

	switch node := node.(type) {
	case *Literal:
		if node.Value == nil {
			result.AddError("literal has no value")
		}
		if !node.DataKind.IsValid() {
			result.AddError("literal '%v' has unrecognized data kind", node.Value)
		}
	case *Identifier:
		if node.Name == "" {
			result.AddError("identifier has empty name")
		}
	case *BinaryExpression:
		if node.Left == nil || isNilPointer(node.Left) {
			result.AddError("binary expression is missing its left operand")
		}
		if node.Right == nil || isNilPointer(node.Right) {
			result.AddError("binary expression is missing its right operand")
		}
		if !node.Operator.IsValid() {
			result.AddError("binary expression has unrecognized operator")
		}
	case *CalculatedField:
		if node.Left == nil || isNilPointer(node.Left) {
			result.AddError("calculated field is missing its left operand")
		}
		if node.Right == nil || isNilPointer(node.Right) {
			result.AddError("calculated field is missing its right operand")
		}
		if !node.Operator.IsValid() {
			result.AddError("calculated field has unrecognized arithmetic operator")
		}
	case *AggregationFunction:
		if !node.Aggregation.IsValid() {
			result.AddError("aggregation function has unrecognized aggregation")
		}
		if node.Field == nil {
			result.AddError("aggregation function is missing its field")
		}
	case *InExpression:
		if node.Field == nil || isNilPointer(node.Field) {
			result.AddError("IN expression is missing its field")
		}
		if node.Values == nil || len(node.Values.Items) == 0 {
			result.AddError("IN expression has no values to match against")
		}
	case *NotInExpression:
		if node.Field == nil || isNilPointer(node.Field) {
			result.AddError("NOT IN expression is missing its field")
		}
		if node.Values == nil || len(node.Values.Items) == 0 {
			result.AddError("NOT IN expression has no values to match against")
		}
	case *LikeExpression:
		if node.Field == nil || isNilPointer(node.Field) {
			result.AddError("LIKE expression is missing its field")
		}
		if node.Pattern == nil {
			result.AddError("LIKE expression is missing its pattern")
		}
	case *IsNullExpression:
		if node.Field == nil || isNilPointer(node.Field) {
			result.AddError("IS NULL expression is missing its field")
		}
	case *List:
		if len(node.Items) == 0 {
			result.AddWarning("empty expression list")
		}
	case *DateRange:
		if node.From == nil {
			result.AddError("date range is missing its start date")
		}
		if node.To == nil {
			result.AddError("date range is missing its end date")
		}
	case *WhereClause:
		if len(node.Conditions) == 0 {
			result.AddWarning("WHERE clause has no conditions")
		}
	case *ShowClause:
		if len(node.Fields) == 0 {
			result.AddWarning("SHOW clause has no fields")
		}
		for _, field := range node.Fields {
			if field.Field == nil && field.Aggregation == nil {
				result.AddError("SHOW clause contains a field with no identifier")
			}
		}
	case *ViewClause:
		if node.Name == "" {
			result.AddError("VIEW clause has empty view name")
		}
	case *ChartClause:
		if node.Name == "" {
			result.AddError("CHART clause has empty chart name")
		}
	case *PeriodClause:
		if node.Name == "" {
			result.AddError("PERIOD clause has empty period name")
		}
	case *SizeClause:
		if node.Name == "" {
			result.AddError("SIZE clause has empty size name")
		}
	case *OrderByClause:
		if node.Field == nil {
			result.AddError("ORDER BY clause is missing its field")
		}
		if !node.Order.IsValid() {
			result.AddError("ORDER BY clause has unrecognized sort order")
		}
	case *GroupByClause:
		if len(node.Fields) == 0 {
			result.AddWarning("GROUP BY clause has no fields")
		}
	case *HavingClause:
		if node.Condition == nil || isNilPointer(node.Condition) {
			result.AddError("HAVING clause is missing its condition")
		}
	case *LimitClause:
		if node.Count < 0 {
			result.AddError("LIMIT clause has negative count %d", node.Count)
		}
	case *ExtensionClause:
		if node.Kind == "" {
			result.AddError("extension clause has empty clause kind")
		}
	case *Query:
		if len(node.Clauses) == 0 {
			result.AddWarning("query has no clauses")
		}
	}

	for _, child := range Children(node) {
		validateNode(child, result)
	}
}
