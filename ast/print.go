package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders an indented human-readable view of the tree, for diagnostics.
func Print(node Node) string {
	var builder strings.Builder
	printNode(node, 0, &builder)
	return builder.String()
}

func printNode(node Node, indent int, builder *strings.Builder) {
	writeIndent := func() {
		for i := 0; i < indent; i++ {
			builder.WriteString("  ")
		}
	}
	writeIndent()

	if node == nil || isNilPointer(node) {
		builder.WriteString("<nil>\n")
		return
	}

	builder.WriteString(node.NodeKind().String())

	switch node := node.(type) {
	case *Literal:
		fmt.Fprintf(builder, " %v (%v)", node.Value, node.DataKind)
	case *Identifier:
		fmt.Fprintf(builder, " %s", node.Name)
	case *BinaryExpression:
		fmt.Fprintf(builder, " %v", node.Operator)
	case *CalculatedField:
		fmt.Fprintf(builder, " %v", node.Operator)
	case *AggregationFunction:
		fmt.Fprintf(builder, " %v", node.Aggregation)
	case *ViewClause:
		fmt.Fprintf(builder, " %s", node.Name)
	case *ChartClause:
		fmt.Fprintf(builder, " %s", node.Name)
	case *PeriodClause:
		fmt.Fprintf(builder, " %s", node.Name)
	case *SizeClause:
		fmt.Fprintf(builder, " %s", node.Name)
	case *OrderByClause:
		fmt.Fprintf(builder, " %v", node.Order)
	case *LimitClause:
		fmt.Fprintf(builder, " %d", node.Count)
	case *ExtensionClause:
		fmt.Fprintf(builder, " %s", node.Kind)
	}
	builder.WriteString("\n")

	for _, child := range Children(node) {
		printNode(child, indent+1, builder)
	}
}

// Format renders a query tree back to canonical query text. Formatting a
// parsed query and reparsing the output yields a structurally equal tree.
func Format(query *Query) string {
	if query == nil {
		return ""
	}

	clauses := make([]string, 0, len(query.Clauses))
	for _, clause := range query.Clauses {
		if formatted := formatNode(clause); formatted != "" {
			clauses = append(clauses, formatted)
		}
	}
	return strings.Join(clauses, "\n")
}

func formatNode(node Node) string {
	if node == nil || isNilPointer(node) {
		return ""
	}

	switch node := node.(type) {
	case *Literal:
		return formatLiteral(node)
	case *Identifier:
		return node.Name
	case *BinaryExpression:
		if node.Operator == OperatorBetween {
			if dateRange, ok := node.Right.(*DateRange); ok {
				return fmt.Sprintf(
					"%s BETWEEN %s AND %s",
					formatNode(node.Left),
					formatLiteral(dateRange.From),
					formatLiteral(dateRange.To),
				)
			}
		}
		return fmt.Sprintf(
			"%s %v %s", formatNode(node.Left), node.Operator, formatNode(node.Right),
		)
	case *CalculatedField:
		return fmt.Sprintf(
			"%s %v %s", formatNode(node.Left), node.Operator, formatNode(node.Right),
		)
	case *AggregationFunction:
		return fmt.Sprintf("%v(%s)", node.Aggregation, formatNode(node.Field))
	case *InExpression:
		return fmt.Sprintf("%s IN (%s)", formatNode(node.Field), formatNodeList(node.Values))
	case *NotInExpression:
		return fmt.Sprintf("%s NOT IN (%s)", formatNode(node.Field), formatNodeList(node.Values))
	case *LikeExpression:
		return fmt.Sprintf("%s contains %s", formatNode(node.Field), formatLiteral(node.Pattern))
	case *IsNullExpression:
		if node.Negated {
			return fmt.Sprintf("%s IS NOT NULL", formatNode(node.Field))
		}
		return fmt.Sprintf("%s IS NULL", formatNode(node.Field))
	case *List:
		return formatNodeList(node)
	case *DateRange:
		return fmt.Sprintf("%s AND %s", formatLiteral(node.From), formatLiteral(node.To))
	case *WhereClause:
		conditions := make([]string, len(node.Conditions))
		for i, condition := range node.Conditions {
			conditions[i] = formatNode(condition)
		}
		return "WHERE " + strings.Join(conditions, " AND ")
	case *ShowClause:
		fields := make([]string, len(node.Fields))
		for i, field := range node.Fields {
			if field.Aggregation != nil {
				fields[i] = formatNode(field.Aggregation)
			} else {
				fields[i] = formatNode(field.Field)
			}
		}
		return "SHOW " + strings.Join(fields, ", ")
	case *ViewClause:
		return "VIEW " + node.Name
	case *ChartClause:
		return "CHART " + node.Name
	case *PeriodClause:
		return "PERIOD " + node.Name
	case *SizeClause:
		return "SIZE " + node.Name
	case *OrderByClause:
		return fmt.Sprintf("ORDER BY %s %v", formatNode(node.Field), node.Order)
	case *GroupByClause:
		fields := make([]string, len(node.Fields))
		for i, field := range node.Fields {
			fields[i] = formatNode(field)
		}
		return "GROUP BY " + strings.Join(fields, ", ")
	case *HavingClause:
		return "HAVING " + formatNode(node.Condition)
	case *LimitClause:
		return fmt.Sprintf("LIMIT %d", node.Count)
	case *ExtensionClause:
		args := make([]string, len(node.Args))
		for i, arg := range node.Args {
			args[i] = formatNode(arg)
		}
		return strings.ToUpper(node.Kind) + " " + strings.Join(args, ", ")
	case *Query:
		return Format(node)
	default:
		return ""
	}
}

func formatLiteral(literal *Literal) string {
	if literal == nil {
		return ""
	}

	switch literal.DataKind {
	case DataKindString, DataKindDate:
		return fmt.Sprintf("'%v'", literal.Value)
	case DataKindNumber:
		if number, ok := literal.Value.(float64); ok {
			return strconv.FormatFloat(number, 'f', -1, 64)
		}
		return fmt.Sprintf("%v", literal.Value)
	case DataKindPercentage:
		if number, ok := literal.Value.(float64); ok {
			return strconv.FormatFloat(number, 'f', -1, 64) + "%"
		}
		return fmt.Sprintf("%v%%", literal.Value)
	case DataKindRelativeDate:
		return fmt.Sprintf("%v", literal.Value)
	default:
		return fmt.Sprintf("%v", literal.Value)
	}
}

func formatNodeList(list *List) string {
	if list == nil {
		return ""
	}
	items := make([]string, len(list.Items))
	for i, item := range list.Items {
		items[i] = formatNode(item)
	}
	return strings.Join(items, ", ")
}
