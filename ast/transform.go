package ast

// Transform produces a rewritten copy of the tree: mapNode is applied to every
// node bottom-up, and parent nodes are rebuilt around their rewritten children.
// The input tree is never mutated. Returning the input node unchanged from
// mapNode keeps that subtree as-is (minus rewritten descendants). Node kinds
// without known child slots are passed through mapNode directly.
func Transform(node Node, mapNode func(Node) Node) Node {
	if node == nil || isNilPointer(node) {
		return nil
	}

	switch node := node.(type) {
	case *BinaryExpression:
		return mapNode(&BinaryExpression{
			Left:     Transform(node.Left, mapNode),
			Operator: node.Operator,
			Right:    Transform(node.Right, mapNode),
		})
	case *CalculatedField:
		return mapNode(&CalculatedField{
			Left:     Transform(node.Left, mapNode),
			Operator: node.Operator,
			Right:    Transform(node.Right, mapNode),
		})
	case *AggregationFunction:
		return mapNode(&AggregationFunction{
			Aggregation: node.Aggregation,
			Field:       transformIdentifier(node.Field, mapNode),
		})
	case *InExpression:
		return mapNode(&InExpression{
			Field:  Transform(node.Field, mapNode),
			Values: transformList(node.Values, mapNode),
		})
	case *NotInExpression:
		return mapNode(&NotInExpression{
			Field:  Transform(node.Field, mapNode),
			Values: transformList(node.Values, mapNode),
		})
	case *LikeExpression:
		return mapNode(&LikeExpression{
			Field:   Transform(node.Field, mapNode),
			Pattern: transformLiteral(node.Pattern, mapNode),
		})
	case *IsNullExpression:
		return mapNode(&IsNullExpression{
			Field:   Transform(node.Field, mapNode),
			Negated: node.Negated,
		})
	case *List:
		return mapNode(transformList(node, mapNode))
	case *DateRange:
		return mapNode(&DateRange{
			From: transformLiteral(node.From, mapNode),
			To:   transformLiteral(node.To, mapNode),
		})
	case *WhereClause:
		conditions := make([]Node, len(node.Conditions))
		for i, condition := range node.Conditions {
			conditions[i] = Transform(condition, mapNode)
		}
		return mapNode(&WhereClause{Conditions: conditions})
	case *ShowClause:
		fields := make([]ShowField, len(node.Fields))
		for i, field := range node.Fields {
			fields[i] = ShowField{
				Field:       transformIdentifier(field.Field, mapNode),
				Alias:       field.Alias,
				Format:      field.Format,
				Aggregation: transformAggregation(field.Aggregation, mapNode),
			}
		}
		return mapNode(&ShowClause{Fields: fields})
	case *OrderByClause:
		return mapNode(&OrderByClause{
			Field: transformIdentifier(node.Field, mapNode),
			Order: node.Order,
		})
	case *GroupByClause:
		fields := make([]*Identifier, len(node.Fields))
		for i, field := range node.Fields {
			fields[i] = transformIdentifier(field, mapNode)
		}
		return mapNode(&GroupByClause{Fields: fields})
	case *HavingClause:
		return mapNode(&HavingClause{Condition: Transform(node.Condition, mapNode)})
	case *ExtensionClause:
		args := make([]Node, len(node.Args))
		for i, arg := range node.Args {
			args[i] = Transform(arg, mapNode)
		}
		return mapNode(&ExtensionClause{Kind: node.Kind, Args: args})
	case *Query:
		clauses := make([]Node, len(node.Clauses))
		for i, clause := range node.Clauses {
			clauses[i] = Transform(clause, mapNode)
		}
		return mapNode(&Query{Clauses: clauses})
	default:
		return mapNode(node)
	}
}

func transformIdentifier(identifier *Identifier, mapNode func(Node) Node) *Identifier {
	if identifier == nil {
		return nil
	}
	if mapped, ok := mapNode(identifier).(*Identifier); ok {
		return mapped
	}
	return identifier
}

func transformLiteral(literal *Literal, mapNode func(Node) Node) *Literal {
	if literal == nil {
		return nil
	}
	if mapped, ok := mapNode(literal).(*Literal); ok {
		return mapped
	}
	return literal
}

func transformList(list *List, mapNode func(Node) Node) *List {
	if list == nil {
		return nil
	}
	items := make([]Node, len(list.Items))
	for i, item := range list.Items {
		items[i] = Transform(item, mapNode)
	}
	return &List{Items: items}
}

func transformAggregation(
	aggregation *AggregationFunction, mapNode func(Node) Node,
) *AggregationFunction {
	if aggregation == nil {
		return nil
	}
	if mapped, ok := Transform(aggregation, mapNode).(*AggregationFunction); ok {
		return mapped
	}
	return aggregation
}
