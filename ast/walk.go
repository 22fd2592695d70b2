package ast

// Children returns the direct child nodes of the given node, in source order.
// Nil children are omitted. Unknown node kinds have no known child slots and
// return nil, so traversal degrades gracefully for extension node types.
func Children(node Node) []Node {
	var children []Node
	appendChild := func(child Node) {
		if child != nil && !isNilPointer(child) {
			children = append(children, child)
		}
	}

	switch node := node.(type) {
	case *BinaryExpression:
		appendChild(node.Left)
		appendChild(node.Right)
	case *CalculatedField:
		appendChild(node.Left)
		appendChild(node.Right)
	case *AggregationFunction:
		if node.Field != nil {
			appendChild(node.Field)
		}
	case *InExpression:
		appendChild(node.Field)
		if node.Values != nil {
			appendChild(node.Values)
		}
	case *NotInExpression:
		appendChild(node.Field)
		if node.Values != nil {
			appendChild(node.Values)
		}
	case *LikeExpression:
		appendChild(node.Field)
		if node.Pattern != nil {
			appendChild(node.Pattern)
		}
	case *IsNullExpression:
		appendChild(node.Field)
	case *List:
		for _, item := range node.Items {
			appendChild(item)
		}
	case *DateRange:
		if node.From != nil {
			appendChild(node.From)
		}
		if node.To != nil {
			appendChild(node.To)
		}
	case *WhereClause:
		for _, condition := range node.Conditions {
			appendChild(condition)
		}
	case *ShowClause:
		for _, field := range node.Fields {
			if field.Aggregation != nil {
				appendChild(field.Aggregation)
			} else if field.Field != nil {
				appendChild(field.Field)
			}
		}
	case *OrderByClause:
		if node.Field != nil {
			appendChild(node.Field)
		}
	case *GroupByClause:
		for _, field := range node.Fields {
			if field != nil {
				appendChild(field)
			}
		}
	case *HavingClause:
		appendChild(node.Condition)
	case *ExtensionClause:
		for _, arg := range node.Args {
			appendChild(arg)
		}
	case *Query:
		for _, clause := range node.Clauses {
			appendChild(clause)
		}
	}

	return children
}

// Walk traverses the tree depth-first in pre-order, calling onNode for every
// node. Returning false from onNode stops descent into that node's children
// (but not the rest of the traversal).
func Walk(node Node, onNode func(Node) bool) {
	if node == nil || isNilPointer(node) {
		return
	}

	if !onNode(node) {
		return
	}

	for _, child := range Children(node) {
		Walk(child, onNode)
	}
}

// A typed nil pointer stored in a Node interface is not ==nil; traversal
// treats it as an absent child either way.
func isNilPointer(node Node) bool {
	switch node := node.(type) {
	case *Literal:
		return node == nil
	case *Identifier:
		return node == nil
	case *BinaryExpression:
		return node == nil
	case *CalculatedField:
		return node == nil
	case *AggregationFunction:
		return node == nil
	case *InExpression:
		return node == nil
	case *NotInExpression:
		return node == nil
	case *LikeExpression:
		return node == nil
	case *IsNullExpression:
		return node == nil
	case *List:
		return node == nil
	case *DateRange:
		return node == nil
	case *WhereClause:
		return node == nil
	case *ShowClause:
		return node == nil
	case *ViewClause:
		return node == nil
	case *ChartClause:
		return node == nil
	case *PeriodClause:
		return node == nil
	case *SizeClause:
		return node == nil
	case *OrderByClause:
		return node == nil
	case *GroupByClause:
		return node == nil
	case *HavingClause:
		return node == nil
	case *LimitClause:
		return node == nil
	case *ExtensionClause:
		return node == nil
	case *Query:
		return node == nil
	default:
		return false
	}
}
