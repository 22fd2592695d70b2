package ast

// Equal reports structural equality of two query trees. Expression kinds are
// compared deeply; clause kinds without explicit handling fall back to
// comparing node kind and children, which is shallow with respect to
// non-node fields of future clause types.
func Equal(a, b Node) bool {
	aNil := a == nil || isNilPointer(a)
	bNil := b == nil || isNilPointer(b)
	if aNil || bNil {
		return aNil == bNil
	}

	if a.NodeKind() != b.NodeKind() {
		return false
	}

	switch a := a.(type) {
	case *Literal:
		b := b.(*Literal)
		return a.Value == b.Value && a.DataKind == b.DataKind
	case *Identifier:
		b := b.(*Identifier)
		return a.Name == b.Name
	case *BinaryExpression:
		b := b.(*BinaryExpression)
		return a.Operator == b.Operator && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *CalculatedField:
		b := b.(*CalculatedField)
		return a.Operator == b.Operator && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *AggregationFunction:
		b := b.(*AggregationFunction)
		return a.Aggregation == b.Aggregation && Equal(a.Field, b.Field)
	case *InExpression:
		b := b.(*InExpression)
		return Equal(a.Field, b.Field) && Equal(a.Values, b.Values)
	case *NotInExpression:
		b := b.(*NotInExpression)
		return Equal(a.Field, b.Field) && Equal(a.Values, b.Values)
	case *LikeExpression:
		b := b.(*LikeExpression)
		return Equal(a.Field, b.Field) && Equal(a.Pattern, b.Pattern)
	case *IsNullExpression:
		b := b.(*IsNullExpression)
		return a.Negated == b.Negated && Equal(a.Field, b.Field)
	case *List:
		b := b.(*List)
		return equalNodeSlices(a.Items, b.Items)
	case *DateRange:
		b := b.(*DateRange)
		return Equal(a.From, b.From) && Equal(a.To, b.To)
	case *ViewClause:
		b := b.(*ViewClause)
		return a.Name == b.Name
	case *ChartClause:
		b := b.(*ChartClause)
		return a.Name == b.Name
	case *PeriodClause:
		b := b.(*PeriodClause)
		return a.Name == b.Name
	case *SizeClause:
		b := b.(*SizeClause)
		return a.Name == b.Name
	case *OrderByClause:
		b := b.(*OrderByClause)
		return a.Order == b.Order && Equal(a.Field, b.Field)
	case *LimitClause:
		b := b.(*LimitClause)
		return a.Count == b.Count
	case *ShowClause:
		b := b.(*ShowClause)
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Alias != b.Fields[i].Alias ||
				a.Fields[i].Format != b.Fields[i].Format ||
				!Equal(a.Fields[i].Field, b.Fields[i].Field) ||
				!Equal(a.Fields[i].Aggregation, b.Fields[i].Aggregation) {
				return false
			}
		}
		return true
	case *ExtensionClause:
		b := b.(*ExtensionClause)
		return a.Kind == b.Kind && equalNodeSlices(a.Args, b.Args)
	default:
		// Shallow fallback: same kind, structurally equal children.
		return equalNodeSlices(Children(a), Children(b))
	}
}

func equalNodeSlices(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
