package ast

// Visitor dispatches over node kinds. Only the callbacks relevant to a given
// traversal need to be set; nodes without a matching callback (including node
// kinds added in the future) fall through to Default, or to a neutral nil
// result when Default is also unset. Traversal must never crash on a node
// kind it does not recognize.
type Visitor struct {
	Literal             func(*Literal) any
	Identifier          func(*Identifier) any
	BinaryExpression    func(*BinaryExpression) any
	CalculatedField     func(*CalculatedField) any
	AggregationFunction func(*AggregationFunction) any
	InExpression        func(*InExpression) any
	NotInExpression     func(*NotInExpression) any
	LikeExpression      func(*LikeExpression) any
	IsNullExpression    func(*IsNullExpression) any
	List                func(*List) any
	DateRange           func(*DateRange) any
	WhereClause         func(*WhereClause) any
	ShowClause          func(*ShowClause) any
	ViewClause          func(*ViewClause) any
	ChartClause         func(*ChartClause) any
	PeriodClause        func(*PeriodClause) any
	SizeClause          func(*SizeClause) any
	OrderByClause       func(*OrderByClause) any
	GroupByClause       func(*GroupByClause) any
	HavingClause        func(*HavingClause) any
	LimitClause         func(*LimitClause) any
	ExtensionClause     func(*ExtensionClause) any
	Query               func(*Query) any
	Default             func(Node) any
}

// Visit dispatches the node to the matching visitor callback.
func (visitor Visitor) Visit(node Node) any {
	if node == nil {
		return visitor.visitDefault(node)
	}

	switch node := node.(type) {
	case *Literal:
		if visitor.Literal != nil {
			return visitor.Literal(node)
		}
	case *Identifier:
		if visitor.Identifier != nil {
			return visitor.Identifier(node)
		}
	case *BinaryExpression:
		if visitor.BinaryExpression != nil {
			return visitor.BinaryExpression(node)
		}
	case *CalculatedField:
		if visitor.CalculatedField != nil {
			return visitor.CalculatedField(node)
		}
	case *AggregationFunction:
		if visitor.AggregationFunction != nil {
			return visitor.AggregationFunction(node)
		}
	case *InExpression:
		if visitor.InExpression != nil {
			return visitor.InExpression(node)
		}
	case *NotInExpression:
		if visitor.NotInExpression != nil {
			return visitor.NotInExpression(node)
		}
	case *LikeExpression:
		if visitor.LikeExpression != nil {
			return visitor.LikeExpression(node)
		}
	case *IsNullExpression:
		if visitor.IsNullExpression != nil {
			return visitor.IsNullExpression(node)
		}
	case *List:
		if visitor.List != nil {
			return visitor.List(node)
		}
	case *DateRange:
		if visitor.DateRange != nil {
			return visitor.DateRange(node)
		}
	case *WhereClause:
		if visitor.WhereClause != nil {
			return visitor.WhereClause(node)
		}
	case *ShowClause:
		if visitor.ShowClause != nil {
			return visitor.ShowClause(node)
		}
	case *ViewClause:
		if visitor.ViewClause != nil {
			return visitor.ViewClause(node)
		}
	case *ChartClause:
		if visitor.ChartClause != nil {
			return visitor.ChartClause(node)
		}
	case *PeriodClause:
		if visitor.PeriodClause != nil {
			return visitor.PeriodClause(node)
		}
	case *SizeClause:
		if visitor.SizeClause != nil {
			return visitor.SizeClause(node)
		}
	case *OrderByClause:
		if visitor.OrderByClause != nil {
			return visitor.OrderByClause(node)
		}
	case *GroupByClause:
		if visitor.GroupByClause != nil {
			return visitor.GroupByClause(node)
		}
	case *HavingClause:
		if visitor.HavingClause != nil {
			return visitor.HavingClause(node)
		}
	case *LimitClause:
		if visitor.LimitClause != nil {
			return visitor.LimitClause(node)
		}
	case *ExtensionClause:
		if visitor.ExtensionClause != nil {
			return visitor.ExtensionClause(node)
		}
	case *Query:
		if visitor.Query != nil {
			return visitor.Query(node)
		}
	}

	return visitor.visitDefault(node)
}

func (visitor Visitor) visitDefault(node Node) any {
	if visitor.Default != nil {
		return visitor.Default(node)
	}
	return nil
}
