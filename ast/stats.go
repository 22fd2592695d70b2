package ast

import "hermannm.dev/enumnames"

// Statistics summarizes the shape of a query tree, used to classify query
// complexity for diagnostics and report caching heuristics.
type Statistics struct {
	TotalNodes     int            `json:"totalNodes"`
	NodesByKind    map[string]int `json:"nodesByKind"`
	MaxDepth       int            `json:"maxDepth"`
	ClauseCount    int            `json:"clauseCount"`
	ConditionCount int            `json:"conditionCount"`
	FieldCount     int            `json:"fieldCount"`
	Complexity     Complexity     `json:"complexity"`
}

type Complexity uint8

const (
	ComplexitySimple Complexity = iota + 1
	ComplexityModerate
	ComplexityComplex
)

var complexityNames = enumnames.NewMap(map[Complexity]string{
	ComplexitySimple:   "simple",
	ComplexityModerate: "moderate",
	ComplexityComplex:  "complex",
})

func (complexity Complexity) IsValid() bool {
	return complexityNames.ContainsEnumValue(complexity)
}

func (complexity Complexity) String() string {
	return complexityNames.GetNameOrFallback(complexity, "INVALID_COMPLEXITY")
}

func (complexity Complexity) MarshalJSON() ([]byte, error) {
	return complexityNames.MarshalToNameJSON(complexity)
}

func (complexity *Complexity) UnmarshalJSON(bytes []byte) error {
	return complexityNames.UnmarshalFromNameJSON(bytes, complexity)
}

// Gather walks the tree once and computes its statistics.
func Gather(node Node) Statistics {
	stats := Statistics{NodesByKind: make(map[string]int)}

	var measureDepth func(node Node, depth int)
	measureDepth = func(node Node, depth int) {
		if node == nil || isNilPointer(node) {
			return
		}

		stats.TotalNodes++
		stats.NodesByKind[node.NodeKind().String()]++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}

		switch node := node.(type) {
		case *WhereClause:
			stats.ClauseCount++
			stats.ConditionCount += len(node.Conditions)
		case *ShowClause:
			stats.ClauseCount++
			stats.FieldCount += len(node.Fields)
		case *ViewClause, *ChartClause, *PeriodClause, *SizeClause,
			*OrderByClause, *GroupByClause, *HavingClause, *LimitClause,
			*ExtensionClause:
			stats.ClauseCount++
		}

		for _, child := range Children(node) {
			measureDepth(child, depth+1)
		}
	}
	measureDepth(node, 1)

	stats.Complexity = classifyComplexity(node, stats)
	return stats
}

func classifyComplexity(node Node, stats Statistics) Complexity {
	hasAdvancedClause := false
	Walk(node, func(node Node) bool {
		switch node.NodeKind() {
		case KindAggregationFunction, KindGroupByClause, KindHavingClause, KindExtensionClause:
			hasAdvancedClause = true
		}
		return true
	})

	switch {
	case hasAdvancedClause || stats.TotalNodes > 50:
		return ComplexityComplex
	case stats.ConditionCount > 3 || stats.TotalNodes > 20:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}
