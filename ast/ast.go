// Package ast defines the node model for parsed report queries, along with
// utilities for traversing, validating, transforming and printing query trees.
//
// Every node is an immutable, acyclic tree value: nodes hold no back-references
// and no shared mutable state, so a parsed query can be walked and executed
// from multiple goroutines as long as each pipeline owns its own tree.
package ast

import "hermannm.dev/enumnames"

// Node is implemented by every query tree node. NodeKind is the discriminator
// used for generic dispatch; code switching on it must tolerate kinds it does
// not know about (see Visitor), so that new clause families can be added
// without breaking traversal.
type Node interface {
	NodeKind() Kind
}

type Kind uint8

const (
	KindLiteral Kind = iota + 1
	KindIdentifier
	KindBinaryExpression
	KindCalculatedField
	KindAggregationFunction
	KindInExpression
	KindNotInExpression
	KindLikeExpression
	KindIsNullExpression
	KindList
	KindDateRange
	KindWhereClause
	KindShowClause
	KindViewClause
	KindChartClause
	KindPeriodClause
	KindSizeClause
	KindOrderByClause
	KindGroupByClause
	KindHavingClause
	KindLimitClause
	KindExtensionClause
	KindQuery
)

var kindNames = enumnames.NewMap(map[Kind]string{
	KindLiteral:             "Literal",
	KindIdentifier:          "Identifier",
	KindBinaryExpression:    "BinaryExpression",
	KindCalculatedField:     "CalculatedField",
	KindAggregationFunction: "AggregationFunction",
	KindInExpression:        "InExpression",
	KindNotInExpression:     "NotInExpression",
	KindLikeExpression:      "LikeExpression",
	KindIsNullExpression:    "IsNullExpression",
	KindList:                "List",
	KindDateRange:           "DateRange",
	KindWhereClause:         "WhereClause",
	KindShowClause:          "ShowClause",
	KindViewClause:          "ViewClause",
	KindChartClause:         "ChartClause",
	KindPeriodClause:        "PeriodClause",
	KindSizeClause:          "SizeClause",
	KindOrderByClause:       "OrderByClause",
	KindGroupByClause:       "GroupByClause",
	KindHavingClause:        "HavingClause",
	KindLimitClause:         "LimitClause",
	KindExtensionClause:     "ExtensionClause",
	KindQuery:               "Query",
})

func (kind Kind) IsValid() bool {
	return kindNames.ContainsEnumValue(kind)
}

func (kind Kind) String() string {
	return kindNames.GetNameOrFallback(kind, "INVALID_NODE_KIND")
}

func (kind Kind) MarshalJSON() ([]byte, error) {
	return kindNames.MarshalToNameJSON(kind)
}

func (kind *Kind) UnmarshalJSON(bytes []byte) error {
	return kindNames.UnmarshalFromNameJSON(bytes, kind)
}

// Literal is a constant value with its declared data kind. Value holds a
// string for string/date/relative-date literals and a float64 for
// number/percentage literals.
type Literal struct {
	Value    any      `json:"value"`
	DataKind DataKind `json:"dataKind"`
}

// Identifier names a field of the time entry vocabulary (e.g. 'year',
// 'project', 'hours'), or a field claimed by an extension clause handler.
type Identifier struct {
	Name string `json:"name"`
}

// BinaryExpression is a single comparison, e.g. `year = 2024` or
// `date BETWEEN "2024-01-01" AND "2024-01-31"` (where Right is a DateRange).
type BinaryExpression struct {
	Left     Node     `json:"left"`
	Operator Operator `json:"operator"`
	Right    Node     `json:"right"`
}

// CalculatedField is an arithmetic combination of two expressions.
type CalculatedField struct {
	Left     Node               `json:"left"`
	Operator ArithmeticOperator `json:"operator"`
	Right    Node               `json:"right"`
}

// AggregationFunction applies an aggregation to a field, e.g. `sum(hours)`.
type AggregationFunction struct {
	Aggregation Aggregation `json:"aggregation"`
	Field       *Identifier `json:"field"`
}

// InExpression tests field membership in a literal list.
type InExpression struct {
	Field  Node  `json:"field"`
	Values *List `json:"values"`
}

// NotInExpression tests field non-membership in a literal list.
type NotInExpression struct {
	Field  Node  `json:"field"`
	Values *List `json:"values"`
}

// LikeExpression is a substring pattern predicate on a field.
type LikeExpression struct {
	Field   Node     `json:"field"`
	Pattern *Literal `json:"pattern"`
}

// IsNullExpression tests whether an optional field is absent.
type IsNullExpression struct {
	Field   Node `json:"field"`
	Negated bool `json:"negated"`
}

// List is an ordered sequence of expressions, as in the operand of IN.
type List struct {
	Items []Node `json:"items"`
}

// DateRange is an inclusive date interval, produced by BETWEEN.
type DateRange struct {
	From *Literal `json:"from"`
	To   *Literal `json:"to"`
}

// WhereClause holds the ordered filter conditions of a query. Conditions are
// always combined as AND: the parser accepts OR between conditions for
// compatibility with the original query surface, but OR has no distinct
// semantics (see parser docs).
type WhereClause struct {
	Conditions []Node `json:"conditions"`
}

// ShowField is one displayed field of a SHOW clause.
type ShowField struct {
	Field       *Identifier          `json:"field"`
	Alias       string               `json:"alias,omitempty"`
	Format      string               `json:"format,omitempty"`
	Aggregation *AggregationFunction `json:"aggregation,omitempty"`
}

// ShowClause lists the fields to display in the report.
type ShowClause struct {
	Fields []ShowField `json:"fields"`
}

// ViewClause selects the report presentation. The name is validated against
// the view vocabulary at interpretation time, not parse time.
type ViewClause struct {
	Name string `json:"name"`
}

type ChartClause struct {
	Name string `json:"name"`
}

type PeriodClause struct {
	Name string `json:"name"`
}

type SizeClause struct {
	Name string `json:"name"`
}

type OrderByClause struct {
	Field *Identifier `json:"field"`
	Order SortOrder   `json:"order"`
}

type GroupByClause struct {
	Fields []*Identifier `json:"fields"`
}

type HavingClause struct {
	Condition Node `json:"condition"`
}

type LimitClause struct {
	Count int `json:"count"`
}

// ExtensionClause is a clause kind not built into the core grammar, carrying
// its raw argument expressions. Validation and interpretation of extension
// clauses happen entirely through the clause handler registry.
type ExtensionClause struct {
	Kind string `json:"kind"`
	Args []Node `json:"args"`
}

// Query is the root node: an ordered list of clauses. Clause order is
// preserved, but clause kind determines its role; for single-valued clause
// kinds that appear more than once, the first occurrence wins.
type Query struct {
	Clauses []Node `json:"clauses"`
}

func (literal *Literal) NodeKind() Kind              { return KindLiteral }
func (identifier *Identifier) NodeKind() Kind        { return KindIdentifier }
func (expr *BinaryExpression) NodeKind() Kind        { return KindBinaryExpression }
func (field *CalculatedField) NodeKind() Kind        { return KindCalculatedField }
func (function *AggregationFunction) NodeKind() Kind { return KindAggregationFunction }
func (expr *InExpression) NodeKind() Kind            { return KindInExpression }
func (expr *NotInExpression) NodeKind() Kind         { return KindNotInExpression }
func (expr *LikeExpression) NodeKind() Kind          { return KindLikeExpression }
func (expr *IsNullExpression) NodeKind() Kind        { return KindIsNullExpression }
func (list *List) NodeKind() Kind                    { return KindList }
func (dateRange *DateRange) NodeKind() Kind          { return KindDateRange }
func (clause *WhereClause) NodeKind() Kind           { return KindWhereClause }
func (clause *ShowClause) NodeKind() Kind            { return KindShowClause }
func (clause *ViewClause) NodeKind() Kind            { return KindViewClause }
func (clause *ChartClause) NodeKind() Kind           { return KindChartClause }
func (clause *PeriodClause) NodeKind() Kind          { return KindPeriodClause }
func (clause *SizeClause) NodeKind() Kind            { return KindSizeClause }
func (clause *OrderByClause) NodeKind() Kind         { return KindOrderByClause }
func (clause *GroupByClause) NodeKind() Kind         { return KindGroupByClause }
func (clause *HavingClause) NodeKind() Kind          { return KindHavingClause }
func (clause *LimitClause) NodeKind() Kind           { return KindLimitClause }
func (clause *ExtensionClause) NodeKind() Kind       { return KindExtensionClause }
func (query *Query) NodeKind() Kind                  { return KindQuery }
