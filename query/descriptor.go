package query

import (
	"time"

	"hermannm.dev/timereport/ast"
	"hermannm.dev/timereport/clause"
)

// Descriptor is the flattened output of interpreting a query: every filter
// and display directive the executor needs, with clause structure stripped
// away. A descriptor is immutable once built; identical query text always
// interprets to a deep-equal descriptor, which is what makes caching of
// report data by query signature correct.
type Descriptor struct {
	// Filters from the WHERE clause.
	Year            *int             `json:"year,omitempty"`
	Month           *int             `json:"month,omitempty"`
	Months          []int            `json:"months,omitempty"`
	Project         string           `json:"project,omitempty"`
	ProjectOperator ast.Operator     `json:"projectOperator,omitempty"`
	Projects        []string         `json:"projects,omitempty"`
	Service         string           `json:"service,omitempty"`
	DateRange       *DateRangeFilter `json:"dateRange,omitempty"`
	RelativeDate    string           `json:"relativeDate,omitempty"`
	Numeric         []NumericFilter  `json:"numericFilters,omitempty"`

	// Filters from the HAVING clause, applied to aggregated monthly buckets
	// instead of individual entries.
	Having []NumericFilter `json:"havingFilters,omitempty"`

	// Display directives.
	Fields    []DisplayField `json:"fields,omitempty"`
	View      ViewKind       `json:"view"`
	Chart     ChartKind      `json:"chart,omitempty"`
	Period    PeriodKind     `json:"period"`
	Size      SizeKind       `json:"size"`
	SortField string         `json:"sortField,omitempty"`
	SortOrder ast.SortOrder  `json:"sortOrder,omitempty"`
	GroupBy   []string       `json:"groupBy,omitempty"`
	Limit     int            `json:"limit,omitempty"`

	// Extension clause configs, keyed by clause kind.
	Extensions Extensions `json:"extensions,omitempty"`
}

// DateRangeFilter is inclusive on both ends. A zero From or To leaves that
// end of the range open, which is how single-date inequalities like
// `date >= 2024-01-15` are represented.
type DateRangeFilter struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (dateRange DateRangeFilter) Contains(date time.Time) bool {
	if !dateRange.From.IsZero() && date.Before(dateRange.From) {
		return false
	}
	if !dateRange.To.IsZero() && date.After(dateRange.To) {
		return false
	}
	return true
}

// NumericFilter bounds a numeric entry field (hours or rate).
type NumericFilter struct {
	Field    string       `json:"field"`
	Operator ast.Operator `json:"operator"`
	Value    float64      `json:"value"`
}

func (filter NumericFilter) Matches(value float64) bool {
	switch filter.Operator {
	case ast.OperatorEqual:
		return value == filter.Value
	case ast.OperatorNotEqual:
		return value != filter.Value
	case ast.OperatorGreater:
		return value > filter.Value
	case ast.OperatorLess:
		return value < filter.Value
	case ast.OperatorGreaterOrEqual:
		return value >= filter.Value
	case ast.OperatorLessOrEqual:
		return value <= filter.Value
	default:
		return false
	}
}

// DisplayField is one field of the SHOW clause. Aggregation is 0 when the
// field is displayed without aggregation.
type DisplayField struct {
	Name        string          `json:"name"`
	Aggregation ast.Aggregation `json:"aggregation,omitempty"`
}

// Extensions is the open bag of extension clause configs. Typed accessors
// cover the built-in clause families; unknown kinds stay reachable by key.
type Extensions map[string]clause.Result

func (extensions Extensions) ServiceMix() (clause.ServiceMix, bool) {
	return extensionConfig[clause.ServiceMix](extensions)
}

func (extensions Extensions) Rollover() (clause.Rollover, bool) {
	return extensionConfig[clause.Rollover](extensions)
}

func (extensions Extensions) UtilizationThreshold() (clause.UtilizationThreshold, bool) {
	return extensionConfig[clause.UtilizationThreshold](extensions)
}

func (extensions Extensions) Contract() (clause.Contract, bool) {
	return extensionConfig[clause.Contract](extensions)
}

func (extensions Extensions) ValueFilter() (clause.ValueFilter, bool) {
	return extensionConfig[clause.ValueFilter](extensions)
}

func (extensions Extensions) Alert() (clause.Alert, bool) {
	return extensionConfig[clause.Alert](extensions)
}

func (extensions Extensions) Forecast() (clause.Forecast, bool) {
	return extensionConfig[clause.Forecast](extensions)
}

func extensionConfig[Config clause.Result](extensions Extensions) (Config, bool) {
	var zero Config
	result, found := extensions[zero.ClauseKind()]
	if !found {
		return zero, false
	}
	config, ok := result.(Config)
	return config, ok
}
