// Package report executes query descriptors against time entries, producing
// the aggregated report data consumed by external renderers. Every step of
// execution is a pure function over immutable inputs: execution never fails,
// degrading to zero values when there is no data, and never returns NaN or
// Infinity from its ratio math.
package report

import (
	"time"

	"hermannm.dev/timereport/timesheet"
)

// ReportData is the full output of executing one query. Summary covers the
// filtered entry set; YearSummary and AllTimeSummary cover the current-year
// subset and the unfiltered set, computed regardless of filters so renderers
// can show context. Renderers must not assume fields beyond these.
type ReportData struct {
	Summary        Summary         `json:"summary"`
	YearSummary    Summary         `json:"yearSummary"`
	AllTimeSummary Summary         `json:"allTimeSummary"`
	MonthlyData    []MonthlyBucket `json:"monthlyData"`
	TrendData      TrendData       `json:"trendData"`
}

// Summary aggregates an entry set. All numbers are full precision; rounding
// for display is a renderer concern.
type Summary struct {
	TotalHours    float64 `json:"totalHours"`
	TotalInvoiced float64 `json:"totalInvoiced"`
	AverageRate   float64 `json:"averageRate"`
	EntryCount    int     `json:"entryCount"`
	// Utilization is TotalHours divided by the working-day-based target hours
	// of the covered months. 0 when the target is 0.
	Utilization float64 `json:"utilization"`
	// BudgetProgress is TotalHours against contracted hours for the covered
	// months; 0 when no contract clause was given.
	BudgetProgress float64  `json:"budgetProgress,omitempty"`
	Alerts         []string `json:"alerts,omitempty"`
}

// MonthlyBucket is one aggregation unit keyed by (year, month), plus the
// group value when the query groups by project or service.
type MonthlyBucket struct {
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	Group       string     `json:"group,omitempty"`
	Label       string     `json:"label"`
	Hours       float64    `json:"hours"`
	Invoiced    float64    `json:"invoiced"`
	AverageRate float64    `json:"averageRate"`
	Utilization float64    `json:"utilization"`
	// RolloverBalance is the running surplus (or deficit) of hours against
	// the contracted monthly pace, present only when the query enables
	// rollover.
	RolloverBalance float64 `json:"rolloverBalance,omitempty"`
	EntryCount      int     `json:"entryCount"`

	// entries backing this bucket, kept so summaries can be recomputed from
	// the buckets that survive bucket-level filtering.
	entries []timesheet.Entry
}

// TrendData is the time-ordered series for chart rendering, one point per
// monthly bucket, oldest first.
type TrendData struct {
	Labels      []string  `json:"labels"`
	Hours       []float64 `json:"hours"`
	Utilization []float64 `json:"utilization"`
	Invoiced    []float64 `json:"invoiced"`
	// ForecastFrom is the index of the first projected (forecast) point, or
	// -1 when the series contains no forecast.
	ForecastFrom int `json:"forecastFrom"`
}

func newTrendData() TrendData {
	return TrendData{
		Labels:       []string{},
		Hours:        []float64{},
		Utilization:  []float64{},
		Invoiced:     []float64{},
		ForecastFrom: -1,
	}
}
