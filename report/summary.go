package report

import (
	"fmt"
	"time"

	"hermannm.dev/timereport/query"
	"hermannm.dev/timereport/timesheet"
)

// summarize aggregates entry totals and derives utilization against the
// working-day target for the months the entries cover. Empty input yields a
// zero summary.
func (executor Executor) summarize(
	descriptor *query.Descriptor, entries []timesheet.Entry,
) Summary {
	var summary Summary
	for _, entry := range entries {
		summary.TotalHours += entry.Hours
		summary.TotalInvoiced += entry.Invoiced()
		summary.EntryCount++
	}
	if summary.TotalHours > 0 {
		summary.AverageRate = summary.TotalInvoiced / summary.TotalHours
	}

	if target := executor.utilizationTarget(entries); target > 0 {
		summary.Utilization = summary.TotalHours / target
	}

	if contract, hasContract := descriptor.Extensions.Contract(); hasContract {
		if budget := contract.MonthlyHours * float64(coveredMonthCount(entries)); budget > 0 {
			summary.BudgetProgress = summary.TotalHours / budget
		}
	}

	summary.Alerts = collectAlerts(descriptor, summary)
	return summary
}

// utilizationTarget is the full-time hour count for the months covered by
// the entries: weekdays per covered month times hours per day.
func (executor Executor) utilizationTarget(entries []timesheet.Entry) float64 {
	weekdays := 0
	for month := range coveredMonths(entries) {
		weekdays += weekdaysInMonth(month.year, month.month)
	}
	return float64(weekdays) * executor.hoursPerDay()
}

type yearMonth struct {
	year  int
	month time.Month
}

func coveredMonths(entries []timesheet.Entry) map[yearMonth]struct{} {
	months := make(map[yearMonth]struct{})
	for _, entry := range entries {
		months[yearMonth{entry.Date.Year(), entry.Date.Month()}] = struct{}{}
	}
	return months
}

func coveredMonthCount(entries []timesheet.Entry) int {
	return len(coveredMonths(entries))
}

func weekdaysInMonth(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	weekdays := 0
	for day := 0; day < daysInMonth; day++ {
		switch first.AddDate(0, 0, day).Weekday() {
		case time.Saturday, time.Sunday:
		default:
			weekdays++
		}
	}
	return weekdays
}

// collectAlerts evaluates the descriptor's alert and utilization-threshold
// extensions against the computed summary.
func collectAlerts(descriptor *query.Descriptor, summary Summary) []string {
	var alerts []string

	if threshold, hasThreshold := descriptor.Extensions.UtilizationThreshold(); hasThreshold {
		if threshold.Min > 0 && summary.Utilization < threshold.Min {
			alerts = append(alerts, fmt.Sprintf(
				"utilization %.0f%% is below the %.0f%% threshold",
				summary.Utilization*100,
				threshold.Min*100,
			))
		}
		if threshold.Max > 0 && summary.Utilization > threshold.Max {
			alerts = append(alerts, fmt.Sprintf(
				"utilization %.0f%% is above the %.0f%% threshold",
				summary.Utilization*100,
				threshold.Max*100,
			))
		}
	}

	if alert, hasAlert := descriptor.Extensions.Alert(); hasAlert {
		for _, flag := range alert.Flags {
			switch flag {
			case "no-entries":
				if summary.EntryCount == 0 {
					alerts = append(alerts, "no entries matched the query")
				}
			case "budget-overrun":
				if summary.BudgetProgress > 1 {
					alerts = append(alerts, fmt.Sprintf(
						"logged hours are at %.0f%% of the contracted budget",
						summary.BudgetProgress*100,
					))
				}
			}
		}
	}

	return alerts
}
