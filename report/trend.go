package report

import (
	"hermannm.dev/timereport/query"
)

// buildTrendData flattens the monthly buckets into parallel chart series,
// oldest first. When a forecast extension is present, projected months are
// appended after the historical ones, with ForecastFrom marking where the
// projection starts.
func (executor Executor) buildTrendData(
	buckets []MonthlyBucket, descriptor *query.Descriptor,
) TrendData {
	trend := newTrendData()

	for _, bucket := range buckets {
		trend.Labels = append(trend.Labels, bucket.Label)
		trend.Hours = append(trend.Hours, bucket.Hours)
		trend.Utilization = append(trend.Utilization, bucket.Utilization)
		trend.Invoiced = append(trend.Invoiced, bucket.Invoiced)
	}

	forecast, hasForecast := descriptor.Extensions.Forecast()
	if !hasForecast || forecast.Months <= 0 || len(buckets) == 0 {
		return trend
	}

	trend.ForecastFrom = len(buckets)

	// Project the recent average forward. Three months of history is enough
	// to smooth out a single short month.
	historyMonths := 3
	if len(buckets) < historyMonths {
		historyMonths = len(buckets)
	}
	recent := buckets[len(buckets)-historyMonths:]

	var averageHours, averageUtilization, averageInvoiced float64
	for _, bucket := range recent {
		averageHours += bucket.Hours
		averageUtilization += bucket.Utilization
		averageInvoiced += bucket.Invoiced
	}
	averageHours /= float64(historyMonths)
	averageUtilization /= float64(historyMonths)
	averageInvoiced /= float64(historyMonths)

	last := buckets[len(buckets)-1]
	year, month := last.Year, last.Month
	for i := 0; i < forecast.Months; i++ {
		month++
		if month > 12 {
			month = 1
			year++
		}
		trend.Labels = append(trend.Labels, monthLabel(year, month))
		trend.Hours = append(trend.Hours, averageHours)
		trend.Utilization = append(trend.Utilization, averageUtilization)
		trend.Invoiced = append(trend.Invoiced, averageInvoiced)
	}

	return trend
}
