package report

import (
	"time"

	"hermannm.dev/timereport/query"
	"hermannm.dev/timereport/timesheet"
)

// DefaultHoursPerDay is the working-day hour count used for utilization
// targets when the executor is configured with 0.
const DefaultHoursPerDay = 8.0

// Executor applies query descriptors to entry collections. The zero value is
// usable; NewExecutor fills in defaults. Executors are stateless and safe for
// concurrent use.
type Executor struct {
	// HoursPerDay sizes the working-day-based utilization target.
	HoursPerDay float64
	// Now is the evaluation clock, used for the current-year period and
	// relative date filters. Defaults to time.Now.
	Now func() time.Time
}

func NewExecutor(hoursPerDay float64) Executor {
	return Executor{HoursPerDay: hoursPerDay, Now: time.Now}
}

func (executor Executor) hoursPerDay() float64 {
	if executor.HoursPerDay <= 0 {
		return DefaultHoursPerDay
	}
	return executor.HoursPerDay
}

func (executor Executor) now() time.Time {
	if executor.Now == nil {
		return time.Now()
	}
	return executor.Now()
}

// Execute runs the descriptor against the given entries. It never fails:
// empty input, empty filter results and zero-valued targets all produce
// zero-valued report data rather than errors, since "no data for this
// period" is an expected condition.
func (executor Executor) Execute(
	descriptor *query.Descriptor, entries []timesheet.Entry,
) ReportData {
	now := executor.now()

	filtered := filterEntries(descriptor, entries, now)

	// The current-year period filters entries before bucketing; the last-N
	// periods truncate the chronologically sorted buckets afterwards.
	if descriptor.Period == query.PeriodCurrentYear {
		filtered = entriesInYear(filtered, now.Year())
	}

	buckets := bucketByMonth(filtered, descriptor, executor.hoursPerDay())

	if recentMonths, truncates := descriptor.Period.TruncatesToRecentMonths(); truncates {
		buckets = truncateToRecentMonths(buckets, recentMonths)
	}

	buckets = filterBucketsByHaving(buckets, descriptor.Having)

	if valueFilter, hasValueFilter := descriptor.Extensions.ValueFilter(); hasValueFilter {
		buckets = filterBucketsByValue(buckets, valueFilter)
	}

	if contract, hasContract := descriptor.Extensions.Contract(); hasContract {
		if rollover, hasRollover := descriptor.Extensions.Rollover(); hasRollover {
			applyRollover(buckets, contract, rollover)
		}
	}

	sortBuckets(buckets, descriptor)
	if descriptor.Limit > 0 && len(buckets) > descriptor.Limit {
		buckets = buckets[:descriptor.Limit]
	}

	return ReportData{
		Summary:        executor.summarize(descriptor, bucketedEntries(buckets)),
		YearSummary:    executor.summarize(descriptor, entriesInYear(entries, now.Year())),
		AllTimeSummary: executor.summarize(descriptor, entries),
		MonthlyData:    buckets,
		TrendData:      executor.buildTrendData(buckets, descriptor),
	}
}

// bucketedEntries collects the entries that survived bucket-level filtering
// (value bounds, period truncation), so summaries match the visible buckets.
func bucketedEntries(buckets []MonthlyBucket) []timesheet.Entry {
	var entries []timesheet.Entry
	for _, bucket := range buckets {
		entries = append(entries, bucket.entries...)
	}
	return entries
}

func entriesInYear(entries []timesheet.Entry, year int) []timesheet.Entry {
	var matching []timesheet.Entry
	for _, entry := range entries {
		if entry.Date.Year() == year {
			matching = append(matching, entry)
		}
	}
	return matching
}
