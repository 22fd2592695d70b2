package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hermannm.dev/timereport/ast"
	"hermannm.dev/timereport/clause"
	"hermannm.dev/timereport/query"
	"hermannm.dev/timereport/timesheet"
)

// bucketByMonth groups entries by calendar month, oldest first. When the
// descriptor groups by project or service, each month splits into one bucket
// per group value.
func bucketByMonth(
	entries []timesheet.Entry, descriptor *query.Descriptor, hoursPerDay float64,
) []MonthlyBucket {
	groupField := bucketGroupField(descriptor)

	bucketsByKey := make(map[string]*MonthlyBucket)
	for _, entry := range entries {
		group := ""
		switch groupField {
		case "project":
			group = entry.Project
		case "service":
			group = entry.Service
		}

		key := fmt.Sprintf("%04d-%02d|%s", entry.Date.Year(), entry.Date.Month(), group)
		bucket, exists := bucketsByKey[key]
		if !exists {
			label := monthLabel(entry.Date.Year(), entry.Date.Month())
			if group != "" {
				label = label + " " + group
			}
			bucket = &MonthlyBucket{
				Year:  entry.Date.Year(),
				Month: entry.Date.Month(),
				Group: group,
				Label: label,
			}
			bucketsByKey[key] = bucket
		}

		bucket.Hours += entry.Hours
		bucket.Invoiced += entry.Invoiced()
		bucket.EntryCount++
		bucket.entries = append(bucket.entries, entry)
	}

	buckets := make([]MonthlyBucket, 0, len(bucketsByKey))
	for _, bucket := range bucketsByKey {
		if bucket.Hours > 0 {
			bucket.AverageRate = bucket.Invoiced / bucket.Hours
		}
		if target := float64(weekdaysInMonth(bucket.Year, bucket.Month)) * hoursPerDay; target > 0 {
			bucket.Utilization = bucket.Hours / target
		}
		buckets = append(buckets, *bucket)
	}

	sortBucketsChronologically(buckets)
	return buckets
}

// bucketGroupField returns the first groupable field from the descriptor's
// GROUP BY list. Year/month grouping is implicit in monthly bucketing, so
// only project and service produce split buckets.
func monthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func bucketGroupField(descriptor *query.Descriptor) string {
	for _, field := range descriptor.GroupBy {
		switch strings.ToLower(field) {
		case "project", "service":
			return strings.ToLower(field)
		}
	}
	return ""
}

func sortBucketsChronologically(buckets []MonthlyBucket) {
	sort.SliceStable(buckets, func(i int, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		if buckets[i].Month != buckets[j].Month {
			return buckets[i].Month < buckets[j].Month
		}
		return buckets[i].Group < buckets[j].Group
	})
}

// truncateToRecentMonths keeps the buckets for the most recent N distinct
// months. Buckets are expected to be chronologically sorted.
func truncateToRecentMonths(buckets []MonthlyBucket, months int) []MonthlyBucket {
	if months <= 0 {
		return buckets
	}

	distinctMonths := 0
	previousYear, previousMonth := 0, time.Month(0)
	firstKeptIndex := len(buckets)
	for i := len(buckets) - 1; i >= 0; i-- {
		bucket := buckets[i]
		if bucket.Year != previousYear || bucket.Month != previousMonth {
			distinctMonths++
			if distinctMonths > months {
				break
			}
			previousYear, previousMonth = bucket.Year, bucket.Month
		}
		firstKeptIndex = i
	}
	return buckets[firstKeptIndex:]
}

// filterBucketsByHaving applies HAVING comparisons to the aggregated totals
// of each bucket, after entry-level filtering and bucketing are done.
func filterBucketsByHaving(buckets []MonthlyBucket, filters []query.NumericFilter) []MonthlyBucket {
	if len(filters) == 0 {
		return buckets
	}

	var matching []MonthlyBucket
	for _, bucket := range buckets {
		if bucketMatchesFilters(bucket, filters) {
			matching = append(matching, bucket)
		}
	}
	return matching
}

func bucketMatchesFilters(bucket MonthlyBucket, filters []query.NumericFilter) bool {
	for _, filter := range filters {
		var value float64
		switch filter.Field {
		case "hours":
			value = bucket.Hours
		case "rate":
			value = bucket.AverageRate
		case "invoiced":
			value = bucket.Invoiced
		default:
			continue
		}
		if !filter.Matches(value) {
			return false
		}
	}
	return true
}

func filterBucketsByValue(buckets []MonthlyBucket, filter clause.ValueFilter) []MonthlyBucket {
	var matching []MonthlyBucket
	for _, bucket := range buckets {
		if filter.Min > 0 && bucket.Invoiced < filter.Min {
			continue
		}
		if filter.Max > 0 && bucket.Invoiced > filter.Max {
			continue
		}
		matching = append(matching, bucket)
	}
	return matching
}

// applyRollover tracks a running balance of hours against the contract's
// monthly pace, carrying surplus or deficit into the next month. The balance
// is capped at the rollover's max hours in both directions when set.
func applyRollover(buckets []MonthlyBucket, contract clause.Contract, rollover clause.Rollover) {
	if !rollover.Enabled || contract.MonthlyHours <= 0 {
		return
	}

	balance := 0.0
	for i := range buckets {
		balance += buckets[i].Hours - contract.MonthlyHours
		if rollover.MaxHours > 0 {
			if balance > rollover.MaxHours {
				balance = rollover.MaxHours
			} else if balance < -rollover.MaxHours {
				balance = -rollover.MaxHours
			}
		}
		buckets[i].RolloverBalance = balance
	}
}

// sortBuckets applies the descriptor's ORDER BY, falling back to
// chronological order. Sorting is stable, so equal keys keep their
// chronological order.
func sortBuckets(buckets []MonthlyBucket, descriptor *query.Descriptor) {
	if descriptor.SortField == "" {
		sortBucketsChronologically(buckets)
		return
	}

	key := func(bucket MonthlyBucket) float64 {
		switch strings.ToLower(descriptor.SortField) {
		case "hours":
			return bucket.Hours
		case "rate":
			return bucket.AverageRate
		case "month":
			return float64(bucket.Year*100 + int(bucket.Month))
		case "year":
			return float64(bucket.Year)
		default:
			return bucket.Invoiced
		}
	}

	descending := descriptor.SortOrder == ast.SortOrderDescending
	sort.SliceStable(buckets, func(i int, j int) bool {
		if descending {
			return key(buckets[i]) > key(buckets[j])
		}
		return key(buckets[i]) < key(buckets[j])
	})
}
