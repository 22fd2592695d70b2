package report

import (
	"strings"
	"time"

	"hermannm.dev/timereport/ast"
	"hermannm.dev/timereport/query"
	"hermannm.dev/timereport/timesheet"
)

// filterEntries retains the entries matching every WHERE predicate of the
// descriptor, including service-mix extension predicates.
func filterEntries(
	descriptor *query.Descriptor, entries []timesheet.Entry, now time.Time,
) []timesheet.Entry {
	dateRange := descriptor.DateRange
	if dateRange == nil && descriptor.RelativeDate != "" {
		if resolved, ok := resolveRelativeDate(descriptor.RelativeDate, now); ok {
			dateRange = &resolved
		}
	}

	serviceMix, hasServiceMix := descriptor.Extensions.ServiceMix()

	var matching []timesheet.Entry
	for _, entry := range entries {
		if descriptor.Year != nil && entry.Date.Year() != *descriptor.Year {
			continue
		}
		if descriptor.Month != nil && entry.Date.Month() != time.Month(*descriptor.Month) {
			continue
		}
		if len(descriptor.Months) > 0 && !containsMonth(descriptor.Months, entry.Date.Month()) {
			continue
		}
		if descriptor.Project != "" &&
			!matchesProject(entry.Project, descriptor.Project, descriptor.ProjectOperator) {
			continue
		}
		if len(descriptor.Projects) > 0 && !containsFold(descriptor.Projects, entry.Project) {
			continue
		}
		if descriptor.Service != "" && !strings.EqualFold(entry.Service, descriptor.Service) {
			continue
		}
		if dateRange != nil && !dateRange.Contains(entry.Date) {
			continue
		}
		if !matchesNumericFilters(descriptor.Numeric, entry) {
			continue
		}
		if hasServiceMix && !containsFold(serviceMix.Services, entry.Service) {
			continue
		}

		matching = append(matching, entry)
	}
	return matching
}

// matchesProject implements the project predicate. Exact match ('=') is a
// case-insensitive substring match, matching the behavior reports have
// always had for project filters; the wordier operators narrow it down.
func matchesProject(entryProject, filter string, operator ast.Operator) bool {
	entryProject = strings.ToLower(entryProject)
	filter = strings.ToLower(filter)

	switch operator {
	case ast.OperatorNotEqual:
		return !strings.Contains(entryProject, filter)
	case ast.OperatorStartsWith:
		return strings.HasPrefix(entryProject, filter)
	case ast.OperatorEndsWith:
		return strings.HasSuffix(entryProject, filter)
	default:
		return strings.Contains(entryProject, filter)
	}
}

func matchesNumericFilters(filters []query.NumericFilter, entry timesheet.Entry) bool {
	for _, filter := range filters {
		var value float64
		switch filter.Field {
		case "hours":
			value = entry.Hours
		case "rate":
			value = entry.Rate
		default:
			continue
		}
		if !filter.Matches(value) {
			return false
		}
	}
	return true
}

// resolveRelativeDate turns a relative date word into a concrete inclusive
// range against the evaluation clock. Unknown words match nothing filtered
// (no range).
func resolveRelativeDate(word string, now time.Time) (query.DateRangeFilter, bool) {
	today := truncateToDay(now)

	switch strings.ToLower(word) {
	case "today":
		return query.DateRangeFilter{From: today, To: today}, true
	case "yesterday":
		yesterday := today.AddDate(0, 0, -1)
		return query.DateRangeFilter{From: yesterday, To: yesterday}, true
	case "this-week":
		return query.DateRangeFilter{From: startOfWeek(today), To: today}, true
	case "last-week":
		thisWeek := startOfWeek(today)
		return query.DateRangeFilter{
			From: thisWeek.AddDate(0, 0, -7),
			To:   thisWeek.AddDate(0, 0, -1),
		}, true
	case "this-month":
		return query.DateRangeFilter{From: startOfMonth(today), To: today}, true
	case "last-month":
		thisMonth := startOfMonth(today)
		return query.DateRangeFilter{
			From: thisMonth.AddDate(0, -1, 0),
			To:   thisMonth.AddDate(0, 0, -1),
		}, true
	default:
		return query.DateRangeFilter{}, false
	}
}

func truncateToDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// startOfWeek returns the Monday of the given date's week.
func startOfWeek(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday counts as the last day of the week
	}
	return date.AddDate(0, 0, -(weekday - 1))
}

func startOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

func containsMonth(months []int, month time.Month) bool {
	for _, candidate := range months {
		if time.Month(candidate) == month {
			return true
		}
	}
	return false
}

func containsFold(values []string, value string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, value) {
			return true
		}
	}
	return false
}
