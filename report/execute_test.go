package report

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/devlog"
	"hermannm.dev/timereport/clause"
	"hermannm.dev/timereport/query"
	"hermannm.dev/timereport/timesheet"
)

func TestMain(m *testing.M) {
	logHandler := devlog.NewHandler(os.Stdout, &devlog.Options{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logHandler))

	os.Exit(m.Run())
}

// testNow fixes the evaluation clock so current-year and relative-date
// behavior stays deterministic.
var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func testExecutor() Executor {
	return Executor{HoursPerDay: 8, Now: func() time.Time { return testNow }}
}

func entry(date string, hours float64, rate float64, project string) timesheet.Entry {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return timesheet.Entry{Date: parsed, Hours: hours, Rate: rate, Project: project}
}

func executeText(t *testing.T, queryText string, entries []timesheet.Entry) ReportData {
	t.Helper()

	registry := clause.NewDefaultRegistry()
	parsedQuery, err := query.NewParser(registry).Parse(queryText)
	require.NoError(t, err)

	descriptor, err := query.NewInterpreter(registry).Interpret(parsedQuery)
	require.NoError(t, err)

	return testExecutor().Execute(descriptor, entries)
}

func TestExecuteYearAndMonthFilter(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-03-05", 8, 75, "acme"),
		entry("2024-02-01", 8, 75, "acme"),
		entry("2024-03-20", 4, 75, "acme"),
	}

	data := executeText(t, `WHERE year = 2024 AND month = 3 SHOW hours VIEW summary`, entries)

	assert.Equal(t, 12.0, data.Summary.TotalHours)
	assert.Equal(t, 900.0, data.Summary.TotalInvoiced)
	assert.Equal(t, 2, data.Summary.EntryCount)
	assert.Equal(t, 75.0, data.Summary.AverageRate)
}

func TestExecuteNoMatchesGivesEmptyTrendData(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-03-05", 8, 75, "globex"),
	}

	data := executeText(t, `WHERE project = "Acme" VIEW chart CHART trend`, entries)

	assert.NotNil(t, data.TrendData.Labels)
	assert.Empty(t, data.TrendData.Labels)
	assert.NotNil(t, data.TrendData.Hours)
	assert.Empty(t, data.TrendData.Hours)
	assert.NotNil(t, data.TrendData.Utilization)
	assert.Empty(t, data.TrendData.Utilization)
	assert.NotNil(t, data.TrendData.Invoiced)
	assert.Empty(t, data.TrendData.Invoiced)
	assert.Equal(t, -1, data.TrendData.ForecastFrom)

	assert.Zero(t, data.Summary.TotalHours)
	assert.Empty(t, data.MonthlyData)
}

func TestExecuteBetweenIsInclusive(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-01", 2, 100, "acme"),
		entry("2024-01-31", 3, 100, "acme"),
		entry("2024-02-01", 5, 100, "acme"),
	}

	data := executeText(t, `WHERE date BETWEEN "2024-01-01" AND "2024-01-31"`, entries)

	assert.Equal(t, 5.0, data.Summary.TotalHours)
	assert.Equal(t, 2, data.Summary.EntryCount)
}

func TestExecuteDateInequality(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 3, 100, "acme"),
		entry("2024-01-20", 5, 100, "acme"),
	}

	after := executeText(t, `WHERE date > 2024-01-15`, entries)
	assert.Equal(t, 5.0, after.Summary.TotalHours)
	assert.Equal(t, 1, after.Summary.EntryCount)

	onOrBefore := executeText(t, `WHERE date <= 2024-01-15`, entries)
	assert.Equal(t, 3.0, onOrBefore.Summary.TotalHours)
}

func TestExecuteHavingFiltersAggregatedBuckets(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-05", 8, 100, "acme"),
		entry("2024-01-20", 8, 100, "acme"),
		entry("2024-02-10", 4, 100, "acme"),
	}

	data := executeText(t, `WHERE year = 2024 HAVING hours > 10`, entries)

	// January totals 16 hours even though no single entry exceeds 10, so the
	// bucket survives; February's 4-hour bucket is dropped.
	require.Len(t, data.MonthlyData, 1)
	assert.Equal(t, time.January, data.MonthlyData[0].Month)
	assert.Equal(t, 16.0, data.MonthlyData[0].Hours)
	assert.Equal(t, 16.0, data.Summary.TotalHours)
}

func TestExecuteUtilizationIsZeroSafe(t *testing.T) {
	executor := Executor{HoursPerDay: 8, Now: func() time.Time { return testNow }}

	summary := executor.summarize(&query.Descriptor{Extensions: query.Extensions{}}, nil)

	assert.Zero(t, summary.TotalHours)
	assert.Zero(t, summary.AverageRate)
	assert.Zero(t, summary.Utilization)
	assert.False(t, summary.Utilization != summary.Utilization, "utilization must not be NaN")
}

func TestExecuteProjectFilterIsCaseInsensitiveSubstring(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-03-05", 8, 75, "Acme Corp"),
		entry("2024-03-06", 4, 75, "globex"),
	}

	data := executeText(t, `WHERE project = "acme"`, entries)

	assert.Equal(t, 8.0, data.Summary.TotalHours)
}

func TestExecuteRelativeDateFilter(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-05-20", 6, 100, "acme"),
		entry("2024-06-10", 3, 100, "acme"),
	}

	data := executeText(t, `WHERE date = last-month`, entries)

	assert.Equal(t, 6.0, data.Summary.TotalHours)
}

func TestExecuteMonthlyBuckets(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 8, 100, "acme"),
		entry("2024-01-20", 8, 100, "acme"),
		entry("2024-03-05", 4, 50, "acme"),
	}

	data := executeText(t, `WHERE year = 2024`, entries)

	require.Len(t, data.MonthlyData, 2)

	january := data.MonthlyData[0]
	assert.Equal(t, "2024-01", january.Label)
	assert.Equal(t, 16.0, january.Hours)
	assert.Equal(t, 1600.0, january.Invoiced)
	assert.Equal(t, 100.0, january.AverageRate)
	assert.Equal(t, 2, january.EntryCount)
	// January 2024 has 23 weekdays, so the full-time target is 184 hours.
	assert.InDelta(t, 16.0/184.0, january.Utilization, 1e-9)

	march := data.MonthlyData[1]
	assert.Equal(t, "2024-03", march.Label)
	assert.Equal(t, 4.0, march.Hours)
}

func TestExecuteGroupByProjectSplitsBuckets(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 8, 100, "acme"),
		entry("2024-01-20", 4, 100, "globex"),
	}

	data := executeText(t, `WHERE year = 2024 GROUP BY project`, entries)

	require.Len(t, data.MonthlyData, 2)
	assert.Equal(t, "2024-01 acme", data.MonthlyData[0].Label)
	assert.Equal(t, "2024-01 globex", data.MonthlyData[1].Label)
}

func TestExecuteOrderByAndLimit(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 2, 100, "acme"),
		entry("2024-02-10", 8, 100, "acme"),
		entry("2024-03-10", 5, 100, "acme"),
	}

	data := executeText(t, "WHERE year = 2024\nORDER BY hours DESC\nLIMIT 2", entries)

	require.Len(t, data.MonthlyData, 2)
	assert.Equal(t, 8.0, data.MonthlyData[0].Hours)
	assert.Equal(t, 5.0, data.MonthlyData[1].Hours)
}

func TestExecuteRolloverTracksContractPace(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 110, 100, "acme"),
		entry("2024-02-10", 90, 100, "acme"),
		entry("2024-03-10", 100, 100, "acme"),
	}

	data := executeText(t, "WHERE year = 2024\nCONTRACT 100\nROLLOVER", entries)

	require.Len(t, data.MonthlyData, 3)
	assert.Equal(t, 10.0, data.MonthlyData[0].RolloverBalance)
	assert.Equal(t, 0.0, data.MonthlyData[1].RolloverBalance)
	assert.Equal(t, 0.0, data.MonthlyData[2].RolloverBalance)
}

func TestExecuteRolloverCapsCarriedHours(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 150, 100, "acme"),
		entry("2024-02-10", 100, 100, "acme"),
	}

	data := executeText(t, "WHERE year = 2024\nCONTRACT 100\nROLLOVER 20", entries)

	require.Len(t, data.MonthlyData, 2)
	assert.Equal(t, 20.0, data.MonthlyData[0].RolloverBalance)
	assert.Equal(t, 20.0, data.MonthlyData[1].RolloverBalance)
}

func TestExecuteForecastExtendsTrendData(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 120, 100, "acme"),
		entry("2024-02-10", 120, 100, "acme"),
		entry("2024-03-10", 120, 100, "acme"),
	}

	data := executeText(t, "WHERE year = 2024\nFORECAST 2", entries)

	require.Len(t, data.TrendData.Labels, 5)
	assert.Equal(t, 3, data.TrendData.ForecastFrom)
	assert.Equal(t, "2024-04", data.TrendData.Labels[3])
	assert.Equal(t, "2024-05", data.TrendData.Labels[4])
	assert.Equal(t, 120.0, data.TrendData.Hours[3])
	assert.Equal(t, 120.0, data.TrendData.Hours[4])
}

func TestExecuteValueFilterDropsBuckets(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-01-10", 10, 100, "acme"),
		entry("2024-02-10", 2, 100, "acme"),
	}

	data := executeText(t, "WHERE year = 2024\nVALUE 500", entries)

	require.Len(t, data.MonthlyData, 1)
	assert.Equal(t, 1000.0, data.MonthlyData[0].Invoiced)
	// The visible summary follows the surviving buckets.
	assert.Equal(t, 10.0, data.Summary.TotalHours)
}

func TestExecuteLastSixMonthsPeriod(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2023-05-10", 8, 100, "acme"),
		entry("2024-01-10", 8, 100, "acme"),
		entry("2024-03-10", 8, 100, "acme"),
	}

	data := executeText(t, "PERIOD last-6-months", entries)

	// all-time bucketing truncated to the most recent six distinct months.
	require.Len(t, data.MonthlyData, 3)
}

func TestExecuteAllTimePeriodIgnoresYear(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2022-05-10", 8, 100, "acme"),
		entry("2024-03-10", 8, 100, "acme"),
	}

	data := executeText(t, "PERIOD all-time", entries)

	assert.Equal(t, 16.0, data.Summary.TotalHours)
	assert.Len(t, data.MonthlyData, 2)
}

func TestExecuteCurrentYearPeriodByDefault(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2022-05-10", 8, 100, "acme"),
		entry("2024-03-10", 8, 100, "acme"),
	}

	data := executeText(t, `SHOW hours`, entries)

	assert.Equal(t, 8.0, data.Summary.TotalHours)
	assert.Equal(t, 16.0, data.AllTimeSummary.TotalHours)
	assert.Equal(t, 8.0, data.YearSummary.TotalHours)
}

func TestExecuteAlertsFromThresholds(t *testing.T) {
	entries := []timesheet.Entry{
		entry("2024-03-10", 8, 100, "acme"),
	}

	data := executeText(t, "WHERE year = 2024\nUTILIZATION 70%", entries)

	require.NotEmpty(t, data.Summary.Alerts)
	assert.Contains(t, data.Summary.Alerts[0], "below")
}

func TestExecuteServiceMixExtensionFiltersEntries(t *testing.T) {
	entries := []timesheet.Entry{
		{Date: testNow.AddDate(0, -1, 0), Hours: 5, Rate: 100, Project: "acme", Service: "consulting"},
		{Date: testNow.AddDate(0, -1, 0), Hours: 3, Rate: 100, Project: "acme", Service: "development"},
	}

	data := executeText(t, `SERVICES consulting`, entries)

	assert.Equal(t, 5.0, data.Summary.TotalHours)
}

func BenchmarkExecute(b *testing.B) {
	registry := clause.NewDefaultRegistry()
	parsedQuery, err := query.NewParser(registry).Parse("WHERE year = 2024\nCONTRACT 100\nROLLOVER")
	if err != nil {
		b.Fatal(err)
	}
	descriptor, err := query.NewInterpreter(registry).Interpret(parsedQuery)
	if err != nil {
		b.Fatal(err)
	}

	var entries []timesheet.Entry
	for month := time.January; month <= time.December; month++ {
		for day := 1; day <= 20; day++ {
			entries = append(entries, timesheet.Entry{
				Date:    time.Date(2024, month, day, 0, 0, 0, 0, time.UTC),
				Hours:   6,
				Rate:    100,
				Project: "acme",
			})
		}
	}

	executor := testExecutor()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		executor.Execute(descriptor, entries)
	}
}
