package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/timereport/clause"
	"hermannm.dev/timereport/entrystore"
	"hermannm.dev/timereport/timesheet"
)

func testAPI(t *testing.T) ReportAPI {
	t.Helper()

	store, err := entrystore.NewEntryStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewReportAPI(store, clause.NewDefaultRegistry(), http.NewServeMux(), Config{
		Port:        "0",
		HoursPerDay: 8,
	})
}

func storeTestEntries(t *testing.T, api ReportAPI) {
	t.Helper()

	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, api.store.UpsertNote(context.Background(), timesheet.NoteFile{
		Name: "acme.md",
		Entries: []timesheet.Entry{
			{ID: uuid.New(), Date: date, Hours: 8, Rate: 95, Project: "acme", Service: "development"},
			{ID: uuid.New(), Date: date.AddDate(0, 0, 1), Hours: 4, Rate: 95, Project: "globex", Service: "consulting"},
		},
	}))
}

func runQuery(api ReportAPI, queryText string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(queryText))
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	return recorder
}

func TestRunQuery(t *testing.T) {
	api := testAPI(t)
	storeTestEntries(t, api)

	recorder := runQuery(api, "WHERE project=acme SHOW hours, rate PERIOD all-time")
	require.Equal(t, http.StatusOK, recorder.Code)

	var cached CachedReport
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&cached))

	assert.NotEqual(t, uuid.Nil, cached.ID)
	assert.Equal(t, "WHERE project=acme SHOW hours, rate PERIOD all-time", cached.Query)
	assert.Equal(t, 8.0, cached.Data.Summary.TotalHours)
	assert.Equal(t, 1, cached.Data.Summary.EntryCount)
}

func TestRunQueryRejectsMalformedQuery(t *testing.T) {
	api := testAPI(t)

	recorder := runQuery(api, "WHERE SHOW")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRunQueryRejectsInvalidQuery(t *testing.T) {
	api := testAPI(t)

	// Syntactically fine, but 13 is not a valid month.
	recorder := runQuery(api, "WHERE month=13 SHOW hours")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRunQueryRejectsEmptyBody(t *testing.T) {
	api := testAPI(t)

	recorder := runQuery(api, "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestEquivalentQueriesShareReport(t *testing.T) {
	api := testAPI(t)
	storeTestEntries(t, api)

	first := runQuery(api, "WHERE project=acme SHOW hours PERIOD all-time")
	require.Equal(t, http.StatusOK, first.Code)
	var firstReport CachedReport
	require.NoError(t, json.NewDecoder(first.Body).Decode(&firstReport))

	// Keywords are case-insensitive, so this formats to the same canonical
	// query and should hit the cache.
	second := runQuery(api, "where project=acme show hours period all-time")
	require.Equal(t, http.StatusOK, second.Code)
	var secondReport CachedReport
	require.NoError(t, json.NewDecoder(second.Body).Decode(&secondReport))

	assert.Equal(t, firstReport.ID, secondReport.ID)
}

func TestGetReport(t *testing.T) {
	api := testAPI(t)
	storeTestEntries(t, api)

	queryRecorder := runQuery(api, "WHERE project=acme SHOW hours PERIOD all-time")
	require.Equal(t, http.StatusOK, queryRecorder.Code)
	var generated CachedReport
	require.NoError(t, json.NewDecoder(queryRecorder.Body).Decode(&generated))

	request := httptest.NewRequest(http.MethodGet, "/reports/"+generated.ID.String(), nil)
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var fetched CachedReport
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&fetched))
	assert.Equal(t, generated.ID, fetched.ID)
	assert.Equal(t, generated.Query, fetched.Query)
}

func TestGetReportNotFound(t *testing.T) {
	api := testAPI(t)

	request := httptest.NewRequest(http.MethodGet, "/reports/"+uuid.New().String(), nil)
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetReportInvalidID(t *testing.T) {
	api := testAPI(t)

	request := httptest.NewRequest(http.MethodGet, "/reports/not-a-uuid", nil)
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestIngestNoteFile(t *testing.T) {
	api := testAPI(t)

	noteContent := `---
project: acme
rate: 95
service: development
---

2024-03-05 8h working on the parser
2024-03-06 4h review meeting @consulting
not a valid entry line
`
	request := httptest.NewRequest(
		http.MethodPost, "/ingest?name=acme.md", strings.NewReader(noteContent),
	)
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var result IngestionResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	assert.Equal(t, "acme.md", result.NoteFile)
	assert.Equal(t, 2, result.EntryCount)
	assert.Len(t, result.Warnings, 1)

	entries, err := api.store.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIngestionInvalidatesCachedReports(t *testing.T) {
	api := testAPI(t)
	storeTestEntries(t, api)

	first := runQuery(api, "WHERE project=acme SHOW hours PERIOD all-time")
	require.Equal(t, http.StatusOK, first.Code)
	var firstReport CachedReport
	require.NoError(t, json.NewDecoder(first.Body).Decode(&firstReport))

	request := httptest.NewRequest(
		http.MethodPost,
		"/ingest?name=acme.md",
		strings.NewReader("---\nproject: acme\nrate: 95\n---\n2024-03-05 6h shorter day\n"),
	)
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	second := runQuery(api, "WHERE project=acme SHOW hours PERIOD all-time")
	require.Equal(t, http.StatusOK, second.Code)
	var secondReport CachedReport
	require.NoError(t, json.NewDecoder(second.Body).Decode(&secondReport))

	assert.NotEqual(t, firstReport.ID, secondReport.ID)
	assert.Equal(t, 6.0, secondReport.Data.Summary.TotalHours)
}

func TestIngestRequiresName(t *testing.T) {
	api := testAPI(t)

	request := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader("2024-03-05 8h"))
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestExportEntries(t *testing.T) {
	api := testAPI(t)
	storeTestEntries(t, api)

	request := httptest.NewRequest(http.MethodGet, "/entries", nil)
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
	body := recorder.Body.String()
	assert.Contains(t, body, "date,hours,project,service,rate,notes")
	assert.Contains(t, body, "acme")
	assert.Contains(t, body, "globex")
}

func TestExportEntriesFilteredByProject(t *testing.T) {
	api := testAPI(t)
	storeTestEntries(t, api)

	request := httptest.NewRequest(http.MethodGet, "/entries?project=acme", nil)
	recorder := httptest.NewRecorder()
	api.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, "acme")
	assert.NotContains(t, body, "globex")
}
