package api

import (
	"net/http"

	"hermannm.dev/timereport/timesheet"
)

// Expects:
//   - optional query parameter 'project': project name filter
//
// Returns:
//   - stored entries as CSV, in ingestion column order
func (api ReportAPI) ExportEntries(res http.ResponseWriter, req *http.Request) {
	var entries []timesheet.Entry
	var err error
	if project := req.URL.Query().Get("project"); project != "" {
		entries, err = api.store.EntriesForProject(req.Context(), project)
	} else {
		entries, err = api.store.Entries(req.Context())
	}
	if err != nil {
		sendServerError(res, err, "failed to load stored entries")
		return
	}

	res.Header().Set("Content-Type", "text/csv")
	if err := timesheet.WriteEntriesCSV(res, entries); err != nil {
		sendServerError(res, err, "failed to write entries as CSV")
	}
}
