package api

import (
	"io"
	"net/http"

	"hermannm.dev/timereport/timesheet"
)

// Expects:
//   - query parameter 'name': name of the note file
//   - request body: note file content (Markdown with optional frontmatter)
//
// Returns:
//   - JSON-encoded IngestionResult
func (api ReportAPI) IngestNoteFile(res http.ResponseWriter, req *http.Request) {
	name := req.URL.Query().Get("name")
	if name == "" {
		sendClientError(res, nil, "missing 'name' query parameter in request")
		return
	}

	content, err := io.ReadAll(req.Body)
	if err != nil {
		sendClientError(res, err, "failed to read note file from request body")
		return
	}

	note, err := timesheet.ParseNoteFile(name, content)
	if err != nil {
		sendClientError(res, err, "failed to parse note file")
		return
	}

	if err := api.store.UpsertNote(req.Context(), note); err != nil {
		sendServerError(res, err, "failed to store entries from note file")
		return
	}

	// Stored entries changed, so previously generated reports are stale.
	api.cache.clear()

	sendJSON(res, IngestionResult{
		NoteFile:   note.Name,
		EntryCount: len(note.Entries),
		Warnings:   note.Warnings,
	})
}

type IngestionResult struct {
	NoteFile   string   `json:"noteFile"`
	EntryCount int      `json:"entryCount"`
	Warnings   []string `json:"warnings,omitempty"`
}
