// Package entrystore persists parsed time entries in an embedded SQLite
// database, so reports can be run without re-parsing every note file.
package entrystore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
	"hermannm.dev/timereport/timesheet"
	"hermannm.dev/wrap"
)

type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(databasePath string) (EntryStore, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return EntryStore{}, wrap.Error(err, "failed to open SQLite database")
	}

	// modernc.org/sqlite connections do not tolerate concurrent writers.
	db.SetMaxOpenConns(1)

	store := EntryStore{db: db}
	if err := store.createSchema(context.Background()); err != nil {
		db.Close()
		return EntryStore{}, wrap.Error(err, "failed to create entry store schema")
	}

	return store, nil
}

func (store EntryStore) Close() error {
	return store.db.Close()
}

func (store EntryStore) createSchema(ctx context.Context) error {
	_, err := store.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			note_file TEXT NOT NULL,
			date TEXT NOT NULL,
			hours REAL NOT NULL,
			rate REAL NOT NULL,
			project TEXT NOT NULL,
			service TEXT NOT NULL,
			notes TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS entries_by_date ON entries (date);
		CREATE INDEX IF NOT EXISTS entries_by_note_file ON entries (note_file);
	`)
	return err
}

// UpsertNote replaces all entries previously ingested from the given note
// file with the file's current entries, in a single transaction.
func (store EntryStore) UpsertNote(ctx context.Context, note timesheet.NoteFile) error {
	transaction, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap.Error(err, "failed to begin entry store transaction")
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(
		ctx, `DELETE FROM entries WHERE note_file = ?`, note.Name,
	); err != nil {
		return wrap.Errorf(err, "failed to clear previous entries for note file '%s'", note.Name)
	}

	for _, entry := range note.Entries {
		id := entry.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		if _, err := transaction.ExecContext(
			ctx,
			`INSERT INTO entries (id, note_file, date, hours, rate, project, service, notes)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id.String(),
			note.Name,
			entry.Date.Format(time.RFC3339),
			entry.Hours,
			entry.Rate,
			entry.Project,
			entry.Service,
			entry.Notes,
		); err != nil {
			return wrap.Errorf(err, "failed to insert entry from note file '%s'", note.Name)
		}
	}

	if err := transaction.Commit(); err != nil {
		return wrap.Error(err, "failed to commit entry store transaction")
	}
	return nil
}

// Entries returns all stored entries, sorted by date ascending.
func (store EntryStore) Entries(ctx context.Context) ([]timesheet.Entry, error) {
	return store.queryEntries(ctx, `SELECT id, date, hours, rate, project, service, notes
		FROM entries ORDER BY date ASC`)
}

// EntriesForProject returns the stored entries whose project contains the
// given name, matching the project filter semantics of reports.
func (store EntryStore) EntriesForProject(
	ctx context.Context, project string,
) ([]timesheet.Entry, error) {
	return store.queryEntries(
		ctx,
		`SELECT id, date, hours, rate, project, service, notes
			FROM entries WHERE project LIKE '%' || ? || '%' ORDER BY date ASC`,
		project,
	)
}

func (store EntryStore) queryEntries(
	ctx context.Context, query string, args ...any,
) ([]timesheet.Entry, error) {
	rows, err := store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap.Error(err, "entry store query failed")
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		var entry timesheet.Entry
		var id string
		var date string
		if err := rows.Scan(
			&id, &date, &entry.Hours, &entry.Rate, &entry.Project, &entry.Service, &entry.Notes,
		); err != nil {
			return nil, wrap.Error(err, "failed to scan entry row")
		}

		entry.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, wrap.Errorf(err, "invalid entry ID '%s' in entry store", id)
		}
		entry.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, wrap.Errorf(err, "invalid entry date '%s' in entry store", date)
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(err, "entry store query failed")
	}

	return entries, nil
}
