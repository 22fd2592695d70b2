package entrystore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"hermannm.dev/devlog/log"
	"hermannm.dev/timereport/timesheet"
	"hermannm.dev/wrap"
)

// Watcher keeps the entry store in sync with a directory of Markdown note
// files, re-ingesting files as they change.
type Watcher struct {
	store    EntryStore
	notesDir string
	watcher  *fsnotify.Watcher
}

func NewWatcher(store EntryStore, notesDir string) (*Watcher, error) {
	fileWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, wrap.Error(err, "failed to create file watcher")
	}
	if err := fileWatcher.Add(notesDir); err != nil {
		fileWatcher.Close()
		return nil, wrap.Errorf(err, "failed to watch notes directory '%s'", notesDir)
	}

	return &Watcher{store: store, notesDir: notesDir, watcher: fileWatcher}, nil
}

func (watcher *Watcher) Close() error {
	return watcher.watcher.Close()
}

// IngestAll parses and stores every note file currently in the notes
// directory. Parse warnings are logged, not returned, so a single malformed
// line never blocks ingestion of the rest.
func (watcher *Watcher) IngestAll(ctx context.Context) error {
	for _, pattern := range []string{"*.md", "*.csv"} {
		noteFiles, err := filepath.Glob(filepath.Join(watcher.notesDir, pattern))
		if err != nil {
			return wrap.Errorf(err, "failed to list note files in '%s'", watcher.notesDir)
		}

		for _, path := range noteFiles {
			if err := watcher.ingestFile(ctx, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run re-ingests note files as the watched directory changes, until the
// context is canceled. Events for the same file arriving in quick succession
// are debounced, since editors typically emit several writes per save.
func (watcher *Watcher) Run(ctx context.Context) {
	const debounceInterval = 500 * time.Millisecond

	pending := make(map[string]struct{})
	debounce := time.NewTimer(debounceInterval)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-watcher.watcher.Events:
			if !open {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".md") && !strings.HasSuffix(event.Name, ".csv") {
				continue
			}
			pending[event.Name] = struct{}{}
			debounce.Reset(debounceInterval)
		case err, open := <-watcher.watcher.Errors:
			if !open {
				return
			}
			log.ErrorCause(err, "notes directory watcher error")
		case <-debounce.C:
			for path := range pending {
				if err := watcher.ingestFile(ctx, path); err != nil {
					log.ErrorCause(err, "failed to re-ingest changed note file")
				}
			}
			clear(pending)
		}
	}
}

func (watcher *Watcher) ingestFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return wrap.Errorf(err, "failed to read note file '%s'", path)
	}

	var note timesheet.NoteFile
	if strings.HasSuffix(path, ".csv") {
		note, err = timesheet.ParseEntriesCSV(filepath.Base(path), bytes.NewReader(content))
	} else {
		note, err = timesheet.ParseNoteFile(filepath.Base(path), content)
	}
	if err != nil {
		return wrap.Errorf(err, "failed to parse note file '%s'", path)
	}
	for _, warning := range note.Warnings {
		log.Warnf("note file '%s': %s", note.Name, warning)
	}

	if err := watcher.store.UpsertNote(ctx, note); err != nil {
		return wrap.Errorf(err, "failed to store entries from note file '%s'", path)
	}

	log.Debugf("ingested %d entries from note file '%s'", len(note.Entries), note.Name)
	return nil
}
