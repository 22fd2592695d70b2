package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoteFile(t *testing.T) {
	content := []byte(`---
project: acme
rate: 95
service: consulting
---

# March

2024-03-05 8h working on the parser @development
2024-03-06 4.5h client meeting
`)

	note, err := ParseNoteFile("acme-march.md", content)
	require.NoError(t, err)
	assert.Equal(t, "acme-march.md", note.Name)
	assert.Empty(t, note.Warnings)
	require.Len(t, note.Entries, 2)

	first := note.Entries[0]
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 8.0, first.Hours)
	assert.Equal(t, 95.0, first.Rate)
	assert.Equal(t, "acme", first.Project)
	assert.Equal(t, "development", first.Service, "service tag must override the file default")
	assert.Equal(t, "working on the parser", first.Notes)
	assert.NotZero(t, first.ID)

	second := note.Entries[1]
	assert.Equal(t, 4.5, second.Hours)
	assert.Equal(t, "consulting", second.Service)
	assert.Equal(t, "client meeting", second.Notes)
}

func TestParseNoteFileWithoutFrontmatter(t *testing.T) {
	note, err := ParseNoteFile("notes.md", []byte("2024-03-05 2h quick fix\n"))
	require.NoError(t, err)
	require.Len(t, note.Entries, 1)
	assert.Empty(t, note.Entries[0].Project)
	assert.Zero(t, note.Entries[0].Rate)
}

func TestParseNoteFileCollectsWarningsForMalformedLines(t *testing.T) {
	content := []byte(`2024-03-05 8h good entry
not a date 4h bad entry
2024-03-07 lots of hours
2024-03-08 -2h negative
2024-03-09 3h fine again
`)

	note, err := ParseNoteFile("notes.md", content)
	require.NoError(t, err)
	assert.Len(t, note.Entries, 2)
	require.Len(t, note.Warnings, 3)
	assert.Contains(t, note.Warnings[0], "line 2")
	assert.Contains(t, note.Warnings[2], "negative")
}

func TestParseNoteFileUnterminatedFrontmatter(t *testing.T) {
	_, err := ParseNoteFile("notes.md", []byte("---\nproject: acme\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontmatter")
}

func TestParseNoteFileSkipsCommentsAndBlankLines(t *testing.T) {
	content := []byte(`
# heading

2024-03-05 1h entry
`)

	note, err := ParseNoteFile("notes.md", content)
	require.NoError(t, err)
	assert.Len(t, note.Entries, 1)
	assert.Empty(t, note.Warnings)
}

func TestInvoiced(t *testing.T) {
	entry := Entry{Hours: 4, Rate: 100}
	assert.Equal(t, 400.0, entry.Invoiced())

	withoutRate := Entry{Hours: 4}
	assert.Zero(t, withoutRate.Invoiced())
}
