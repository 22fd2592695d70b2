package timesheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntriesCSV(t *testing.T) {
	content := strings.NewReader(`date,hours,project,service,rate,notes
2024-03-05,8,acme,development,95,working on the parser
2024-03-06,4.5,acme,consulting,95,client meeting
`)

	note, err := ParseEntriesCSV("acme.csv", content)
	require.NoError(t, err)
	assert.Empty(t, note.Warnings)
	require.Len(t, note.Entries, 2)

	first := note.Entries[0]
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 8.0, first.Hours)
	assert.Equal(t, "acme", first.Project)
	assert.Equal(t, 95.0, first.Rate)
	assert.Equal(t, "working on the parser", first.Notes)
}

func TestParseEntriesCSVDeducesSemicolonDelimiter(t *testing.T) {
	content := strings.NewReader(`date;hours;project;service;rate;notes
2024-03-05;8;acme;development;95;working on the parser
`)

	note, err := ParseEntriesCSV("acme.csv", content)
	require.NoError(t, err)
	require.Len(t, note.Entries, 1)
	assert.Equal(t, "development", note.Entries[0].Service)
}

func TestParseEntriesCSVRejectsWrongHeader(t *testing.T) {
	content := strings.NewReader("date,hours,client\n2024-03-05,8,acme\n")

	_, err := ParseEntriesCSV("acme.csv", content)
	require.Error(t, err)
}

func TestParseEntriesCSVCollectsWarningsForBadRows(t *testing.T) {
	content := strings.NewReader(`date,hours,project,service,rate,notes
2024-03-05,8,acme,development,95,good
not-a-date,8,acme,development,95,bad date
2024-03-07,-2,acme,development,95,negative hours
`)

	note, err := ParseEntriesCSV("acme.csv", content)
	require.NoError(t, err)
	assert.Len(t, note.Entries, 1)
	assert.Len(t, note.Warnings, 2)
}

func TestWriteEntriesCSVRoundTrip(t *testing.T) {
	entries := []Entry{
		{
			Date:    time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			Hours:   8,
			Rate:    95,
			Project: "acme",
			Service: "development",
			Notes:   "working on the parser",
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, WriteEntriesCSV(&buffer, entries))

	note, err := ParseEntriesCSV("export.csv", bytes.NewReader(buffer.Bytes()))
	require.NoError(t, err)
	require.Len(t, note.Entries, 1)

	parsed := note.Entries[0]
	assert.Equal(t, entries[0].Date, parsed.Date)
	assert.Equal(t, entries[0].Hours, parsed.Hours)
	assert.Equal(t, entries[0].Project, parsed.Project)
	assert.Equal(t, entries[0].Notes, parsed.Notes)
}
