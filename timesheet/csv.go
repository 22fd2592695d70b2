package timesheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"hermannm.dev/wrap"
)

// csvColumns is the column order for both import and export.
var csvColumns = []string{"date", "hours", "project", "service", "rate", "notes"}

var csvDelimitersToCheck = []rune{',', ';', '\t'}

// ParseEntriesCSV reads time entries from a CSV file with columns
// date,hours,project,service,rate,notes. The field delimiter is deduced from
// the header row. Malformed rows become warnings, like malformed note lines.
func ParseEntriesCSV(name string, file io.ReadSeeker) (NoteFile, error) {
	delimiter, err := deduceFieldDelimiter(file)
	if err != nil {
		return NoteFile{}, err
	}

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = len(csvColumns)

	header, err := reader.Read()
	if err != nil {
		return NoteFile{}, wrap.Error(err, "failed to read CSV header row")
	}
	for i, column := range csvColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), column) {
			return NoteFile{}, fmt.Errorf(
				"unexpected CSV header column '%s' (expected '%s')", header[i], column,
			)
		}
	}

	note := NoteFile{Name: name}
	for rowNumber := 2; ; rowNumber++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			note.Warnings = append(
				note.Warnings, fmt.Sprintf("skipped malformed CSV row %d: %v", rowNumber, err),
			)
			continue
		}

		entry, err := entryFromCSVRow(row)
		if err != nil {
			note.Warnings = append(
				note.Warnings, fmt.Sprintf("skipped CSV row %d: %v", rowNumber, err),
			)
			continue
		}
		note.Entries = append(note.Entries, entry)
	}

	return note, nil
}

func entryFromCSVRow(row []string) (Entry, error) {
	date, err := dateparse.ParseAny(strings.TrimSpace(row[0]))
	if err != nil {
		return Entry{}, wrap.Errorf(err, "invalid date '%s'", row[0])
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil || hours < 0 {
		return Entry{}, fmt.Errorf("invalid hours '%s'", row[1])
	}

	rate := 0.0
	if rateField := strings.TrimSpace(row[4]); rateField != "" {
		rate, err = strconv.ParseFloat(rateField, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("invalid rate '%s'", row[4])
		}
	}

	return Entry{
		Date:    date,
		Hours:   hours,
		Project: strings.TrimSpace(row[2]),
		Service: strings.TrimSpace(row[3]),
		Rate:    rate,
		Notes:   strings.TrimSpace(row[5]),
	}, nil
}

// WriteEntriesCSV writes the entries as CSV in the same column order that
// ParseEntriesCSV reads.
func WriteEntriesCSV(destination io.Writer, entries []Entry) error {
	writer := csv.NewWriter(destination)

	if err := writer.Write(csvColumns); err != nil {
		return wrap.Error(err, "failed to write CSV header row")
	}

	for _, entry := range entries {
		row := []string{
			entry.Date.Format("2006-01-02"),
			strconv.FormatFloat(entry.Hours, 'f', -1, 64),
			entry.Project,
			entry.Service,
			strconv.FormatFloat(entry.Rate, 'f', -1, 64),
			entry.Notes,
		}
		if err := writer.Write(row); err != nil {
			return wrap.Error(err, "failed to write CSV entry row")
		}
	}

	writer.Flush()
	return writer.Error()
}

// deduceFieldDelimiter picks the candidate delimiter occurring most in the
// header row, resetting the reader position before returning.
func deduceFieldDelimiter(file io.ReadSeeker) (delimiter rune, err error) {
	defer func() {
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			err = wrap.Error(seekErr, "failed to reset CSV reader after deducing field delimiter")
		}
	}()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return 0, errors.New("CSV file ended before header row")
	}
	headerRow := scanner.Text()

	delimiter = csvDelimitersToCheck[0]
	bestCount := 0
	for _, candidate := range csvDelimitersToCheck {
		if count := strings.Count(headerRow, string(candidate)); count > bestCount {
			delimiter = candidate
			bestCount = count
		}
	}
	return delimiter, nil
}
