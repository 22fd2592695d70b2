package timesheet

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"hermannm.dev/wrap"
)

// NoteFile is the parsed form of one time-tracking notes file.
type NoteFile struct {
	Name    string
	Entries []Entry
	// Warnings describe lines that were skipped because they could not be
	// parsed as time entries. Malformed lines never fail the whole file.
	Warnings []string
}

// Frontmatter carries per-file defaults applied to every entry in the file.
type Frontmatter struct {
	Project string  `yaml:"project"`
	Rate    float64 `yaml:"rate"`
	Service string  `yaml:"service"`
}

const frontmatterDelimiter = "---"

// ParseNoteFile parses a markdown notes file with optional YAML frontmatter.
// The body holds one entry per line:
//
//	2024-03-05 8h working on the parser @development
//
// i.e. a date, an hour count (with optional 'h' suffix), free-text notes, and
// an optional trailing @service tag overriding the file's default service.
// Lines that are empty, comments (#) or unparseable are skipped; unparseable
// lines are collected as warnings.
func ParseNoteFile(name string, content []byte) (NoteFile, error) {
	noteFile := NoteFile{Name: name}

	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return NoteFile{}, wrap.Errorf(err, "invalid frontmatter in note file '%s'", name)
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseEntryLine(line, frontmatter)
		if err != nil {
			noteFile.Warnings = append(
				noteFile.Warnings, fmt.Sprintf("line %d: %v", lineNumber, err),
			)
			continue
		}
		noteFile.Entries = append(noteFile.Entries, entry)
	}

	return noteFile, nil
}

func splitFrontmatter(content []byte) (Frontmatter, []byte, error) {
	var frontmatter Frontmatter

	trimmed := bytes.TrimLeft(content, "\r\n \t")
	if !bytes.HasPrefix(trimmed, []byte(frontmatterDelimiter)) {
		return frontmatter, content, nil
	}

	rest := trimmed[len(frontmatterDelimiter):]
	end := bytes.Index(rest, []byte("\n"+frontmatterDelimiter))
	if end == -1 {
		return frontmatter, nil, fmt.Errorf("unterminated frontmatter block")
	}

	if err := yaml.Unmarshal(rest[:end], &frontmatter); err != nil {
		return frontmatter, nil, err
	}

	body := rest[end+len("\n"+frontmatterDelimiter):]
	return frontmatter, body, nil
}

func parseEntryLine(line string, frontmatter Frontmatter) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Entry{}, fmt.Errorf("expected '<date> <hours> <notes>', got '%s'", line)
	}

	date, err := dateparse.ParseAny(fields[0])
	if err != nil {
		return Entry{}, fmt.Errorf("unparseable date '%s'", fields[0])
	}

	hours, err := parseHours(fields[1])
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:      uuid.New(),
		Date:    date,
		Hours:   hours,
		Rate:    frontmatter.Rate,
		Project: frontmatter.Project,
		Service: frontmatter.Service,
	}

	notes := fields[2:]
	if len(notes) > 0 {
		if last := notes[len(notes)-1]; strings.HasPrefix(last, "@") && len(last) > 1 {
			entry.Service = last[1:]
			notes = notes[:len(notes)-1]
		}
	}
	entry.Notes = strings.Join(notes, " ")

	return entry, nil
}

func parseHours(field string) (float64, error) {
	trimmed := strings.TrimSuffix(field, "h")
	hours, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable hour count '%s'", field)
	}
	if hours < 0 {
		return 0, fmt.Errorf("negative hour count '%s'", field)
	}
	return hours, nil
}
