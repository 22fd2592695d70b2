// Package timesheet defines the time entry model and the parsing of
// free-text time-tracking note files into entries.
package timesheet

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one tracked unit of work. Entries are read-only inputs to the
// query engine: execution aggregates them but never mutates them.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Date    time.Time `json:"date"`
	Hours   float64   `json:"hours"`
	Rate    float64   `json:"rate,omitempty"`
	Project string    `json:"project,omitempty"`
	Service string    `json:"service,omitempty"`
	Notes   string    `json:"notes,omitempty"`
}

// Invoiced is the billable amount for the entry. Entries without a rate
// contribute hours but no invoiced amount.
func (entry Entry) Invoiced() float64 {
	return entry.Hours * entry.Rate
}
