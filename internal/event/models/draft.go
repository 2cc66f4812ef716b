package models

import (
	"strings"

	dErrors "eventgate/pkg/domain-errors"
)

// Draft is the organizer-supplied input for a new event.
type Draft struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// Normalize trims surrounding whitespace from every field.
func (d *Draft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Date = strings.TrimSpace(d.Date)
	d.Location = strings.TrimSpace(d.Location)
}

// Validate requires every field to be non-empty. Call Normalize first.
func (d *Draft) Validate() error {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.Date == "" {
		missing = append(missing, "date")
	}
	if d.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "please fill in all fields: "+strings.Join(missing, ", ")+" required")
	}
	return nil
}
