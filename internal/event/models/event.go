package models

import (
	"time"

	"eventgate/pkg/domain"
)

// Event is an entry in the shared directory.
//
// Invariants:
//   - ID is assigned by the persistence layer and never reused
//   - CreatedBy is fixed at creation
//   - Attendees is a set; it changes only through join and leave
type Event struct {
	ID        domain.EventID `json:"id"`
	Title     string         `json:"title"`
	Date      string         `json:"date"`
	Location  string         `json:"location"`
	CreatedBy domain.UserID  `json:"created_by"`
	Attendees AttendeeSet    `json:"attendees"`
	CreatedAt time.Time      `json:"created_at"`
	// Seq is the persistence layer's insertion order. Listings sort on it
	// alone; CreatedAt is informational.
	Seq int64 `json:"-"`
}

// Involves reports whether userID created or joined the event. This single
// predicate serves both the organizer and participant "my events" views.
func (e *Event) Involves(userID domain.UserID) bool {
	return e.CreatedBy == userID || e.Attendees.Has(userID)
}

// HasAttendee reports whether userID has joined the event.
func (e *Event) HasAttendee(userID domain.UserID) bool {
	return e.Attendees.Has(userID)
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Attendees = e.Attendees.Clone()
	return &c
}

// Record is the raw event row as stored by the persistence provider, without
// the attendee relation.
type Record struct {
	ID        domain.EventID
	Title     string
	Date      string
	Location  string
	CreatedBy domain.UserID
	CreatedAt time.Time
	Seq       int64
}

// Membership is one (event, user) pair of the attendee relation.
type Membership struct {
	EventID  domain.EventID
	UserID   domain.UserID
	JoinedAt time.Time
}
