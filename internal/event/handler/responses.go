package handler

import (
	"time"

	"eventgate/internal/event/models"
	"eventgate/pkg/domain"
)

// CreateEventRequest is the body of POST /events.
type CreateEventRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

func (r CreateEventRequest) Draft() models.Draft {
	return models.Draft{Title: r.Title, Date: r.Date, Location: r.Location}
}

type EventResponse struct {
	ID            domain.EventID  `json:"id"`
	Title         string          `json:"title"`
	Date          string          `json:"date"`
	Location      string          `json:"location"`
	CreatedBy     domain.UserID   `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	Attendees     []domain.UserID `json:"attendees"`
	AttendeeCount int             `json:"attendee_count"`
	// Joined reports whether the caller is an attendee.
	Joined bool `json:"joined"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

type EventCreatedResponse struct {
	Event   EventResponse `json:"event"`
	Message string        `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toEventResponse(ev *models.Event, caller domain.UserID) EventResponse {
	attendees := ev.Attendees.Sorted()
	return EventResponse{
		ID:            ev.ID,
		Title:         ev.Title,
		Date:          ev.Date,
		Location:      ev.Location,
		CreatedBy:     ev.CreatedBy,
		CreatedAt:     ev.CreatedAt,
		Attendees:     attendees,
		AttendeeCount: len(attendees),
		Joined:        ev.HasAttendee(caller),
	}
}

func toListResponse(events []*models.Event, caller domain.UserID) EventListResponse {
	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventResponse(ev, caller))
	}
	return EventListResponse{Events: out, Count: len(out)}
}
