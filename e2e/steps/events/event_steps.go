package events

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	As(user, method, path string, body any) error
	GET(path string, headers map[string]string) error
	GetStatus() int
	GetResponseField(field string) (any, error)
	GetLastEventID() string
	SetLastEventID(id string)
}

// RegisterSteps registers event directory and membership steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &eventSteps{tc: tc}

	ctx.Step(`^"([^"]*)" creates an event "([^"]*)" on "([^"]*)" at "([^"]*)"$`, steps.createEvent)
	ctx.Step(`^"([^"]*)" joins the event$`, steps.joinEvent)
	ctx.Step(`^"([^"]*)" leaves the event$`, steps.leaveEvent)
	ctx.Step(`^"([^"]*)" lists all events$`, steps.listEvents)
	ctx.Step(`^"([^"]*)" lists their events$`, steps.myEvents)
	ctx.Step(`^I list events without authentication$`, steps.listAnonymously)
	ctx.Step(`^the event should have (\d+) attendees?$`, steps.eventShouldHaveAttendees)
	ctx.Step(`^the list should contain (\d+) events?$`, steps.listShouldContain)
}

type eventSteps struct {
	tc TestContext
}

func (s *eventSteps) createEvent(_ context.Context, user, title, date, location string) error {
	if err := s.tc.As(user, http.MethodPost, "/events", map[string]string{
		"title":    title,
		"date":     date,
		"location": location,
	}); err != nil {
		return err
	}
	if s.tc.GetStatus() != http.StatusCreated {
		return nil
	}
	id, err := s.tc.GetResponseField("event.id")
	if err != nil {
		return err
	}
	s.tc.SetLastEventID(fmt.Sprint(id))
	return nil
}

func (s *eventSteps) joinEvent(_ context.Context, user string) error {
	return s.tc.As(user, http.MethodPost, s.attendeesPath(), nil)
}

func (s *eventSteps) leaveEvent(_ context.Context, user string) error {
	return s.tc.As(user, http.MethodDelete, s.attendeesPath(), nil)
}

func (s *eventSteps) listEvents(_ context.Context, user string) error {
	return s.tc.As(user, http.MethodGet, "/events", nil)
}

func (s *eventSteps) myEvents(_ context.Context, user string) error {
	return s.tc.As(user, http.MethodGet, "/me/events", nil)
}

func (s *eventSteps) listAnonymously(context.Context) error {
	return s.tc.GET("/events", nil)
}

// eventShouldHaveAttendees reads the shared directory as the last actor saw it.
func (s *eventSteps) eventShouldHaveAttendees(_ context.Context, want int) error {
	events, err := s.tc.GetResponseField("events")
	if err != nil {
		return err
	}
	list, _ := events.([]any)
	for _, raw := range list {
		ev, _ := raw.(map[string]any)
		if fmt.Sprint(ev["id"]) != s.tc.GetLastEventID() {
			continue
		}
		if got := int(ev["attendee_count"].(float64)); got != want {
			return fmt.Errorf("expected %d attendees, got %d", want, got)
		}
		return nil
	}
	return fmt.Errorf("event %s not in response", s.tc.GetLastEventID())
}

func (s *eventSteps) listShouldContain(_ context.Context, want int) error {
	count, err := s.tc.GetResponseField("count")
	if err != nil {
		return err
	}
	if got := int(count.(float64)); got != want {
		return fmt.Errorf("expected %d events, got %d", want, got)
	}
	return nil
}

func (s *eventSteps) attendeesPath() string {
	return "/events/" + s.tc.GetLastEventID() + "/attendees"
}
