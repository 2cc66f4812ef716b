package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"eventgate/internal/audit"
	"eventgate/internal/event/metrics"
	"eventgate/internal/event/models"
	"eventgate/internal/event/store"
	"eventgate/internal/role"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/requestcontext"
)

var (
	alice = domain.Identity{UserID: "u1", Email: "alice@sso.com"}
	bob   = domain.Identity{UserID: "u2", Email: "bob@gmail.com"}
	carol = domain.Identity{UserID: "u3", Email: "carol@organizer.example.org"}
	dave  = domain.Identity{UserID: "u4", Email: "dave@example.com"}
)

var meetup = models.Draft{Title: "Meetup", Date: "2025-12-01", Location: "Hall A"}

// ServiceSuite exercises the membership store against the in-memory
// persistence provider.
type ServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	audit   *audit.InMemoryStore
	metrics *metrics.Metrics
	spans   *tracetest.SpanRecorder
	service *Service
	clock   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.audit = audit.NewInMemoryStore()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.spans = tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.spans))
	s.clock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.service = New(s.store, role.NewResolver(),
		WithAuditPublisher(audit.NewPublisher(s.audit)),
		WithMetrics(s.metrics),
		WithTracer(tp.Tracer("test")),
	)
}

// ctx returns a context whose request time advances by one minute per call.
func (s *ServiceSuite) ctx() context.Context {
	s.clock = s.clock.Add(time.Minute)
	return requestcontext.WithTime(context.Background(), s.clock)
}

func (s *ServiceSuite) create(identity domain.Identity, draft models.Draft) *models.Event {
	ev, err := s.service.CreateEvent(s.ctx(), identity, draft)
	s.Require().NoError(err)
	return ev
}

func (s *ServiceSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func (s *ServiceSuite) TestOrganizerCreatesEvent() {
	earlier := s.create(carol, models.Draft{Title: "Warmup", Date: "2025-11-01", Location: "Hall B"})

	// Given an organizer identity
	s.Equal(role.Organizer, role.DeriveRole(alice.Email))

	// When creating an event
	ev, err := s.service.CreateEvent(s.ctx(), alice, meetup)

	// Then it is returned with no attendees and listed first
	s.Require().NoError(err)
	s.Equal(domain.UserID("u1"), ev.CreatedBy)
	s.Equal(0, ev.Attendees.Len())
	s.Equal("Meetup", ev.Title)
	s.False(ev.ID.IsNil())

	events, err := s.service.ListEvents(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(ev.ID, events[0].ID)
	s.Equal(earlier.ID, events[1].ID)

	s.Equal(float64(2), promtestutil.ToFloat64(s.metrics.EventsCreated))
	recorded, err := s.audit.ListByUser(context.Background(), "u1")
	s.Require().NoError(err)
	s.Require().Len(recorded, 1)
	s.Equal(audit.ActionEventCreated, recorded[0].Action)
	s.Equal(ev.ID.String(), recorded[0].Subject)
}

func (s *ServiceSuite) TestCreateTrimsFields() {
	ev := s.create(alice, models.Draft{Title: "  Meetup ", Date: " 2025-12-01", Location: "Hall A  "})
	s.Equal("Meetup", ev.Title)
	s.Equal("2025-12-01", ev.Date)
	s.Equal("Hall A", ev.Location)
}

func (s *ServiceSuite) TestParticipantCannotCreate() {
	s.create(alice, meetup)

	_, err := s.service.CreateEvent(s.ctx(), bob, meetup)
	s.requireCode(err, dErrors.CodeUnauthorized)

	records, err := s.store.ListAllEvents(context.Background())
	s.Require().NoError(err)
	s.Len(records, 1, "no durable write for a participant")
}

func (s *ServiceSuite) TestCreateRejectsBlankFields() {
	for _, draft := range []models.Draft{
		{Title: "", Date: "2025-12-01", Location: "Hall A"},
		{Title: "Meetup", Date: "   ", Location: "Hall A"},
		{Title: "Meetup", Date: "2025-12-01", Location: "\t"},
	} {
		_, err := s.service.CreateEvent(s.ctx(), alice, draft)
		s.requireCode(err, dErrors.CodeInvalidInput)
	}
	records, err := s.store.ListAllEvents(context.Background())
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *ServiceSuite) TestCreateRequiresIdentity() {
	_, err := s.service.CreateEvent(s.ctx(), domain.Identity{}, meetup)
	s.requireCode(err, dErrors.CodeUnauthenticated)
}

func (s *ServiceSuite) TestJoinTwice() {
	ev := s.create(alice, meetup)

	// Given a participant
	s.Equal(role.Participant, role.DeriveRole(bob.Email))

	// When joining twice
	s.Require().NoError(s.service.JoinEvent(s.ctx(), bob, ev.ID))
	err := s.service.JoinEvent(s.ctx(), bob, ev.ID)

	// Then the second join is rejected and the attendee appears once
	s.requireCode(err, dErrors.CodeAlreadyJoined)
	events, err := s.service.ListEvents(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal([]domain.UserID{"u2"}, events[0].Attendees.Sorted())

	mine, err := s.service.MyEvents(s.ctx(), bob.UserID)
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(ev.ID, mine[0].ID)

	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.MembershipChanges.WithLabelValues("joined")))
	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.MembershipChanges.WithLabelValues("already_joined")))
}

func (s *ServiceSuite) TestOrganizerCannotJoin() {
	ev := s.create(alice, meetup)

	for _, organizer := range []domain.Identity{alice, carol} {
		err := s.service.JoinEvent(s.ctx(), organizer, ev.ID)
		s.requireCode(err, dErrors.CodeUnauthorized)
	}
	memberships, err := s.store.ListAllMemberships(context.Background())
	s.Require().NoError(err)
	s.Empty(memberships)
}

func (s *ServiceSuite) TestJoinUnknownEvent() {
	err := s.service.JoinEvent(s.ctx(), bob, domain.NewEventID())
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *ServiceSuite) TestJoinRequiresIdentity() {
	ev := s.create(alice, meetup)
	err := s.service.JoinEvent(s.ctx(), domain.Identity{}, ev.ID)
	s.requireCode(err, dErrors.CodeUnauthenticated)
}

func (s *ServiceSuite) TestLeave() {
	ev := s.create(alice, meetup)
	s.Require().NoError(s.service.JoinEvent(s.ctx(), bob, ev.ID))
	s.Require().NoError(s.service.JoinEvent(s.ctx(), dave, ev.ID))

	s.Run("member leaves", func() {
		s.Require().NoError(s.service.LeaveEvent(s.ctx(), bob, ev.ID))
		events, err := s.service.ListEvents(s.ctx())
		s.Require().NoError(err)
		s.Equal([]domain.UserID{"u4"}, events[0].Attendees.Sorted())
	})

	s.Run("non-member leave is a no-op", func() {
		s.Require().NoError(s.service.LeaveEvent(s.ctx(), bob, ev.ID))
		events, err := s.service.ListEvents(s.ctx())
		s.Require().NoError(err)
		s.Equal([]domain.UserID{"u4"}, events[0].Attendees.Sorted())
	})

	s.Run("leave then rejoin", func() {
		s.Require().NoError(s.service.JoinEvent(s.ctx(), bob, ev.ID))
		events, err := s.service.ListEvents(s.ctx())
		s.Require().NoError(err)
		s.Equal([]domain.UserID{"u2", "u4"}, events[0].Attendees.Sorted())
	})

	s.Run("unknown event", func() {
		s.requireCode(s.service.LeaveEvent(s.ctx(), bob, domain.NewEventID()), dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestMyEvents() {
	a := s.create(alice, models.Draft{Title: "A", Date: "2025-12-01", Location: "Hall A"})
	b := s.create(alice, models.Draft{Title: "B", Date: "2025-12-02", Location: "Hall A"})
	c := s.create(carol, models.Draft{Title: "C", Date: "2025-12-03", Location: "Hall C"})
	s.Require().NoError(s.service.JoinEvent(s.ctx(), bob, c.ID))

	s.Run("organizer sees what they created", func() {
		mine, err := s.service.MyEvents(s.ctx(), alice.UserID)
		s.Require().NoError(err)
		s.Equal([]domain.EventID{b.ID, a.ID}, ids(mine))
	})

	s.Run("participant sees what they joined", func() {
		mine, err := s.service.MyEvents(s.ctx(), bob.UserID)
		s.Require().NoError(err)
		s.Equal([]domain.EventID{c.ID}, ids(mine))
	})

	s.Run("stranger sees nothing", func() {
		mine, err := s.service.MyEvents(s.ctx(), dave.UserID)
		s.Require().NoError(err)
		s.NotNil(mine)
		s.Empty(mine)
	})
}

func (s *ServiceSuite) TestSameInstantOrderedByInsertion() {
	at := requestcontext.WithTime(context.Background(), s.clock)
	first, err := s.service.CreateEvent(at, alice, meetup)
	s.Require().NoError(err)
	second, err := s.service.CreateEvent(at, alice, meetup)
	s.Require().NoError(err)

	events, err := s.service.ListEvents(s.ctx())
	s.Require().NoError(err)
	s.Equal([]domain.EventID{second.ID, first.ID}, ids(events))
}

func (s *ServiceSuite) TestOrderFollowsInsertionNotRequestClock() {
	// The first insert carries the later request time.
	first, err := s.service.CreateEvent(requestcontext.WithTime(context.Background(), s.clock.Add(time.Hour)), alice, meetup)
	s.Require().NoError(err)
	second, err := s.service.CreateEvent(requestcontext.WithTime(context.Background(), s.clock), alice, meetup)
	s.Require().NoError(err)

	events, err := s.service.ListEvents(s.ctx())
	s.Require().NoError(err)
	s.Equal([]domain.EventID{second.ID, first.ID}, ids(events))
}

func (s *ServiceSuite) TestReturnedEventsAreCopies() {
	ev := s.create(alice, meetup)
	ev.Attendees.Add("intruder")
	ev.Title = "changed"

	events, err := s.service.ListEvents(s.ctx())
	s.Require().NoError(err)
	events[0].Attendees.Add("intruder")

	again, err := s.service.ListEvents(s.ctx())
	s.Require().NoError(err)
	s.Equal("Meetup", again[0].Title)
	s.Equal(0, again[0].Attendees.Len())
}

func (s *ServiceSuite) TestSnapshotPicksUpForeignWrites() {
	ev := s.create(alice, meetup)

	// Another instance writes directly to the shared store.
	s.Require().NoError(s.store.InsertMembership(context.Background(), &models.Membership{EventID: ev.ID, UserID: bob.UserID}))

	s.Run("duplicate detected by the store", func() {
		err := s.service.JoinEvent(s.ctx(), bob, ev.ID)
		s.requireCode(err, dErrors.CodeAlreadyJoined)
	})

	s.Run("snapshot reloaded after the conflict", func() {
		events, err := s.service.ListEvents(s.ctx())
		s.Require().NoError(err)
		s.True(events[0].HasAttendee(bob.UserID))
	})
}

func (s *ServiceSuite) TestRejoinAfterForeignLeave() {
	ev := s.create(alice, meetup)
	s.Require().NoError(s.service.JoinEvent(s.ctx(), bob, ev.ID))

	// Another instance removes the membership directly.
	s.Require().NoError(s.store.DeleteMembership(context.Background(), ev.ID, bob.UserID))

	s.Require().NoError(s.service.JoinEvent(s.ctx(), bob, ev.ID))
	events, err := s.service.ListEvents(s.ctx())
	s.Require().NoError(err)
	s.True(events[0].HasAttendee(bob.UserID))
}

func (s *ServiceSuite) TestLookupMissReloads() {
	s.Require().NoError(s.service.Refresh(context.Background()))
	id, err := s.store.InsertEvent(context.Background(), &models.Record{
		Title: "Elsewhere", Date: "2025-12-01", Location: "Hall Z", CreatedBy: "org-9", CreatedAt: s.clock,
	})
	s.Require().NoError(err)

	s.NoError(s.service.JoinEvent(s.ctx(), bob, id))
}

func (s *ServiceSuite) TestSpansRecorded() {
	ev := s.create(alice, meetup)
	s.Require().NoError(s.service.JoinEvent(s.ctx(), bob, ev.ID))

	var names []string
	for _, span := range s.spans.Ended() {
		names = append(names, span.Name())
	}
	s.Contains(names, "event.CreateEvent")
	s.Contains(names, "event.JoinEvent")
	s.Contains(names, "event.Refresh")
}

func ids(events []*models.Event) []domain.EventID {
	out := make([]domain.EventID, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

// gatedStore holds its first ListAllEvents call open until release is
// closed. The rows it returns are read before blocking.
type gatedStore struct {
	*store.InMemory
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedStore() *gatedStore {
	return &gatedStore{InMemory: store.NewInMemory(), entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) ListAllEvents(ctx context.Context) ([]*models.Record, error) {
	first := false
	g.once.Do(func() { first = true })
	records, err := g.InMemory.ListAllEvents(ctx)
	if !first {
		return records, err
	}
	close(g.entered)
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return records, err
}

func TestReadsDoNotWaitForSlowReload(t *testing.T) {
	st := newGatedStore()
	svc := New(st, role.NewResolver())

	slow := make(chan error, 1)
	go func() { slow <- svc.Refresh(context.Background()) }()
	<-st.entered

	read := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := svc.ListEvents(ctx)
		read <- err
	}()
	select {
	case err := <-read:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ListEvents waited on a reload it did not start")
	}

	close(st.release)
	require.NoError(t, <-slow)
}

func TestOutdatedReloadDoesNotReplaceNewerSnapshot(t *testing.T) {
	st := newGatedStore()
	svc := New(st, role.NewResolver())

	slow := make(chan error, 1)
	go func() { slow <- svc.Refresh(context.Background()) }()
	<-st.entered

	created, err := svc.CreateEvent(context.Background(), alice, meetup)
	require.NoError(t, err)

	close(st.release)
	require.NoError(t, <-slow)

	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].ID)
}
