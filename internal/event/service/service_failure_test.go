package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"eventgate/internal/audit"
	"eventgate/internal/event/models"
	"eventgate/internal/event/service/mocks"
	"eventgate/internal/role"
	"eventgate/pkg/domain"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/platform/sentinel"
)

var errBackend = errors.New("backend unavailable")

const seededEvent domain.EventID = "7d4f2b1e-9c3a-4e5f-8a6b-1c2d3e4f5a6b"

func seededRecords() []*models.Record {
	return []*models.Record{{
		ID: seededEvent, Title: "Meetup", Date: "2025-12-01", Location: "Hall A",
		CreatedBy: "u1", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Seq: 1,
	}}
}

func newMockedService(t *testing.T, opts ...Option) (*Service, *mocks.MockStore) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	return New(st, role.NewResolver(), opts...), st
}

func expectLoad(st *mocks.MockStore, records []*models.Record, memberships []*models.Membership) {
	st.EXPECT().ListAllEvents(gomock.Any()).Return(records, nil)
	st.EXPECT().ListAllMemberships(gomock.Any()).Return(memberships, nil)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	svc, st := newMockedService(t)
	ctx := context.Background()

	expectLoad(st, seededRecords(), nil)
	require.NoError(t, svc.Refresh(ctx))

	st.EXPECT().ListAllEvents(gomock.Any()).Return(nil, errBackend)
	st.EXPECT().ListAllMemberships(gomock.Any()).Return(nil, nil).AnyTimes()

	err := svc.Refresh(ctx)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
	assert.ErrorIs(t, err, errBackend)

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, seededEvent, events[0].ID)
}

func TestFirstReadFailsWithoutSnapshot(t *testing.T) {
	svc, st := newMockedService(t)
	st.EXPECT().ListAllEvents(gomock.Any()).Return(nil, nil).AnyTimes()
	st.EXPECT().ListAllMemberships(gomock.Any()).Return(nil, errBackend)

	_, err := svc.ListEvents(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
}

func TestStaleSnapshotServedWhenReloadFails(t *testing.T) {
	svc, st := newMockedService(t, WithSnapshotTTL(time.Nanosecond))
	ctx := context.Background()

	expectLoad(st, seededRecords(), nil)
	require.NoError(t, svc.Refresh(ctx))
	time.Sleep(time.Millisecond)

	st.EXPECT().ListAllEvents(gomock.Any()).Return(nil, errBackend)
	st.EXPECT().ListAllMemberships(gomock.Any()).Return(nil, nil).AnyTimes()

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCreateEventStorageFailure(t *testing.T) {
	svc, st := newMockedService(t)
	st.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).Return(domain.EventID(""), errBackend)

	_, err := svc.CreateEvent(context.Background(), alice, meetup)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
	assert.ErrorIs(t, err, errBackend)
}

func TestCreateEventByParticipantNeverWrites(t *testing.T) {
	svc, _ := newMockedService(t) // any store call fails the test

	_, err := svc.CreateEvent(context.Background(), bob, meetup)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestCreateEventFillsRecord(t *testing.T) {
	svc, st := newMockedService(t)
	st.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *models.Record) (domain.EventID, error) {
			assert.Equal(t, "Meetup", rec.Title)
			assert.Equal(t, domain.UserID("u1"), rec.CreatedBy)
			assert.False(t, rec.CreatedAt.IsZero())
			return seededEvent, nil
		})
	expectLoad(st, seededRecords(), nil)

	ev, err := svc.CreateEvent(context.Background(), alice, meetup)
	require.NoError(t, err)
	assert.Equal(t, seededEvent, ev.ID)
}

func TestCreateEventReloadFailure(t *testing.T) {
	svc, st := newMockedService(t)
	st.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).Return(seededEvent, nil)
	st.EXPECT().ListAllEvents(gomock.Any()).Return(nil, errBackend)
	st.EXPECT().ListAllMemberships(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.CreateEvent(context.Background(), alice, meetup)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
}

func TestJoinEvent(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		wantCode dErrors.Code
	}{
		{name: "duplicate reported by store", storeErr: sentinel.ErrAlreadyUsed, wantCode: dErrors.CodeAlreadyJoined},
		{name: "event vanished", storeErr: sentinel.ErrNotFound, wantCode: dErrors.CodeNotFound},
		{name: "backend failure", storeErr: errBackend, wantCode: dErrors.CodeStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newMockedService(t)
			expectLoad(st, seededRecords(), nil)
			require.NoError(t, svc.Refresh(context.Background()))

			st.EXPECT().InsertMembership(gomock.Any(), gomock.Any()).Return(tt.storeErr)
			if tt.wantCode == dErrors.CodeAlreadyJoined {
				expectLoad(st, seededRecords(), []*models.Membership{{EventID: seededEvent, UserID: bob.UserID}})
			}

			err := svc.JoinEvent(context.Background(), bob, seededEvent)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestJoinEventConflictSurvivesReloadFailure(t *testing.T) {
	svc, st := newMockedService(t)
	expectLoad(st, seededRecords(), nil)
	require.NoError(t, svc.Refresh(context.Background()))

	st.EXPECT().InsertMembership(gomock.Any(), gomock.Any()).Return(sentinel.ErrAlreadyUsed)
	st.EXPECT().ListAllEvents(gomock.Any()).Return(nil, errBackend)
	st.EXPECT().ListAllMemberships(gomock.Any()).Return(nil, nil).AnyTimes()

	err := svc.JoinEvent(context.Background(), bob, seededEvent)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyJoined))
}

func TestJoinEventSnapshotHitIsConfirmed(t *testing.T) {
	joined := []*models.Membership{{EventID: seededEvent, UserID: bob.UserID}}
	svc, st := newMockedService(t)
	expectLoad(st, seededRecords(), joined)
	require.NoError(t, svc.Refresh(context.Background()))
	// One confirming reload still shows bob, so no InsertMembership.
	expectLoad(st, seededRecords(), joined)

	err := svc.JoinEvent(context.Background(), bob, seededEvent)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyJoined))
}

func TestJoinEventAfterLeaveElsewhere(t *testing.T) {
	svc, st := newMockedService(t)
	expectLoad(st, seededRecords(), []*models.Membership{{EventID: seededEvent, UserID: bob.UserID}})
	require.NoError(t, svc.Refresh(context.Background()))

	// The store no longer has the membership; the join goes through.
	expectLoad(st, seededRecords(), nil)
	st.EXPECT().InsertMembership(gomock.Any(), gomock.Cond(func(m *models.Membership) bool {
		return m.EventID == seededEvent && m.UserID == bob.UserID && !m.JoinedAt.IsZero()
	})).Return(nil)
	expectLoad(st, seededRecords(), []*models.Membership{{EventID: seededEvent, UserID: bob.UserID}})

	require.NoError(t, svc.JoinEvent(context.Background(), bob, seededEvent))
}

func TestJoinEventConfirmingReloadFailure(t *testing.T) {
	svc, st := newMockedService(t)
	expectLoad(st, seededRecords(), []*models.Membership{{EventID: seededEvent, UserID: bob.UserID}})
	require.NoError(t, svc.Refresh(context.Background()))

	st.EXPECT().ListAllEvents(gomock.Any()).Return(nil, errBackend)
	st.EXPECT().ListAllMemberships(gomock.Any()).Return(nil, nil).AnyTimes()

	err := svc.JoinEvent(context.Background(), bob, seededEvent)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
}

func TestLeaveEventStorageFailureLeavesSnapshot(t *testing.T) {
	svc, st := newMockedService(t)
	joined := []*models.Membership{{EventID: seededEvent, UserID: bob.UserID}}
	expectLoad(st, seededRecords(), joined)
	require.NoError(t, svc.Refresh(context.Background()))

	st.EXPECT().DeleteMembership(gomock.Any(), seededEvent, bob.UserID).Return(errBackend)

	err := svc.LeaveEvent(context.Background(), bob, seededEvent)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))

	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.True(t, events[0].HasAttendee(bob.UserID))
}

func TestLeaveEventNonMemberDoesNotWrite(t *testing.T) {
	svc, st := newMockedService(t)
	expectLoad(st, seededRecords(), nil)
	require.NoError(t, svc.Refresh(context.Background()))
	// One confirming reload, no DeleteMembership.
	expectLoad(st, seededRecords(), nil)

	require.NoError(t, svc.LeaveEvent(context.Background(), bob, seededEvent))
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	pub := mocks.NewMockAuditPublisher(ctrl)
	svc := New(st, role.NewResolver(), WithAuditPublisher(pub))

	expectLoad(st, seededRecords(), nil)
	require.NoError(t, svc.Refresh(context.Background()))
	st.EXPECT().InsertMembership(gomock.Any(), gomock.Any()).Return(nil)
	expectLoad(st, seededRecords(), []*models.Membership{{EventID: seededEvent, UserID: bob.UserID}})
	pub.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
		assert.Equal(t, audit.ActionEventJoined, e.Action)
		assert.Equal(t, bob.UserID, e.UserID)
		assert.Equal(t, seededEvent.String(), e.Subject)
		return errBackend
	})

	assert.NoError(t, svc.JoinEvent(context.Background(), bob, seededEvent))
}

func TestCapabilityResolverIsConsulted(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	roles := mocks.NewMockCapabilityResolver(ctrl)
	svc := New(st, roles)

	// A resolver granting nothing blocks both writes, whatever the email.
	roles.EXPECT().CapabilitiesFor(alice).Return(role.Capabilities{}).Times(2)
	_, err := svc.CreateEvent(context.Background(), alice, meetup)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	err = svc.JoinEvent(context.Background(), alice, seededEvent)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
