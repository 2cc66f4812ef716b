package lockout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/session/lockout"
	dErrors "eventgate/pkg/domain-errors"
	"eventgate/pkg/requestcontext"
)

func TestKeyNormalizesEmail(t *testing.T) {
	assert.Equal(t, "bob@gmail.com|203.0.113.7", lockout.Key("  Bob@Gmail.com ", "203.0.113.7"))
}

func TestServiceLocksAfterMaxFailures(t *testing.T) {
	svc := lockout.New(lockout.NewInMemoryStore(), lockout.WithPolicy(lockout.Policy{MaxFailures: 2}))
	ctx := requestcontext.WithClientMetadata(context.Background(), "203.0.113.7", "")

	require.NoError(t, svc.Check(ctx, "bob@gmail.com"))
	locked, err := svc.RecordFailure(ctx, "bob@gmail.com")
	require.NoError(t, err)
	assert.False(t, locked)
	locked, err = svc.RecordFailure(ctx, "bob@gmail.com")
	require.NoError(t, err)
	assert.True(t, locked)

	err = svc.Check(ctx, "bob@gmail.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRateLimited), "got %v", err)
	assert.Contains(t, dErrors.MessageOf(err), "15m0s")

	require.NoError(t, svc.Clear(ctx, "bob@gmail.com"))
	assert.NoError(t, svc.Check(ctx, "bob@gmail.com"))
}

func TestWithPolicyKeepsDefaultsForZeroFields(t *testing.T) {
	store := &recordingStore{}
	svc := lockout.New(store, lockout.WithPolicy(lockout.Policy{MaxFailures: 1}))

	locked, err := svc.RecordFailure(context.Background(), "bob@gmail.com")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, lockout.DefaultPolicy().Window, store.window)
	assert.Equal(t, lockout.DefaultPolicy().LockDuration, store.lock)
}

func TestServiceWrapsStoreErrors(t *testing.T) {
	svc := lockout.New(&recordingStore{err: errors.New("redis down")})
	ctx := context.Background()

	err := svc.Check(ctx, "bob@gmail.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
	_, err = svc.RecordFailure(ctx, "bob@gmail.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
	err = svc.Clear(ctx, "bob@gmail.com")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStorage))
}

type recordingStore struct {
	err    error
	count  int
	window time.Duration
	lock   time.Duration
}

func (r *recordingStore) RecordFailure(_ context.Context, _ string, window time.Duration) (int, error) {
	r.window = window
	r.count++
	return r.count, r.err
}

func (r *recordingStore) Lock(_ context.Context, _ string, d time.Duration) error {
	r.lock = d
	return r.err
}

func (r *recordingStore) LockedFor(context.Context, string) (time.Duration, error) {
	return 0, r.err
}

func (r *recordingStore) Clear(context.Context, string) error {
	return r.err
}
