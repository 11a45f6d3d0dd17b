package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisStore(client, WithTTL(time.Hour))
	require.NoError(t, err)
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	s := NewSession("abc", true, time.Now())
	require.NoError(t, s.Begin(IntentBooking))
	s.Slots.Merge(SlotCityName, "Kazan")
	s.Slots.ApplyTicket(sampleFlight())
	require.NoError(t, store.Save(ctx, s))

	assert.True(t, mr.Exists("ticket:session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("ticket:session:abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, IntentBooking, got.Intent)
	assert.Equal(t, s.Slots, got.Slots)
	assert.True(t, got.Streaming)
}

func TestRedisStoreLoadMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewSession("gone", false, time.Now())))
	require.NoError(t, store.Delete(ctx, "gone"))
	assert.False(t, mr.Exists("ticket:session:gone"))
}

func TestRedisStoreRejectsInvalidSession(t *testing.T) {
	store, _ := newTestRedisStore(t)

	s := NewSession("bad", false, time.Now())
	s.Slots[SlotSeatPlace] = "A1"
	assert.ErrorIs(t, store.Save(context.Background(), s), ErrDerivedMismatch)
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, err := store.Load(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestMemoryStoreCopiesOnLoadAndSave(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	s := NewSession("m-1", false, time.Now())
	require.NoError(t, store.Save(ctx, s))
	s.Slots.Merge(SlotEmail, "late@example.com")

	got, err := store.Load(ctx, "m-1")
	require.NoError(t, err)
	assert.False(t, got.Slots.IsSet(SlotEmail))

	got.Slots.Merge(SlotCityName, "Perm")
	again, err := store.Load(ctx, "m-1")
	require.NoError(t, err)
	assert.False(t, again.Slots.IsSet(SlotCityName))

	require.NoError(t, store.Delete(ctx, "m-1"))
	_, err = store.Load(ctx, "m-1")
	assert.ErrorIs(t, err, ErrStateNotFound)
}
