package booking_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"studio/internal/adapters/storage"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/adapters/storage/kv"
	"studio/internal/domain/booking"
)

var created = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// newSQLiteBackedStore exercises the booking list against a real sqlite kv table.
func newSQLiteBackedStore(t *testing.T) *bookingStore.KVStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.InitDB(db))
	return bookingStore.NewKVStore(kv.NewSQLiteStore(db))
}

func TestKVStore_SaveGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteBackedStore(t)

	b := booking.Booking{ID: "b1", Email: "ana@studio.test", SlotID: "2026-03-05T07:00", Status: booking.StatusBooked, CreatedAt: created}
	require.NoError(t, s.Save(ctx, b))

	got, err := s.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, b.SlotID, got.SlotID)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.CanceledAt.IsZero())

	b.Cancel("ana@studio.test", created.Add(time.Hour), true)
	require.NoError(t, s.Save(ctx, b))

	got, err = s.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCanceled, got.Status)
	assert.True(t, got.Refunded)

	all, err := s.List(ctx, bookingStore.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "save must update, not append")
}

func TestKVStore_GetByID_NotFound(t *testing.T) {
	s := bookingStore.NewKVStore(kv.NewMemoryStore())

	_, err := s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestKVStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := bookingStore.NewKVStore(kv.NewMemoryStore())

	seed := []booking.Booking{
		{ID: "3", Email: "ana@studio.test", SlotID: "2026-03-06T18:00", Status: booking.StatusBooked, CreatedAt: created},
		{ID: "1", Email: "ana@studio.test", SlotID: "2026-03-05T07:00", Status: booking.StatusBooked, CreatedAt: created},
		{ID: "2", Email: "bo@studio.test", SlotID: "2026-03-05T07:00", Status: booking.StatusCanceled, CreatedAt: created.Add(time.Minute)},
	}
	for _, b := range seed {
		require.NoError(t, s.Save(ctx, b))
	}

	all, err := s.List(ctx, bookingStore.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	ana, err := s.List(ctx, bookingStore.ListFilter{Email: "ana@studio.test"})
	require.NoError(t, err)
	assert.Len(t, ana, 2)

	active, err := s.List(ctx, bookingStore.ListFilter{SlotID: "2026-03-05T07:00", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "1", active[0].ID)

	day, err := s.List(ctx, bookingStore.ListFilter{Date: "2026-03-05"})
	require.NoError(t, err)
	assert.Len(t, day, 2)

	require.NoError(t, s.Clear(ctx))
	all, err = s.List(ctx, bookingStore.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
