package projections

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	accountStore "studio/internal/adapters/storage/account"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/adapters/storage/kv"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

var (
	ana   = account.Account{Email: "ana@studio.test", Name: "Ana", Role: account.RoleClient, Sessions: 3}
	bruno = account.Account{Email: "bruno@studio.test", Name: "Bruno", Role: account.RoleClient}
	coach = account.Account{Email: "coach@studio.test", Name: "Coach", Role: account.RoleInstructor}
	boss  = account.Account{Email: "boss@studio.test", Name: "Boss", Role: account.RoleAdmin}
)

var testRules = booking.Rules{Capacity: 6, ChangeWindow: 24 * time.Hour, Location: time.UTC}

// seeded returns stores holding the given users and bookings.
func seeded(t *testing.T, users []account.Account, bookings []booking.Booking) (*accountStore.KVStore, *bookingStore.KVStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	accounts := accountStore.NewKVStore(mem)
	books := bookingStore.NewKVStore(mem)
	for _, u := range users {
		require.NoError(t, accounts.Save(context.Background(), u))
	}
	for _, b := range bookings {
		require.NoError(t, books.Save(context.Background(), b))
	}
	return accounts, books
}

func bk(id, email, slot string, status booking.Status) booking.Booking {
	return booking.Booking{ID: id, Email: email, SlotID: slot, Status: status, CreatedAt: testNow}
}

func template() schedule.Template {
	return schedule.Template{Times: []string{"07:00", "09:00", "18:00"}, DaysAhead: 2}
}
