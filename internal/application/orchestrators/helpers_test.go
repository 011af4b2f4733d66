package orchestrators

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	accountStore "studio/internal/adapters/storage/account"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/adapters/storage/current"
	"studio/internal/adapters/storage/kv"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

// testNow is 08:00 on a Monday; the slots below are measured from it.
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

const (
	farSlot  = "2026-03-05T09:00" // 73h away
	slot30h  = "2026-03-03T14:00"
	nearSlot = "2026-03-02T18:00" // 10h away
)

// testTemplate offers the three slots above over a week.
var testTemplate = schedule.Template{Times: []string{"07:00", "09:00", "14:00", "18:00"}, DaysAhead: 7}

var (
	ana   = account.Account{Email: "ana@studio.test", Name: "Ana", Role: account.RoleClient, Sessions: 5}
	bruno = account.Account{Email: "bruno@studio.test", Name: "Bruno", Role: account.RoleClient, Sessions: 5}
	coach = account.Account{Email: "coach@studio.test", Name: "Coach", Role: account.RoleInstructor}
	boss  = account.Account{Email: "boss@studio.test", Name: "Boss", Role: account.RoleAdmin}
)

// testStudio wires the kv-backed stores over one in-memory kv.
type testStudio struct {
	accounts *accountStore.KVStore
	bookings *bookingStore.KVStore
	current  *current.KVStore
	template schedule.Template
	rules    booking.Rules
	now      time.Time
	ids      int
}

func newTestStudio(t *testing.T, users ...account.Account) *testStudio {
	t.Helper()
	mem := kv.NewMemoryStore()
	s := &testStudio{
		accounts: accountStore.NewKVStore(mem),
		bookings: bookingStore.NewKVStore(mem),
		current:  current.NewKVStore(mem),
		template: testTemplate,
		rules:    booking.Rules{Capacity: booking.DefaultCapacity, ChangeWindow: booking.DefaultChangeWindow, Location: time.UTC},
		now:      testNow,
	}
	for _, u := range users {
		require.NoError(t, s.accounts.Save(context.Background(), u))
	}
	return s
}

func (s *testStudio) clock() time.Time { return s.now }

func (s *testStudio) nextID() string {
	s.ids++
	return fmt.Sprintf("b%d", s.ids)
}

func (s *testStudio) createDeps() CreateBookingDeps {
	return CreateBookingDeps{AccountStore: s.accounts, BookingStore: s.bookings, Template: s.template, Rules: s.rules, Now: s.clock, GenerateID: s.nextID}
}

func (s *testStudio) cancelDeps() CancelBookingDeps {
	return CancelBookingDeps{AccountStore: s.accounts, BookingStore: s.bookings, Rules: s.rules, Now: s.clock}
}

func (s *testStudio) rescheduleDeps() RescheduleBookingDeps {
	return RescheduleBookingDeps{BookingStore: s.bookings, Template: s.template, Rules: s.rules, Now: s.clock}
}

func (s *testStudio) attendanceDeps() MarkAttendanceDeps {
	return MarkAttendanceDeps{BookingStore: s.bookings, Now: s.clock}
}

// book creates a booking and fails the test on error.
func (s *testStudio) book(t *testing.T, user account.Account, slot string) booking.Booking {
	t.Helper()
	res, err := ExecuteCreateBooking(context.Background(), CreateBookingInput{User: user, SlotID: slot}, s.createDeps())
	require.NoError(t, err)
	return res.Booking
}

func (s *testStudio) balance(t *testing.T, email string) int {
	t.Helper()
	a, err := s.accounts.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return a.Sessions
}

func (s *testStudio) occupancy(t *testing.T, slot string) int {
	t.Helper()
	list, err := s.bookings.List(context.Background(), bookingStore.ListFilter{SlotID: slot, ActiveOnly: true})
	require.NoError(t, err)
	return len(list)
}
