package projections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

func TestQueryGetSlotBoard(t *testing.T) {
	bookings := []booking.Booking{
		bk("1", ana.Email, "2026-03-02T09:00", booking.StatusBooked),
		bk("2", bruno.Email, "2026-03-02T09:00", booking.StatusAttended),
		bk("3", bruno.Email, "2026-03-02T18:00", booking.StatusCanceled),
	}
	for i := range 6 {
		bookings = append(bookings, bk(string(rune('a'+i)), "member@studio.test", "2026-03-03T07:00", booking.StatusBooked))
	}
	_, books := seeded(t, nil, bookings)

	res, err := QueryGetSlotBoard(context.Background(), GetSlotBoardQuery{Viewer: ana, Now: testNow}, GetSlotBoardDeps{BookingStore: books, Template: template(), Rules: testRules})
	require.NoError(t, err)

	require.Len(t, res.Days, 2)
	assert.Equal(t, "2026-03-02", res.Days[0].Date)
	require.Len(t, res.Days[0].Slots, 2, "07:00 has already started")

	nine := res.Days[0].Slots[0]
	assert.Equal(t, "2026-03-02T09:00", nine.ID)
	assert.Equal(t, 2, nine.Booked)
	assert.Equal(t, 4, nine.Remaining)
	assert.True(t, nine.Mine)
	assert.False(t, nine.Full)

	evening := res.Days[0].Slots[1]
	assert.Equal(t, 0, evening.Booked, "canceled bookings free the seat")
	assert.False(t, evening.Mine)

	full := res.Days[1].Slots[0]
	assert.Equal(t, "2026-03-03T07:00", full.ID)
	assert.True(t, full.Full)
	assert.Equal(t, 0, full.Remaining)
}

func TestQueryGetSlotBoard_RequiresViewSchedule(t *testing.T) {
	_, books := seeded(t, nil, nil)
	nobody := account.Account{Email: "x@studio.test", Role: "guest"}

	_, err := QueryGetSlotBoard(context.Background(), GetSlotBoardQuery{Viewer: nobody, Now: testNow}, GetSlotBoardDeps{BookingStore: books, Template: template(), Rules: testRules})
	assert.ErrorIs(t, err, account.ErrForbidden)
}
