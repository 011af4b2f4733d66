package projections

import (
	"context"
	"time"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

// GetMemberBookingsQuery carries query parameters.
// Email defaults to the requester's own.
type GetMemberBookingsQuery struct {
	Requester       account.Account
	Email           string
	Now             time.Time
	IncludeCanceled bool
}

// MemberBooking is a booking annotated for the owner's list.
type MemberBooking struct {
	booking.Booking
	Start      time.Time
	Upcoming   bool
	Changeable bool // owner may still cancel with refund or reschedule
}

// GetMemberBookingsDeps holds dependencies for GetMemberBookings.
type GetMemberBookingsDeps struct {
	BookingStore BookingStore
	Rules        booking.Rules
}

// QueryGetMemberBookings lists one user's bookings ordered by slot.
// PRE: Own list needs view_own_bookings or view_all_bookings; others' needs view_all_bookings
// POST: Each booking flagged upcoming and changeable relative to Now
func QueryGetMemberBookings(ctx context.Context, query GetMemberBookingsQuery, deps GetMemberBookingsDeps) ([]MemberBooking, error) {
	self := account.NormalizeEmail(query.Requester.Email)
	email := account.NormalizeEmail(query.Email)
	if email == "" {
		email = self
	}

	if email != self || !query.Requester.Role.Can(account.PermViewOwnBookings) {
		if err := account.Authorize(query.Requester, account.PermViewAllBookings); err != nil {
			return nil, err
		}
	}

	list, err := deps.BookingStore.List(ctx, bookingStore.ListFilter{Email: email, ActiveOnly: !query.IncludeCanceled})
	if err != nil {
		return nil, err
	}

	out := make([]MemberBooking, 0, len(list))
	for _, b := range list {
		start, err := deps.Rules.SlotStart(b.SlotID)
		if err != nil {
			return nil, err
		}
		out = append(out, MemberBooking{
			Booking:    b,
			Start:      start,
			Upcoming:   !start.Before(query.Now),
			Changeable: b.Status == booking.StatusBooked && booking.WithinChangeWindow(start, query.Now, deps.Rules.ChangeWindow),
		})
	}
	return out, nil
}
