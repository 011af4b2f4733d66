package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

// RescheduleBookingInput carries input for the reschedule orchestrator.
type RescheduleBookingInput struct {
	BookingID string `validate:"required"`
	NewSlotID string `validate:"required"`
	Requester account.Account
}

// RescheduleBookingDeps holds dependencies for RescheduleBooking.
type RescheduleBookingDeps struct {
	BookingStore BookingStore
	Template     schedule.Template
	Rules        booking.Rules
	Now          func() time.Time
}

// ExecuteRescheduleBooking moves a booked reservation to another slot.
// Admins are exempt from the change window. No session balance changes.
// PRE: Booking is booked; requester owns it or is admin; NewSlotID is an open class
// POST: Same booking id and status, SlotID is NewSlotID, audit fields set
// INVARIANT: Target occupancy, excluding this booking, stays within capacity
func ExecuteRescheduleBooking(ctx context.Context, input RescheduleBookingInput, deps RescheduleBookingDeps) (result booking.Booking, err error) {
	defer func() { recordOp("reschedule", err) }()

	if input.BookingID == "" {
		return booking.Booking{}, booking.ErrBookingNotFound
	}
	if err := validate.Struct(input); err != nil {
		return booking.Booking{}, fmt.Errorf("%w: new slot is required", schedule.ErrInvalidSlot)
	}
	now := timeNow(deps.Now)()
	if err := checkSlot(input.NewSlotID, deps.Template, deps.Rules, now); err != nil {
		return booking.Booking{}, err
	}

	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return booking.Booking{}, err
	}

	requester := input.Requester
	if !owns(requester, b) && !requester.IsAdmin() {
		return booking.Booking{}, account.ErrForbidden
	}
	if b.Status != booking.StatusBooked {
		return booking.Booking{}, fmt.Errorf("%w: only booked classes can be rescheduled", booking.ErrInvalidStatus)
	}

	target, err := deps.BookingStore.List(ctx, bookingStore.ListFilter{SlotID: input.NewSlotID, ActiveOnly: true})
	if err != nil {
		return booking.Booking{}, err
	}
	if booking.HoldsSlot(target, b.Email, input.NewSlotID, b.ID) {
		return booking.Booking{}, booking.ErrConflict
	}

	if !requester.IsAdmin() {
		ok, err := deps.Rules.CanChange(b, now)
		if err != nil {
			return booking.Booking{}, err
		}
		if !ok {
			return booking.Booking{}, booking.ErrCannotChange
		}
	}

	if deps.Rules.IsFull(booking.Occupancy(target, input.NewSlotID, b.ID)) {
		return booking.Booking{}, booking.ErrClassFull
	}

	b.MoveTo(input.NewSlotID, account.NormalizeEmail(requester.Email), now)
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return booking.Booking{}, fmt.Errorf("save booking: %w", err)
	}

	log.Info().Str("event", "booking_rescheduled").Str("booking_id", b.ID).Str("email", b.Email).Str("from", b.RescheduledFrom).Str("to", b.SlotID).Str("by", b.RescheduledBy).Msg("booking_event")

	return b, nil
}
