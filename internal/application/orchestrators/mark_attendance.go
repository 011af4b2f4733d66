package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

// MarkAttendanceInput carries input for the mark attendance orchestrator.
type MarkAttendanceInput struct {
	BookingID string         `validate:"required"`
	Status    booking.Status `validate:"required,oneof=booked attended missed"`
	Requester account.Account
}

// MarkAttendanceDeps holds dependencies for MarkAttendance.
type MarkAttendanceDeps struct {
	BookingStore BookingStore
	Now          func() time.Time
}

// ExecuteMarkAttendance records whether a member came to class.
// PRE: Requester holds mark_attendance
// POST: Booking status and attendance audit fields updated
// INVARIANT: No capacity or session balance side effects
func ExecuteMarkAttendance(ctx context.Context, input MarkAttendanceInput, deps MarkAttendanceDeps) (result booking.Booking, err error) {
	defer func() { recordOp("attendance", err) }()

	if err := account.Authorize(input.Requester, account.PermMarkAttendance); err != nil {
		return booking.Booking{}, err
	}
	if !booking.IsAttendanceStatus(input.Status) {
		return booking.Booking{}, fmt.Errorf("%w: %q", booking.ErrInvalidStatus, input.Status)
	}
	if err := validate.Struct(input); err != nil {
		return booking.Booking{}, booking.ErrBookingNotFound
	}

	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return booking.Booking{}, err
	}
	if err := b.MarkAttendance(input.Status, account.NormalizeEmail(input.Requester.Email), timeNow(deps.Now)()); err != nil {
		return booking.Booking{}, fmt.Errorf("%w: booking is %s", err, b.Status)
	}
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return booking.Booking{}, fmt.Errorf("save booking: %w", err)
	}

	log.Info().Str("event", "attendance_marked").Str("booking_id", b.ID).Str("email", b.Email).Str("slot", b.SlotID).Str("status", string(b.Status)).Str("by", b.AttendanceMarkedBy).Msg("booking_event")

	return b, nil
}
