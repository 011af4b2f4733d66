package orchestrators

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
	"studio/internal/metrics"
)

// validate checks the struct tags on orchestrator inputs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// timeNow returns fn, or time.Now when fn is nil.
func timeNow(fn func() time.Time) func() time.Time {
	if fn == nil {
		return time.Now
	}
	return fn
}

// checkSlot rejects ids that are not an open class at now: malformed, off the
// template, already started or beyond the look-ahead window.
// A zero Template means schedule.DefaultTemplate.
// POST: Returns schedule.ErrInvalidSlot (wrapped) on rejection
func checkSlot(id string, tmpl schedule.Template, rules booking.Rules, now time.Time) error {
	if _, err := rules.SlotStart(id); err != nil {
		return err
	}
	if len(tmpl.Times) == 0 {
		tmpl = schedule.DefaultTemplate()
	}
	loc := rules.Location
	if loc == nil {
		loc = time.Local
	}
	if !tmpl.Offers(id, now.In(loc)) {
		return fmt.Errorf("%w: %q is not an open class", schedule.ErrInvalidSlot, id)
	}
	return nil
}

// outcome maps an operation error to the short label recorded in metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, account.ErrForbidden):
		return "forbidden"
	case errors.Is(err, account.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, booking.ErrNoSessions):
		return "no_sessions"
	case errors.Is(err, booking.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, booking.ErrClassFull):
		return "class_full"
	case errors.Is(err, booking.ErrBookingNotFound):
		return "booking_not_found"
	case errors.Is(err, booking.ErrCannotChange):
		return "cannot_change"
	case errors.Is(err, booking.ErrConflict):
		return "conflict"
	case errors.Is(err, booking.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, schedule.ErrInvalidSlot):
		return "invalid_slot"
	default:
		return "error"
	}
}

// recordOp counts one booking engine call.
func recordOp(op string, err error) {
	metrics.BookingOpsTotal.WithLabelValues(op, outcome(err)).Inc()
}
