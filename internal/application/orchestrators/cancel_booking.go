package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/metrics"
)

// CancelBookingInput carries input for the cancel booking orchestrator.
type CancelBookingInput struct {
	BookingID string `validate:"required"`
	Requester account.Account
}

// NoRefundReason says why a cancel returned no session.
type NoRefundReason string

const (
	NoRefundLate            NoRefundReason = "late"             // owner canceled inside the change window
	NoRefundNoCredit        NoRefundReason = "no_credit"        // owner does not pay with sessions
	NoRefundOwnerRemoved    NoRefundReason = "owner_removed"    // owner no longer exists
	NoRefundAlreadyCanceled NoRefundReason = "already_canceled" // repeat cancel of an unrefunded booking
)

// CancelBookingResult carries the canceled booking.
// NoRefund is empty when Refunded is true.
type CancelBookingResult struct {
	Booking  booking.Booking
	Refunded bool
	NoRefund NoRefundReason
}

// CancelBookingDeps holds dependencies for CancelBooking.
type CancelBookingDeps struct {
	AccountStore AccountStore
	BookingStore BookingStore
	Rules        booking.Rules
	Now          func() time.Time
}

// ExecuteCancelBooking cancels a booking and refunds the owner's session when
// the class is at least the change window away or an admin cancels.
// PRE: Requester owns the booking or is admin
// POST: Booking status is canceled; canceling twice returns the record unchanged
// INVARIANT: A refund only ever raises a client's balance by one
func ExecuteCancelBooking(ctx context.Context, input CancelBookingInput, deps CancelBookingDeps) (result CancelBookingResult, err error) {
	defer func() { recordOp("cancel", err) }()

	if err := validate.Struct(input); err != nil {
		return CancelBookingResult{}, booking.ErrBookingNotFound
	}

	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return CancelBookingResult{}, err
	}
	if b.IsCanceled() {
		res := CancelBookingResult{Booking: b, Refunded: b.Refunded}
		if !b.Refunded {
			res.NoRefund = NoRefundAlreadyCanceled
		}
		return res, nil
	}

	requester := input.Requester
	if !owns(requester, b) && !requester.IsAdmin() {
		return CancelBookingResult{}, account.ErrForbidden
	}

	now := timeNow(deps.Now)()
	inWindow, err := deps.Rules.CanChange(b, now)
	if err != nil {
		return CancelBookingResult{}, err
	}

	reason := ""
	switch {
	case inWindow:
		reason = "window"
	case requester.IsAdmin():
		reason = "admin"
	}

	var owner account.Account
	refunded := false
	var noRefund NoRefundReason
	if reason == "" {
		noRefund = NoRefundLate
		if !requester.PaysWithSessions() {
			noRefund = NoRefundNoCredit
		}
	} else {
		owner, err = deps.AccountStore.GetByEmail(ctx, b.Email)
		switch {
		case err == nil:
			refunded = owner.PaysWithSessions()
			if !refunded {
				noRefund = NoRefundNoCredit
			}
		case errors.Is(err, account.ErrUserNotFound):
			noRefund = NoRefundOwnerRemoved
		default:
			return CancelBookingResult{}, err
		}
	}

	b.Cancel(account.NormalizeEmail(requester.Email), now, refunded)
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		return CancelBookingResult{}, fmt.Errorf("save booking: %w", err)
	}

	if refunded {
		owner.AddSessions(1)
		if err := deps.AccountStore.Save(ctx, owner); err != nil {
			return CancelBookingResult{}, fmt.Errorf("refund session: %w", err)
		}
		metrics.RefundsTotal.WithLabelValues(reason).Inc()
	}

	log.Info().Str("event", "booking_canceled").Str("booking_id", b.ID).Str("email", b.Email).Str("slot", b.SlotID).Str("by", b.CanceledBy).Bool("refunded", refunded).Msg("booking_event")

	return CancelBookingResult{Booking: b, Refunded: refunded, NoRefund: noRefund}, nil
}

// owns reports whether a is the owner of b.
func owns(a account.Account, b booking.Booking) bool {
	return account.NormalizeEmail(a.Email) == b.Email
}
