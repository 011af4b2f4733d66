package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

// CreateBookingInput carries input for the create booking orchestrator.
// User is the signed-in snapshot; only its email is trusted.
type CreateBookingInput struct {
	User   account.Account
	SlotID string `validate:"required"`
}

// CreateBookingResult carries the new booking and the user after the debit.
type CreateBookingResult struct {
	Booking booking.Booking
	User    account.Account
}

// CreateBookingDeps holds dependencies for CreateBooking.
type CreateBookingDeps struct {
	AccountStore AccountStore
	BookingStore BookingStore
	Template     schedule.Template
	Rules        booking.Rules
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteCreateBooking reserves a seat in a class slot.
// PRE: SlotID is an open class on the template, not yet started
// POST: A booked Booking is stored; a client's balance is one lower
// INVARIANT: At most one active booking per (user, slot); occupancy never exceeds capacity
func ExecuteCreateBooking(ctx context.Context, input CreateBookingInput, deps CreateBookingDeps) (result CreateBookingResult, err error) {
	defer func() { recordOp("create", err) }()

	if err := validate.Struct(input); err != nil {
		return CreateBookingResult{}, fmt.Errorf("%w: slot is required", schedule.ErrInvalidSlot)
	}
	now := timeNow(deps.Now)()
	if err := checkSlot(input.SlotID, deps.Template, deps.Rules, now); err != nil {
		return CreateBookingResult{}, err
	}

	user, err := deps.AccountStore.GetByEmail(ctx, input.User.Email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return CreateBookingResult{}, account.ErrUserNotFound
		}
		return CreateBookingResult{}, err
	}

	if user.PaysWithSessions() && !user.HasSessions() {
		log.Info().Str("event", "booking_rejected").Str("email", user.Email).Str("slot", input.SlotID).Str("reason", "no_sessions").Msg("booking_event")
		return CreateBookingResult{}, booking.ErrNoSessions
	}

	taken, err := deps.BookingStore.List(ctx, bookingStore.ListFilter{SlotID: input.SlotID, ActiveOnly: true})
	if err != nil {
		return CreateBookingResult{}, err
	}
	if booking.HoldsSlot(taken, user.Email, input.SlotID, "") {
		return CreateBookingResult{}, booking.ErrAlreadyBooked
	}
	if deps.Rules.IsFull(booking.Occupancy(taken, input.SlotID, "")) {
		log.Info().Str("event", "booking_rejected").Str("email", user.Email).Str("slot", input.SlotID).Str("reason", "class_full").Msg("booking_event")
		return CreateBookingResult{}, booking.ErrClassFull
	}

	generateID := deps.GenerateID
	if generateID == nil {
		generateID = func() string { return uuid.New().String() }
	}

	b := booking.Booking{
		ID:        generateID(),
		Email:     user.Email,
		Name:      user.Name,
		SlotID:    input.SlotID,
		Status:    booking.StatusBooked,
		CreatedAt: now,
	}
	if err := b.Validate(); err != nil {
		return CreateBookingResult{}, err
	}

	// INVARIANT: a stored booking always has its debit.
	if user.PaysWithSessions() {
		user.AddSessions(-1)
		if err := deps.AccountStore.Save(ctx, user); err != nil {
			return CreateBookingResult{}, fmt.Errorf("debit session: %w", err)
		}
	}
	if err := deps.BookingStore.Save(ctx, b); err != nil {
		if user.PaysWithSessions() {
			user.AddSessions(1)
			if rbErr := deps.AccountStore.Save(ctx, user); rbErr != nil {
				log.Error().Err(rbErr).Str("email", user.Email).Msg("restore session after failed booking")
			}
		}
		return CreateBookingResult{}, fmt.Errorf("save booking: %w", err)
	}

	log.Info().Str("event", "booking_created").Str("booking_id", b.ID).Str("email", user.Email).Str("slot", b.SlotID).Int("sessions_left", user.Sessions).Msg("booking_event")

	return CreateBookingResult{Booking: b, User: user}, nil
}
