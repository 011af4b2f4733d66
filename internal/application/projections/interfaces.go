package projections

import (
	"context"

	accountStore "studio/internal/adapters/storage/account"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

// BookingStore interface for booking queries.
type BookingStore interface {
	List(ctx context.Context, filter bookingStore.ListFilter) ([]booking.Booking, error)
}

// AccountStore interface for user queries.
type AccountStore interface {
	List(ctx context.Context, filter accountStore.ListFilter) ([]account.Account, error)
}
