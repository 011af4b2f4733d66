package orchestrators

import (
	"context"
	"errors"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

// AccountStore defines the account persistence needed by the booking engine
// and session accounting.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// BookingStore defines the booking persistence needed by the booking engine.
type BookingStore interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	Save(ctx context.Context, b booking.Booking) error
	List(ctx context.Context, filter bookingStore.ListFilter) ([]booking.Booking, error)
}

// CurrentUserStore keeps the signed-in user snapshot.
type CurrentUserStore interface {
	Get(ctx context.Context) (account.Account, bool, error)
	Set(ctx context.Context, a account.Account) error
	Clear(ctx context.Context) error
}

// ErrNotSignedIn is returned when an operation needs a current user and
// nobody is signed in.
var ErrNotSignedIn = errors.New("not signed in")
