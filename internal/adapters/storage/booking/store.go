package booking

import (
	"context"

	domain "studio/internal/domain/booking"
)

// Key is the kv key holding the booking list.
const Key = "bookings"

// Store persists Booking state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	Save(ctx context.Context, value domain.Booking) error
	List(ctx context.Context, filter ListFilter) ([]domain.Booking, error)
	Clear(ctx context.Context) error
}

// ListFilter carries filtering parameters for List operations.
// Empty fields match everything.
type ListFilter struct {
	Email      string
	SlotID     string
	Date       string // YYYY-MM-DD prefix of the slot id
	ActiveOnly bool
}

// Matches reports whether b passes the filter.
func (f ListFilter) Matches(b domain.Booking) bool {
	if f.Email != "" && b.Email != f.Email {
		return false
	}
	if f.SlotID != "" && b.SlotID != f.SlotID {
		return false
	}
	if f.Date != "" && (len(b.SlotID) < len(f.Date) || b.SlotID[:len(f.Date)] != f.Date) {
		return false
	}
	if f.ActiveOnly && !b.IsActive() {
		return false
	}
	return true
}
