package booking

import (
	"time"

	"studio/internal/domain/schedule"
)

// Rules are the studio-wide booking limits.
type Rules struct {
	Capacity     int
	ChangeWindow time.Duration
	Location     *time.Location // slot ids are wall-clock times here
}

// DefaultRules returns capacity 6 and a 24 hour change window in local time.
func DefaultRules() Rules {
	return Rules{Capacity: DefaultCapacity, ChangeWindow: DefaultChangeWindow, Location: time.Local}
}

// SlotStart parses a slot id in the studio location.
func (r Rules) SlotStart(slot string) (time.Time, error) {
	return schedule.ParseSlot(slot, r.Location)
}

// CanChange reports whether the booking's class is still at least the change
// window away from now.
// POST: Returns schedule.ErrInvalidSlot (wrapped) for a malformed slot id
func (r Rules) CanChange(b Booking, now time.Time) (bool, error) {
	start, err := r.SlotStart(b.SlotID)
	if err != nil {
		return false, err
	}
	return WithinChangeWindow(start, now, r.ChangeWindow), nil
}

// IsFull reports whether occupancy has reached capacity.
func (r Rules) IsFull(occupancy int) bool {
	return occupancy >= r.Capacity
}
