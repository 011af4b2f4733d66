package booking

import (
	"errors"
	"strings"
	"time"
)

// Studio defaults.
const (
	DefaultCapacity     = 6
	DefaultChangeWindow = 24 * time.Hour
)

// Status is the lifecycle state of a booking.
type Status string

// Status constants
const (
	StatusBooked   Status = "booked"
	StatusAttended Status = "attended"
	StatusMissed   Status = "missed"
	StatusCanceled Status = "canceled"
)

// AttendanceStatuses are the values an instructor may set.
var AttendanceStatuses = []Status{StatusBooked, StatusAttended, StatusMissed}

// Domain errors
var (
	ErrNoSessions      = errors.New("no sessions available")
	ErrAlreadyBooked   = errors.New("you already booked this class")
	ErrClassFull       = errors.New("class is full")
	ErrBookingNotFound = errors.New("booking not found")
	ErrCannotChange    = errors.New("too close to class start to change this booking")
	ErrConflict        = errors.New("you already have a booking at that time")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrEmptyEmail      = errors.New("booking must belong to a user")
	ErrEmptySlot       = errors.New("booking must reference a slot")
)

// Booking is a reservation of one class slot by one user.
// Bookings are never deleted; cancellation is a status.
type Booking struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	SlotID    string    `json:"slot"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	CanceledAt time.Time `json:"canceled_at,omitzero"`
	CanceledBy string    `json:"canceled_by,omitempty"`
	Refunded   bool      `json:"refunded,omitempty"`

	RescheduledAt   time.Time `json:"rescheduled_at,omitzero"`
	RescheduledBy   string    `json:"rescheduled_by,omitempty"`
	RescheduledFrom string    `json:"rescheduled_from,omitempty"`

	AttendanceMarkedAt time.Time `json:"attendance_marked_at,omitzero"`
	AttendanceMarkedBy string    `json:"attendance_marked_by,omitempty"`
}

// Validate checks if the Booking has valid data.
// PRE: Booking struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.Email) == "" {
		return ErrEmptyEmail
	}
	if strings.TrimSpace(b.SlotID) == "" {
		return ErrEmptySlot
	}
	switch b.Status {
	case StatusBooked, StatusAttended, StatusMissed, StatusCanceled:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// IsActive reports whether the booking holds a seat.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCanceled
}

// IsCanceled reports whether the booking was canceled.
func (b *Booking) IsCanceled() bool {
	return b.Status == StatusCanceled
}

// Cancel marks the booking canceled.
// PRE: booking is not already canceled
// POST: Status is canceled, audit fields set
func (b *Booking) Cancel(by string, at time.Time, refunded bool) {
	b.Status = StatusCanceled
	b.CanceledAt = at
	b.CanceledBy = by
	b.Refunded = refunded
}

// MoveTo points the booking at another slot, keeping id and status.
// POST: SlotID is slot, previous slot recorded
func (b *Booking) MoveTo(slot, by string, at time.Time) {
	b.RescheduledFrom = b.SlotID
	b.SlotID = slot
	b.RescheduledAt = at
	b.RescheduledBy = by
}

// MarkAttendance records an instructor's attendance decision.
// Re-marking an attended or missed booking is allowed.
// PRE: status is one of AttendanceStatuses
// POST: Status updated, audit fields set
func (b *Booking) MarkAttendance(status Status, by string, at time.Time) error {
	if !IsAttendanceStatus(status) {
		return ErrInvalidStatus
	}
	if b.IsCanceled() {
		return ErrInvalidStatus
	}
	b.Status = status
	b.AttendanceMarkedAt = at
	b.AttendanceMarkedBy = by
	return nil
}

// IsAttendanceStatus reports whether s may be set by markAttendance.
func IsAttendanceStatus(s Status) bool {
	for _, v := range AttendanceStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// WithinChangeWindow reports whether the class starting at slotStart is still
// at least window away from now.
func WithinChangeWindow(slotStart, now time.Time, window time.Duration) bool {
	return slotStart.Sub(now) >= window
}

// Occupancy counts active bookings on slot, ignoring the booking with id
// exclude (pass "" to count all).
func Occupancy(bookings []Booking, slot, exclude string) int {
	n := 0
	for _, b := range bookings {
		if b.SlotID == slot && b.IsActive() && b.ID != exclude {
			n++
		}
	}
	return n
}

// HoldsSlot reports whether email has an active booking on slot other than
// the booking with id exclude.
func HoldsSlot(bookings []Booking, email, slot, exclude string) bool {
	for _, b := range bookings {
		if b.Email == email && b.SlotID == slot && b.IsActive() && b.ID != exclude {
			return true
		}
	}
	return false
}

// Find returns the booking with the given id.
func Find(bookings []Booking, id string) (int, bool) {
	for i, b := range bookings {
		if b.ID == id {
			return i, true
		}
	}
	return -1, false
}
