package projections

import (
	"context"
	"time"

	accountStore "studio/internal/adapters/storage/account"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	BookingStore BookingStore
	AccountStore AccountStore
	Rules        booking.Rules
}

// Dashboard carries the studio-wide totals shown to admins.
type Dashboard struct {
	TotalBookings int
	Booked        int
	Attended      int
	Missed        int
	Canceled      int
	Upcoming      int // active bookings whose class has not started
	Refunded      int

	// AttendanceRate is attended / (attended + missed), 0 when nothing is marked.
	AttendanceRate float64

	TotalUsers        int
	Clients           int
	ClientsWithCredit int
	OutstandingCredit int // sum of client balances
}

// QueryGetDashboard aggregates bookings and users.
// PRE: Requester holds view_reports
// POST: Counts reflect the store at call time
func QueryGetDashboard(ctx context.Context, requester account.Account, now time.Time, deps GetDashboardDeps) (Dashboard, error) {
	if err := account.Authorize(requester, account.PermViewReports); err != nil {
		return Dashboard{}, err
	}

	bookings, err := deps.BookingStore.List(ctx, bookingStore.ListFilter{})
	if err != nil {
		return Dashboard{}, err
	}
	users, err := deps.AccountStore.List(ctx, accountStore.ListFilter{})
	if err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	d.TotalBookings = len(bookings)
	for _, b := range bookings {
		switch b.Status {
		case booking.StatusBooked:
			d.Booked++
		case booking.StatusAttended:
			d.Attended++
		case booking.StatusMissed:
			d.Missed++
		case booking.StatusCanceled:
			d.Canceled++
		}
		if b.Refunded {
			d.Refunded++
		}
		if !b.IsActive() {
			continue
		}
		// Skip malformed slot ids rather than failing the whole report.
		if start, err := deps.Rules.SlotStart(b.SlotID); err == nil && !start.Before(now) {
			d.Upcoming++
		}
	}
	if marked := d.Attended + d.Missed; marked > 0 {
		d.AttendanceRate = float64(d.Attended) / float64(marked)
	}

	d.TotalUsers = len(users)
	for _, u := range users {
		if !u.PaysWithSessions() {
			continue
		}
		d.Clients++
		d.OutstandingCredit += u.Sessions
		if u.HasSessions() {
			d.ClientsWithCredit++
		}
	}

	return d, nil
}
