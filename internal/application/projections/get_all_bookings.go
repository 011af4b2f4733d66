package projections

import (
	"context"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/application/listutil"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

// GetAllBookingsQuery carries query parameters.
type GetAllBookingsQuery struct {
	Requester account.Account
	Filter    bookingStore.ListFilter
	listutil.PageParams
}

// GetAllBookingsResult carries the query result.
type GetAllBookingsResult struct {
	Bookings []booking.Booking
	Page     listutil.PageInfo
}

// GetAllBookingsDeps holds dependencies for GetAllBookings.
type GetAllBookingsDeps struct {
	BookingStore BookingStore
}

// QueryGetAllBookings lists every user's bookings, ordered by slot.
// PRE: Requester holds view_all_bookings
// POST: Returns one page of bookings matching Filter
func QueryGetAllBookings(ctx context.Context, query GetAllBookingsQuery, deps GetAllBookingsDeps) (GetAllBookingsResult, error) {
	if err := account.Authorize(query.Requester, account.PermViewAllBookings); err != nil {
		return GetAllBookingsResult{}, err
	}

	filter := query.Filter
	filter.Email = account.NormalizeEmail(filter.Email)
	list, err := deps.BookingStore.List(ctx, filter)
	if err != nil {
		return GetAllBookingsResult{}, err
	}

	page, info := listutil.Paginate(list, query.PageParams)
	return GetAllBookingsResult{Bookings: page, Page: info}, nil
}
