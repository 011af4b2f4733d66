package projections

import (
	"context"
	"time"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

// GetSlotBoardQuery carries query parameters.
type GetSlotBoardQuery struct {
	Viewer account.Account
	Now    time.Time
}

// SlotView is one bookable class with its occupancy.
type SlotView struct {
	ID        string
	Start     time.Time
	Booked    int
	Capacity  int
	Remaining int
	Full      bool
	Mine      bool // the viewer holds an active booking here
}

// BoardDay groups a calendar day's slots.
type BoardDay struct {
	Date  string
	Slots []SlotView
}

// GetSlotBoardResult carries the query result.
type GetSlotBoardResult struct {
	Days []BoardDay
}

// GetSlotBoardDeps holds dependencies for GetSlotBoard.
type GetSlotBoardDeps struct {
	BookingStore BookingStore
	Template     schedule.Template
	Rules        booking.Rules
}

// QueryGetSlotBoard lists the upcoming bookable slots with occupancy.
// PRE: Viewer holds view_schedule
// POST: Days ordered by date, slots by time; Booked never exceeds Capacity for engine-made bookings
func QueryGetSlotBoard(ctx context.Context, query GetSlotBoardQuery, deps GetSlotBoardDeps) (GetSlotBoardResult, error) {
	if err := account.Authorize(query.Viewer, account.PermViewSchedule); err != nil {
		return GetSlotBoardResult{}, err
	}

	loc := deps.Rules.Location
	if loc == nil {
		loc = time.Local
	}
	slots := deps.Template.Generate(query.Now.In(loc))

	active, err := deps.BookingStore.List(ctx, bookingStore.ListFilter{ActiveOnly: true})
	if err != nil {
		return GetSlotBoardResult{}, err
	}
	viewer := account.NormalizeEmail(query.Viewer.Email)

	var days []BoardDay
	for _, day := range schedule.GroupByDay(slots) {
		bd := BoardDay{Date: day.Date}
		for _, id := range day.Slots {
			start, err := deps.Rules.SlotStart(id)
			if err != nil {
				return GetSlotBoardResult{}, err
			}
			n := booking.Occupancy(active, id, "")
			bd.Slots = append(bd.Slots, SlotView{
				ID:        id,
				Start:     start,
				Booked:    n,
				Capacity:  deps.Rules.Capacity,
				Remaining: max(deps.Rules.Capacity-n, 0),
				Full:      deps.Rules.IsFull(n),
				Mine:      booking.HoldsSlot(active, viewer, id, ""),
			})
		}
		days = append(days, bd)
	}

	return GetSlotBoardResult{Days: days}, nil
}
