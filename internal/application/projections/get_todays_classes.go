package projections

import (
	"context"
	"sort"
	"time"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

// GetTodaysClassesDeps holds dependencies for the projection.
type GetTodaysClassesDeps struct {
	BookingStore BookingStore
	Template     schedule.Template
	Rules        booking.Rules
}

// TodaysClassResult represents a single class resolved for today.
type TodaysClassResult struct {
	SlotID    string
	StartTime string // HH:MM
	Capacity  int
	Attendees []booking.Booking // non-canceled, in booking order
}

// QueryGetTodaysClasses resolves today's classes from the template plus any
// booked slot that falls on today.
// PRE: Requester holds view_today_classes
// POST: Classes ordered by start time; empty template classes included
func QueryGetTodaysClasses(ctx context.Context, requester account.Account, now time.Time, deps GetTodaysClassesDeps) ([]TodaysClassResult, error) {
	if err := account.Authorize(requester, account.PermViewTodayClasses); err != nil {
		return nil, err
	}

	loc := deps.Rules.Location
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc).Format(schedule.DayLayout)

	bookings, err := deps.BookingStore.List(ctx, bookingStore.ListFilter{Date: today, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	bySlot := make(map[string][]booking.Booking)
	for _, t := range deps.Template.Times {
		bySlot[today+"T"+t] = nil
	}
	for _, b := range bookings {
		bySlot[b.SlotID] = append(bySlot[b.SlotID], b)
	}

	results := make([]TodaysClassResult, 0, len(bySlot))
	for id, attendees := range bySlot {
		start, err := deps.Rules.SlotStart(id)
		if err != nil {
			return nil, err
		}
		if attendees == nil {
			attendees = []booking.Booking{}
		}
		results = append(results, TodaysClassResult{
			SlotID:    id,
			StartTime: start.Format("15:04"),
			Capacity:  deps.Rules.Capacity,
			Attendees: attendees,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].SlotID < results[j].SlotID })

	return results, nil
}
