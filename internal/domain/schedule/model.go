package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SlotLayout is the local, zone-less minute-precision form of a slot id.
const SlotLayout = "2006-01-02T15:04"

// DayLayout identifies the calendar day of a slot.
const DayLayout = "2006-01-02"

// Default daily template.
const DefaultDaysAhead = 21

// DefaultTimes are the class start times offered every day.
var DefaultTimes = []string{"07:00", "09:00", "18:00"}

// Domain errors
var (
	ErrInvalidSlot      = errors.New("invalid slot")
	ErrNoTimes          = errors.New("template must offer at least one class time")
	ErrInvalidTime      = errors.New("class time must be in HH:MM format")
	ErrInvalidDaysAhead = errors.New("days ahead must be positive")
)

// Template is the fixed daily class timetable repeated over a rolling window.
// Slots are resolved on-the-fly from the template and never stored.
type Template struct {
	Times     []string // HH:MM format
	DaysAhead int
}

// DefaultTemplate returns the studio's standard timetable.
func DefaultTemplate() Template {
	return Template{Times: append([]string(nil), DefaultTimes...), DaysAhead: DefaultDaysAhead}
}

// Validate checks if the Template has valid data.
// PRE: Template struct is populated
// POST: Returns nil if valid, error otherwise
func (t Template) Validate() error {
	if len(t.Times) == 0 {
		return ErrNoTimes
	}
	for _, s := range t.Times {
		if _, err := time.Parse("15:04", strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}
	if t.DaysAhead <= 0 {
		return ErrInvalidDaysAhead
	}
	return nil
}

// Generate returns the ordered ids of every slot from today through
// DaysAhead-1 days ahead, dropping slots strictly before now.
// Slots are built in now's location.
// PRE: Template is valid
// POST: ids are ascending; the same now always yields the same ids
func (t Template) Generate(now time.Time) []string {
	clock := t.clockTimes()
	loc := now.Location()

	var slots []string
	for i := 0; i < t.DaysAhead; i++ {
		day := now.AddDate(0, 0, i)
		for _, c := range clock {
			start := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, loc)
			if start.Before(now) {
				continue
			}
			slots = append(slots, FormatSlot(start))
		}
	}
	return slots
}

// Contains reports whether id is a slot the template would offer on its day,
// regardless of the look-ahead window.
func (t Template) Contains(id string, loc *time.Location) bool {
	start, err := ParseSlot(id, loc)
	if err != nil {
		return false
	}
	for _, c := range t.clockTimes() {
		if start.Hour() == c.Hour() && start.Minute() == c.Minute() {
			return true
		}
	}
	return false
}

// Offers reports whether id is one of the slots Generate(now) returns: on the
// template, not before now, and inside the DaysAhead window.
// Slots are read in now's location.
func (t Template) Offers(id string, now time.Time) bool {
	if !t.Contains(id, now.Location()) {
		return false
	}
	start, err := ParseSlot(id, now.Location())
	if err != nil || start.Before(now) {
		return false
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, t.DaysAhead)
	return start.Before(end)
}

// clockTimes parses and sorts the template times, skipping malformed entries.
func (t Template) clockTimes() []time.Time {
	clock := make([]time.Time, 0, len(t.Times))
	for _, s := range t.Times {
		c, err := time.Parse("15:04", strings.TrimSpace(s))
		if err != nil {
			continue
		}
		clock = append(clock, c)
	}
	sort.Slice(clock, func(i, j int) bool { return clock[i].Before(clock[j]) })
	return clock
}

// FormatSlot renders t as a slot id in t's own location.
func FormatSlot(t time.Time) string {
	return t.Format(SlotLayout)
}

// ParseSlot reads a slot id as a wall-clock time in loc.
// POST: Returns ErrInvalidSlot (wrapped) for malformed ids
func ParseSlot(id string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(SlotLayout, id, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSlot, id)
	}
	return t, nil
}

// DaySlots is one calendar day of slots.
type DaySlots struct {
	Date  string // YYYY-MM-DD
	Slots []string
}

// GroupByDay buckets slot ids by calendar day, keeping input order.
// Malformed ids are dropped.
func GroupByDay(slots []string) []DaySlots {
	var days []DaySlots
	index := make(map[string]int)
	for _, id := range slots {
		if len(id) < len(DayLayout) {
			continue
		}
		date := id[:len(DayLayout)]
		if _, err := time.Parse(DayLayout, date); err != nil {
			continue
		}
		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, DaySlots{Date: date})
		}
		days[i].Slots = append(days[i].Slots, id)
	}
	return days
}
