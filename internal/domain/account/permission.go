package account

import "fmt"

// Permission names a single action gated by role.
type Permission string

// Permissions understood by the studio.
const (
	PermViewSchedule         Permission = "view_schedule"
	PermMakeBooking          Permission = "make_booking"
	PermViewOwnBookings      Permission = "view_own_bookings"
	PermCancelOwnBooking     Permission = "cancel_own_booking"
	PermRescheduleOwnBooking Permission = "reschedule_own_booking"
	PermViewAllBookings      Permission = "view_all_bookings"
	PermMarkAttendance       Permission = "mark_attendance"
	PermViewTodayClasses     Permission = "view_today_classes"
	PermCancelAnyBooking     Permission = "cancel_any_booking"
	PermRescheduleAnyBooking Permission = "reschedule_any_booking"
	PermManageUsers          Permission = "manage_users"
	PermAssignSessions       Permission = "assign_sessions"
	PermViewReports          Permission = "view_reports"
	PermAdminPanel           Permission = "admin_panel"
)

// Permissions returns the fixed permission set of the role.
// Unknown roles have none.
func (r Role) Permissions() []Permission {
	switch r {
	case RoleClient:
		return []Permission{
			PermViewSchedule,
			PermMakeBooking,
			PermViewOwnBookings,
			PermCancelOwnBooking,
			PermRescheduleOwnBooking,
		}
	case RoleInstructor:
		return []Permission{
			PermViewSchedule,
			PermViewAllBookings,
			PermMarkAttendance,
			PermViewTodayClasses,
		}
	case RoleAdmin:
		return []Permission{
			PermViewSchedule,
			PermMakeBooking,
			PermViewOwnBookings,
			PermViewAllBookings,
			PermCancelAnyBooking,
			PermRescheduleAnyBooking,
			PermMarkAttendance,
			PermViewTodayClasses,
			PermManageUsers,
			PermAssignSessions,
			PermViewReports,
			PermAdminPanel,
		}
	}
	return nil
}

// Can reports whether the role grants p.
func (r Role) Can(p Permission) bool {
	for _, granted := range r.Permissions() {
		if granted == p {
			return true
		}
	}
	return false
}

// Authorize fails with ErrForbidden unless the account's role grants p.
// INVARIANT: Account fields are not mutated
func Authorize(a Account, p Permission) error {
	if !a.Role.Can(p) {
		return fmt.Errorf("%w: %s", ErrForbidden, p)
	}
	return nil
}
