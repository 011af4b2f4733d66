package orchestrators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

func TestMarkAttendance_ClientIsForbidden(t *testing.T) {
	s := newTestStudio(t, ana)
	b := s.book(t, ana, nearSlot)

	_, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{BookingID: b.ID, Status: booking.StatusAttended, Requester: ana}, s.attendanceDeps())
	assert.ErrorIs(t, err, account.ErrForbidden)
}

func TestMarkAttendance_StaffMarks(t *testing.T) {
	for _, staff := range []account.Account{coach, boss} {
		t.Run(string(staff.Role), func(t *testing.T) {
			s := newTestStudio(t, ana)
			b := s.book(t, ana, nearSlot)

			marked, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{BookingID: b.ID, Status: booking.StatusAttended, Requester: staff}, s.attendanceDeps())
			require.NoError(t, err)
			assert.Equal(t, booking.StatusAttended, marked.Status)
			assert.Equal(t, staff.Email, marked.AttendanceMarkedBy)
			assert.Equal(t, testNow, marked.AttendanceMarkedAt)

			assert.Equal(t, 4, s.balance(t, ana.Email), "no credit side effects")
			assert.Equal(t, 1, s.occupancy(t, nearSlot), "attended still holds the seat")
		})
	}
}

func TestMarkAttendance_Remark(t *testing.T) {
	s := newTestStudio(t, ana)
	b := s.book(t, ana, nearSlot)

	_, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{BookingID: b.ID, Status: booking.StatusMissed, Requester: coach}, s.attendanceDeps())
	require.NoError(t, err)
	back, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{BookingID: b.ID, Status: booking.StatusBooked, Requester: coach}, s.attendanceDeps())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusBooked, back.Status)
}

func TestMarkAttendance_Errors(t *testing.T) {
	s := newTestStudio(t, ana)
	b := s.book(t, ana, farSlot)
	gone := s.book(t, ana, slot30h)
	_, err := ExecuteCancelBooking(context.Background(), CancelBookingInput{BookingID: gone.ID, Requester: ana}, s.cancelDeps())
	require.NoError(t, err)

	tests := []struct {
		name  string
		input MarkAttendanceInput
		want  error
	}{
		{"canceled is not an attendance status", MarkAttendanceInput{BookingID: b.ID, Status: booking.StatusCanceled, Requester: coach}, booking.ErrInvalidStatus},
		{"unknown status", MarkAttendanceInput{BookingID: b.ID, Status: "late", Requester: coach}, booking.ErrInvalidStatus},
		{"missing booking", MarkAttendanceInput{BookingID: "missing", Status: booking.StatusAttended, Requester: coach}, booking.ErrBookingNotFound},
		{"canceled booking", MarkAttendanceInput{BookingID: gone.ID, Status: booking.StatusAttended, Requester: coach}, booking.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExecuteMarkAttendance(context.Background(), tt.input, s.attendanceDeps())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
