package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"studio/internal/application/listutil"
	"studio/internal/application/projections"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
)

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func describeUser(u account.Account) string {
	s := fmt.Sprintf("%s <%s> (%s)", u.Name, u.Email, u.Role.Label())
	if u.PaysWithSessions() {
		s += fmt.Sprintf(", %d sessions", u.Sessions)
	}
	return s
}

func displayName(b booking.Booking) string {
	if b.Name != "" {
		return b.Name
	}
	return b.Email
}

func formatWindow(r booking.Rules) string {
	if h := r.ChangeWindow.Hours(); h == float64(int(h)) {
		return fmt.Sprintf("%dh", int(h))
	}
	return r.ChangeWindow.String()
}

func (a *App) renderBoard(board projections.GetSlotBoardResult, day string) {
	w := a.table()
	fmt.Fprintln(w, "SLOT\tDAY\tTIME\tBOOKED\t")
	shown := 0
	for _, d := range board.Days {
		if day != "" && d.Date != day {
			continue
		}
		for _, s := range d.Slots {
			var marks []string
			if s.Mine {
				marks = append(marks, "booked by you")
			}
			if s.Full {
				marks = append(marks, "full")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n", s.ID, s.Start.Format("Mon 02 Jan"), s.Start.Format("15:04"), s.Booked, s.Capacity, strings.Join(marks, ", "))
			shown++
		}
	}
	w.Flush()
	if shown == 0 {
		fmt.Fprintln(a.out, "No classes to show")
	}
}

func (a *App) renderMemberBookings(list []projections.MemberBooking) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookings")
		return
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tSLOT\tSTATUS\t")
	for _, b := range list {
		note := ""
		switch {
		case b.Changeable:
			note = "can change"
		case b.Upcoming && b.Status == booking.StatusBooked:
			note = "within " + formatWindow(a.rules) + ", no refund"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.SlotID, b.Status, note)
	}
	w.Flush()
}

func (a *App) renderBookings(list []booking.Booking, page listutil.PageInfo) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookings")
		return
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tSLOT\tMEMBER\tSTATUS")
	for _, b := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.SlotID, displayName(b), b.Status)
	}
	w.Flush()
	renderPage(a, page)
}

func (a *App) renderToday(classes []projections.TodaysClassResult) {
	if len(classes) == 0 {
		fmt.Fprintln(a.out, "No classes today")
		return
	}
	for _, c := range classes {
		fmt.Fprintf(a.out, "%s  %d/%d\n", c.StartTime, len(c.Attendees), c.Capacity)
		for _, b := range c.Attendees {
			fmt.Fprintf(a.out, "  %-10s %-24s %s\n", b.Status, displayName(b), b.ID)
		}
	}
}

func (a *App) renderDashboard(d projections.Dashboard) {
	w := a.table()
	fmt.Fprintf(w, "Bookings\t%d\n", d.TotalBookings)
	fmt.Fprintf(w, "  booked\t%d\n", d.Booked)
	fmt.Fprintf(w, "  attended\t%d\n", d.Attended)
	fmt.Fprintf(w, "  missed\t%d\n", d.Missed)
	fmt.Fprintf(w, "  canceled\t%d (%d refunded)\n", d.Canceled, d.Refunded)
	fmt.Fprintf(w, "Upcoming\t%d\n", d.Upcoming)
	fmt.Fprintf(w, "Attendance rate\t%.0f%%\n", d.AttendanceRate*100)
	fmt.Fprintf(w, "Users\t%d\n", d.TotalUsers)
	fmt.Fprintf(w, "  clients\t%d (%d with credit)\n", d.Clients, d.ClientsWithCredit)
	fmt.Fprintf(w, "Outstanding sessions\t%d\n", d.OutstandingCredit)
	w.Flush()
}

func (a *App) renderUsers(res projections.ListUsersResult) {
	if len(res.Users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return
	}
	w := a.table()
	fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tSESSIONS")
	for _, u := range res.Users {
		sessions := "-"
		if u.PaysWithSessions() {
			sessions = fmt.Sprint(u.Sessions)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Email, u.Name, u.Role, sessions)
	}
	w.Flush()
	renderPage(a, res.Page)
}

func renderPage(a *App, p listutil.PageInfo) {
	if p.TotalPages > 1 {
		fmt.Fprintf(a.out, "Rows %d-%d of %d (page %d/%d)\n", p.StartRow(), p.EndRow(), p.Total, p.Page, p.TotalPages)
	}
}
