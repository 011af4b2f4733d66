package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/application/listutil"
	"studio/internal/application/orchestrators"
	"studio/internal/application/projections"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/metrics"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs parses flags and checks the positional argument count.
func parseArgs(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w (%v)", usageError(fs.Name()), err)
	}
	if fs.NArg() != want {
		return nil, usageError(fs.Name())
	}
	return fs.Args(), nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	password := fs.String("password", "", "accepted and ignored")
	pos, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	acct, err := orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{Email: pos[0], Password: *password}, a.loginDeps())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", describeUser(acct))
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlagSet("logout"), args, 0); err != nil {
		return err
	}
	if err := orchestrators.ExecuteLogout(ctx, a.loginDeps()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlagSet("whoami"), args, 0); err != nil {
		return err
	}
	acct, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, describeUser(acct))
	return nil
}

func (a *App) slots(ctx context.Context, args []string) error {
	fs := newFlagSet("slots")
	day := fs.String("day", "", "only show this date")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return err
	}
	viewer, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	board, err := projections.QueryGetSlotBoard(ctx, projections.GetSlotBoardQuery{Viewer: viewer, Now: a.now()}, projections.GetSlotBoardDeps{
		BookingStore: a.stores.BookingStore,
		Template:     a.template,
		Rules:        a.rules,
	})
	if err != nil {
		return err
	}
	a.renderBoard(board, *day)
	return nil
}

func (a *App) book(ctx context.Context, args []string) error {
	pos, err := parseArgs(newFlagSet("book"), args, 1)
	if err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := orchestrators.ExecuteCreateBooking(ctx, orchestrators.CreateBookingInput{User: user, SlotID: pos[0]}, orchestrators.CreateBookingDeps{
		AccountStore: a.stores.AccountStore,
		BookingStore: a.stores.BookingStore,
		Template:     a.template,
		Rules:        a.rules,
		Now:          a.Now,
		GenerateID:   a.GenerateID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booked %s (booking %s)\n", res.Booking.SlotID, res.Booking.ID)
	if res.User.PaysWithSessions() {
		fmt.Fprintf(a.out, "Sessions left: %d\n", res.User.Sessions)
	}
	return nil
}

func (a *App) cancel(ctx context.Context, args []string) error {
	pos, err := parseArgs(newFlagSet("cancel"), args, 1)
	if err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := orchestrators.ExecuteCancelBooking(ctx, orchestrators.CancelBookingInput{BookingID: pos[0], Requester: user}, orchestrators.CancelBookingDeps{
		AccountStore: a.stores.AccountStore,
		BookingStore: a.stores.BookingStore,
		Rules:        a.rules,
		Now:          a.Now,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Canceled %s (%s)\n", res.Booking.SlotID, res.Booking.ID)
	switch res.NoRefund {
	case "":
		fmt.Fprintln(a.out, "Session refunded")
	case orchestrators.NoRefundLate:
		fmt.Fprintf(a.out, "No refund: canceled less than %s before class\n", formatWindow(a.rules))
	case orchestrators.NoRefundNoCredit:
		fmt.Fprintf(a.out, "No refund: %s does not pay with sessions\n", res.Booking.Email)
	case orchestrators.NoRefundOwnerRemoved:
		fmt.Fprintf(a.out, "No refund: %s no longer exists\n", res.Booking.Email)
	case orchestrators.NoRefundAlreadyCanceled:
		fmt.Fprintln(a.out, "Already canceled; no session was refunded")
	}
	return nil
}

func (a *App) reschedule(ctx context.Context, args []string) error {
	pos, err := parseArgs(newFlagSet("reschedule"), args, 2)
	if err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	b, err := orchestrators.ExecuteRescheduleBooking(ctx, orchestrators.RescheduleBookingInput{BookingID: pos[0], NewSlotID: pos[1], Requester: user}, orchestrators.RescheduleBookingDeps{
		BookingStore: a.stores.BookingStore,
		Template:     a.template,
		Rules:        a.rules,
		Now:          a.Now,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Moved %s from %s to %s\n", b.ID, b.RescheduledFrom, b.SlotID)
	return nil
}

func (a *App) attend(ctx context.Context, args []string) error {
	pos, err := parseArgs(newFlagSet("attend"), args, 2)
	if err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	b, err := orchestrators.ExecuteMarkAttendance(ctx, orchestrators.MarkAttendanceInput{
		BookingID: pos[0],
		Status:    booking.Status(strings.ToLower(pos[1])),
		Requester: user,
	}, orchestrators.MarkAttendanceDeps{BookingStore: a.stores.BookingStore, Now: a.Now})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s at %s marked %s\n", displayName(b), b.SlotID, b.Status)
	return nil
}

func (a *App) sessions(ctx context.Context, args []string) error {
	pos, err := parseArgs(newFlagSet("sessions"), args, 3)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(pos[2])
	if err != nil {
		return fmt.Errorf("%w (%q is not a number)", usageError("sessions"), pos[2])
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	input := orchestrators.AdjustSessionsInput{Email: pos[1], Amount: n, Requester: user}
	deps := orchestrators.AdjustSessionsDeps{AccountStore: a.stores.AccountStore}
	var updated account.Account
	switch pos[0] {
	case "add":
		updated, err = orchestrators.ExecuteAddSessions(ctx, input, deps)
	case "set":
		updated, err = orchestrators.ExecuteSetSessions(ctx, input, deps)
	default:
		return usageError("sessions")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s now has %d sessions\n", updated.Email, updated.Sessions)
	return nil
}

func (a *App) bookings(ctx context.Context, args []string) error {
	fs := newFlagSet("bookings")
	all := fs.Bool("all", false, "every user's bookings")
	email := fs.String("email", "", "this user's bookings")
	date := fs.String("date", "", "only this date (with -all)")
	canceled := fs.Bool("canceled", false, "include canceled bookings")
	page := fs.Int("page", 1, "page number (with -all)")
	perPage := fs.Int("per-page", listutil.DefaultPerPage, "rows per page (with -all)")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	if *all || *date != "" {
		res, err := projections.QueryGetAllBookings(ctx, projections.GetAllBookingsQuery{
			Requester:  user,
			Filter:     bookingStore.ListFilter{Email: *email, Date: *date, ActiveOnly: !*canceled},
			PageParams: listutil.PageParams{Page: *page, PerPage: *perPage},
		}, projections.GetAllBookingsDeps{BookingStore: a.stores.BookingStore})
		if err != nil {
			return err
		}
		a.renderBookings(res.Bookings, res.Page)
		return nil
	}

	list, err := projections.QueryGetMemberBookings(ctx, projections.GetMemberBookingsQuery{
		Requester:       user,
		Email:           *email,
		Now:             a.now(),
		IncludeCanceled: *canceled,
	}, projections.GetMemberBookingsDeps{BookingStore: a.stores.BookingStore, Rules: a.rules})
	if err != nil {
		return err
	}
	a.renderMemberBookings(list)
	return nil
}

func (a *App) today(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlagSet("today"), args, 0); err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	classes, err := projections.QueryGetTodaysClasses(ctx, user, a.now(), projections.GetTodaysClassesDeps{
		BookingStore: a.stores.BookingStore,
		Template:     a.template,
		Rules:        a.rules,
	})
	if err != nil {
		return err
	}
	a.renderToday(classes)
	return nil
}

func (a *App) stats(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlagSet("stats"), args, 0); err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	d, err := projections.QueryGetDashboard(ctx, user, a.now(), projections.GetDashboardDeps{
		BookingStore: a.stores.BookingStore,
		AccountStore: a.stores.AccountStore,
		Rules:        a.rules,
	})
	if err != nil {
		return err
	}
	a.renderDashboard(d)
	return nil
}

func (a *App) users(ctx context.Context, args []string) error {
	fs := newFlagSet("users")
	role := fs.String("role", "", "client, instructor or admin")
	search := fs.String("search", "", "match email or name")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", listutil.DefaultPerPage, "rows per page")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return err
	}
	if *role != "" && !account.Role(*role).Valid() {
		return account.ErrInvalidRole
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	res, err := projections.QueryListUsers(ctx, projections.ListUsersQuery{
		Requester:  user,
		Role:       account.Role(*role),
		Search:     *search,
		PageParams: listutil.PageParams{Page: *page, PerPage: *perPage},
	}, projections.ListUsersDeps{AccountStore: a.stores.AccountStore})
	if err != nil {
		return err
	}
	a.renderUsers(res)
	return nil
}

func (a *App) reset(ctx context.Context, args []string) error {
	if _, err := parseArgs(newFlagSet("reset"), args, 0); err != nil {
		return err
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	err = orchestrators.ExecuteResetData(ctx, user, orchestrators.ResetDataDeps{
		AccountStore: a.stores.AccountStore,
		BookingStore: a.stores.BookingStore,
		CurrentStore: a.stores.CurrentStore,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All data reset; demo accounts restored. Signed out.")
	return nil
}

func (a *App) metrics(_ context.Context, args []string) error {
	if _, err := parseArgs(newFlagSet("metrics"), args, 0); err != nil {
		return err
	}
	return metrics.WriteText(a.out, a.gatherer)
}
