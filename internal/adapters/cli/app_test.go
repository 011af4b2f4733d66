package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountStore "studio/internal/adapters/storage/account"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/adapters/storage/current"
	"studio/internal/adapters/storage/kv"
	"studio/internal/application/orchestrators"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

const (
	client     = "usuario@prueba.com"
	instructor = "instructor@prueba.com"
	admin      = "admin@prueba.com"
)

type harness struct {
	app *App
	out *bytes.Buffer
	ids int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mem := kv.NewMemoryStore()
	stores := Stores{
		AccountStore: accountStore.NewKVStore(mem),
		BookingStore: bookingStore.NewKVStore(mem),
		CurrentStore: current.NewKVStore(mem),
	}
	_, err := orchestrators.ExecuteSeedDemoAccounts(context.Background(), orchestrators.DemoSeedDeps{AccountStore: stores.AccountStore})
	require.NoError(t, err)

	h := &harness{out: &bytes.Buffer{}}
	rules := booking.Rules{Capacity: booking.DefaultCapacity, ChangeWindow: booking.DefaultChangeWindow, Location: time.UTC}
	h.app = New(stores, rules, schedule.DefaultTemplate(), h.out, prometheus.NewRegistry())
	h.app.Now = func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) }
	h.app.GenerateID = func() string {
		h.ids++
		return fmt.Sprintf("b%d", h.ids)
	}
	return h
}

// run executes a command line and returns its output.
func (h *harness) run(t *testing.T, line string) (string, error) {
	t.Helper()
	h.out.Reset()
	err := h.app.Run(context.Background(), strings.Fields(line))
	return h.out.String(), err
}

func (h *harness) mustRun(t *testing.T, line string) string {
	t.Helper()
	out, err := h.run(t, line)
	require.NoError(t, err, line)
	return out
}

func TestRun_BookingFlow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "login -password whatever "+client)
	assert.Contains(t, out, "Cliente Demo")
	assert.Contains(t, out, "8 sessions")

	out = h.mustRun(t, "book 2026-03-05T09:00")
	assert.Contains(t, out, "booking b1")
	assert.Contains(t, out, "Sessions left: 7")

	out = h.mustRun(t, "slots -day 2026-03-05")
	assert.Contains(t, out, "2026-03-05T09:00")
	assert.Contains(t, out, "1/6")
	assert.Contains(t, out, "booked by you")
	assert.NotContains(t, out, "2026-03-06")

	out = h.mustRun(t, "reschedule b1 2026-03-05T18:00")
	assert.Contains(t, out, "from 2026-03-05T09:00 to 2026-03-05T18:00")

	out = h.mustRun(t, "bookings")
	assert.Contains(t, out, "2026-03-05T18:00")
	assert.Contains(t, out, "can change")

	out = h.mustRun(t, "cancel b1")
	assert.Contains(t, out, "Session refunded")

	out = h.mustRun(t, "whoami")
	assert.Contains(t, out, "8 sessions")
}

func TestRun_NoRefundInsideWindow(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "login "+client)
	h.mustRun(t, "book 2026-03-02T18:00")

	out := h.mustRun(t, "cancel b1")
	assert.Contains(t, out, "No refund")
	assert.Contains(t, out, "24h")

	out = h.mustRun(t, "whoami")
	assert.Contains(t, out, "7 sessions")
}

func TestRun_AdminCancelsStaffBooking(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "login "+instructor)
	h.mustRun(t, "book 2026-03-05T09:00")
	h.mustRun(t, "login "+admin)

	out := h.mustRun(t, "cancel b1")
	assert.Contains(t, out, "No refund: "+instructor+" does not pay with sessions")
	assert.NotContains(t, out, "24h")
}

func TestRun_StaffCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "login "+client)
	h.mustRun(t, "book 2026-03-02T18:00")

	h.mustRun(t, "login "+instructor)
	out := h.mustRun(t, "today")
	assert.Contains(t, out, "18:00  1/6")
	assert.Contains(t, out, "Cliente Demo")

	out = h.mustRun(t, "attend b1 ATTENDED")
	assert.Contains(t, out, "marked attended")

	_, err := h.run(t, "sessions add "+client+" 5")
	assert.ErrorIs(t, err, account.ErrForbidden)

	h.mustRun(t, "login "+admin)
	out = h.mustRun(t, "sessions add "+client+" 5")
	assert.Contains(t, out, "now has 12 sessions")

	out = h.mustRun(t, "stats")
	assert.Contains(t, out, "attended")
	assert.Contains(t, out, "100%")

	out = h.mustRun(t, "users -role client")
	assert.Contains(t, out, client)
	assert.NotContains(t, out, admin)

	out = h.mustRun(t, "bookings -all")
	assert.Contains(t, out, "Cliente Demo")
}

func TestRun_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "book 2026-03-05T09:00")
	assert.ErrorIs(t, err, orchestrators.ErrNotSignedIn)

	_, err = h.run(t, "login nobody@prueba.com")
	assert.ErrorIs(t, err, account.ErrUserNotFound)

	_, err = h.run(t, "dance")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = h.run(t, "")
	assert.ErrorIs(t, err, ErrUsage)

	h.mustRun(t, "login "+client)

	_, err = h.run(t, "book")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = h.run(t, "book tomorrow")
	assert.ErrorIs(t, err, schedule.ErrInvalidSlot)

	for _, slot := range []string{"2020-01-01T03:17", "2026-03-02T07:00", "2026-03-05T10:00", "2026-04-30T09:00"} {
		_, err = h.run(t, "book "+slot)
		assert.ErrorIs(t, err, schedule.ErrInvalidSlot, slot)
	}
	out, err := h.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "8 sessions")

	_, err = h.run(t, "sessions add "+client+" lots")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = h.run(t, "attend b1 attended")
	assert.ErrorIs(t, err, account.ErrForbidden)

	_, err = h.run(t, "stats")
	assert.ErrorIs(t, err, account.ErrForbidden)

	_, err = h.run(t, "reset")
	assert.ErrorIs(t, err, account.ErrForbidden)
}

func TestRun_Reset(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "login "+client)
	h.mustRun(t, "book 2026-03-05T09:00")
	h.mustRun(t, "login "+admin)

	out := h.mustRun(t, "reset")
	assert.Contains(t, out, "demo accounts restored")

	_, err := h.run(t, "whoami")
	assert.ErrorIs(t, err, orchestrators.ErrNotSignedIn)

	h.mustRun(t, "login "+client)
	out = h.mustRun(t, "whoami")
	assert.Contains(t, out, "8 sessions")
}

func TestRun_Help(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "help")
	for name := range commands {
		assert.Contains(t, out, usages[name])
	}
	assert.Contains(t, out, "this invocation only")
}
