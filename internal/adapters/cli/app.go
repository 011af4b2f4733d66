// Package cli is the command-line front end: it parses a command, resolves the
// signed-in user, calls one orchestrator or projection and prints the result.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	accountStore "studio/internal/adapters/storage/account"
	bookingStore "studio/internal/adapters/storage/booking"
	"studio/internal/adapters/storage/current"
	"studio/internal/application/orchestrators"
	"studio/internal/domain/account"
	"studio/internal/domain/booking"
	"studio/internal/domain/schedule"
)

// ErrUsage is returned for unknown commands and malformed arguments.
var ErrUsage = errors.New("usage")

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	BookingStore bookingStore.Store
	CurrentStore *current.KVStore
}

// App runs studio commands against a set of stores.
type App struct {
	stores   Stores
	rules    booking.Rules
	template schedule.Template
	out      io.Writer
	gatherer prometheus.Gatherer

	// Now and GenerateID are swapped in tests.
	Now        func() time.Time
	GenerateID func() string
}

// New creates an App writing command output to out.
func New(stores Stores, rules booking.Rules, template schedule.Template, out io.Writer, gatherer prometheus.Gatherer) *App {
	return &App{
		stores:   stores,
		rules:    rules,
		template: template,
		out:      out,
		gatherer: gatherer,
		Now:      time.Now,
	}
}

// usages documents each command for help and usage errors.
// Handlers must not reference commands (initialization cycle).
var usages = map[string]string{
	"login":      "login [-password p] <email>",
	"logout":     "logout",
	"whoami":     "whoami",
	"slots":      "slots [-day YYYY-MM-DD]",
	"book":       "book <slot YYYY-MM-DDTHH:MM>",
	"cancel":     "cancel <booking-id>",
	"reschedule": "reschedule <booking-id> <slot>",
	"attend":     "attend <booking-id> <booked|attended|missed>",
	"sessions":   "sessions <add|set> <email> <n>",
	"bookings":   "bookings [-all] [-email e] [-date YYYY-MM-DD] [-canceled] [-page n] [-per-page n]",
	"today":      "today",
	"stats":      "stats",
	"users":      "users [-role r] [-search q] [-page n] [-per-page n]",
	"reset":      "reset",
	"metrics":    "metrics   (counters cover this invocation only; nothing is kept between runs)",
}

var commands = map[string]handler{
	"login":      (*App).login,
	"logout":     (*App).logout,
	"whoami":     (*App).whoami,
	"slots":      (*App).slots,
	"book":       (*App).book,
	"cancel":     (*App).cancel,
	"reschedule": (*App).reschedule,
	"attend":     (*App).attend,
	"sessions":   (*App).sessions,
	"bookings":   (*App).bookings,
	"today":      (*App).today,
	"stats":      (*App).stats,
	"users":      (*App).users,
	"reset":      (*App).reset,
	"metrics":    (*App).metrics,
}

// Run executes one command line (without the program name).
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.printHelp()
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}
	run, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return timed(args[0], run, commandObserver, DefaultSlowCommand)(a, ctx, args[1:])
}

func (a *App) printHelp() {
	names := make([]string, 0, len(usages))
	for name := range usages {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.out, "usage: studio <command> [flags] [args]")
	fmt.Fprintln(a.out)
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s\n", usages[name])
	}
}

// currentUser returns the signed-in user, refreshed from the user list.
func (a *App) currentUser(ctx context.Context) (account.Account, error) {
	return orchestrators.ExecuteRefreshCurrentUser(ctx, a.loginDeps())
}

func (a *App) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{AccountStore: a.stores.AccountStore, CurrentStore: a.stores.CurrentStore}
}

func (a *App) now() time.Time {
	return a.Now().In(a.location())
}

func (a *App) location() *time.Location {
	if a.rules.Location == nil {
		return time.Local
	}
	return a.rules.Location
}

func usageError(cmd string) error {
	return fmt.Errorf("%w: studio %s", ErrUsage, usages[cmd])
}
