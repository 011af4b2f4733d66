package orchestrators

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"studio/internal/domain/account"
)

// Clearer is a store that can be wiped.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ResetDataDeps holds dependencies for ResetData.
type ResetDataDeps struct {
	AccountStore interface {
		Clearer
		DemoSeedStore
	}
	BookingStore Clearer
	CurrentStore Clearer
}

// ExecuteResetData wipes every user and booking and re-installs the demo accounts.
// PRE: Requester holds admin_panel
// POST: Only demo accounts exist, no bookings, nobody signed in
func ExecuteResetData(ctx context.Context, requester account.Account, deps ResetDataDeps) error {
	if err := account.Authorize(requester, account.PermAdminPanel); err != nil {
		return err
	}

	if err := deps.BookingStore.Clear(ctx); err != nil {
		return fmt.Errorf("reset: clear bookings: %w", err)
	}
	if err := deps.AccountStore.Clear(ctx); err != nil {
		return fmt.Errorf("reset: clear users: %w", err)
	}
	if err := deps.CurrentStore.Clear(ctx); err != nil {
		return fmt.Errorf("reset: sign out: %w", err)
	}

	log.Warn().Str("event", "data_reset").Str("by", requester.Email).Msg("seed_event")

	_, err := ExecuteSeedDemoAccounts(ctx, DemoSeedDeps{AccountStore: deps.AccountStore})
	return err
}
