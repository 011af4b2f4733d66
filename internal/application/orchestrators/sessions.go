package orchestrators

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"studio/internal/domain/account"
	"studio/internal/metrics"
)

// AdjustSessionsInput carries input for the session accounting orchestrators.
// Amount is a delta for AddSessions and a new total for SetSessions.
type AdjustSessionsInput struct {
	Email     string `validate:"required"`
	Amount    int
	Requester account.Account
}

// AdjustSessionsDeps holds dependencies for AddSessions and SetSessions.
type AdjustSessionsDeps struct {
	AccountStore AccountStore
}

// ExecuteAddSessions adds Amount (possibly negative) to a user's balance.
// PRE: Requester holds assign_sessions
// POST: Balance is max(0, old + Amount)
func ExecuteAddSessions(ctx context.Context, input AdjustSessionsInput, deps AdjustSessionsDeps) (account.Account, error) {
	return adjustSessions(ctx, "add", input, deps, func(a *account.Account) { a.AddSessions(input.Amount) })
}

// ExecuteSetSessions replaces a user's balance with Amount.
// PRE: Requester holds assign_sessions
// POST: Balance is max(0, Amount)
func ExecuteSetSessions(ctx context.Context, input AdjustSessionsInput, deps AdjustSessionsDeps) (account.Account, error) {
	return adjustSessions(ctx, "set", input, deps, func(a *account.Account) { a.SetSessions(input.Amount) })
}

func adjustSessions(ctx context.Context, kind string, input AdjustSessionsInput, deps AdjustSessionsDeps, apply func(*account.Account)) (account.Account, error) {
	if err := account.Authorize(input.Requester, account.PermAssignSessions); err != nil {
		log.Info().Str("event", "credit_denied").Str("kind", kind).Str("by", input.Requester.Email).Msg("credit_event")
		return account.Account{}, err
	}
	if err := validate.Struct(input); err != nil {
		return account.Account{}, account.ErrUserNotFound
	}

	user, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return account.Account{}, account.ErrUserNotFound
		}
		return account.Account{}, err
	}

	before := user.Sessions
	apply(&user)
	if err := deps.AccountStore.Save(ctx, user); err != nil {
		return account.Account{}, fmt.Errorf("save balance: %w", err)
	}
	metrics.CreditAdjustmentsTotal.WithLabelValues(kind).Inc()

	log.Info().Str("event", "sessions_"+kind).Str("email", user.Email).Int("before", before).Int("after", user.Sessions).Str("by", input.Requester.Email).Msg("credit_event")

	return user, nil
}
