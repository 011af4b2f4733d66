package orchestrators

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"studio/internal/domain/account"
)

// LoginInput carries input for the login orchestrator.
// Password is accepted for form compatibility and never checked.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string
}

// LoginDeps holds dependencies for Login, Logout and RefreshCurrentUser.
type LoginDeps struct {
	AccountStore AccountStore
	CurrentStore CurrentUserStore
}

// ExecuteLogin resolves a user by email and makes them the current user.
// Identity is claimed, not proven.
// PRE: Email is a well-formed address
// POST: Current user snapshot is the stored account
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (account.Account, error) {
	input.Email = account.NormalizeEmail(input.Email)
	if err := validate.Struct(input); err != nil {
		log.Info().Str("event", "login_failed").Str("email", input.Email).Str("reason", "invalid_email").Msg("auth_event")
		return account.Account{}, account.ErrInvalidEmail
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			log.Info().Str("event", "login_failed").Str("email", input.Email).Str("reason", "not_found").Msg("auth_event")
			return account.Account{}, account.ErrUserNotFound
		}
		return account.Account{}, err
	}

	if err := deps.CurrentStore.Set(ctx, acct); err != nil {
		return account.Account{}, err
	}

	log.Info().Str("event", "login_success").Str("email", acct.Email).Str("role", string(acct.Role)).Msg("auth_event")

	return acct, nil
}

// ExecuteLogout clears the current user snapshot.
// POST: Nobody is signed in
func ExecuteLogout(ctx context.Context, deps LoginDeps) error {
	if err := deps.CurrentStore.Clear(ctx); err != nil {
		return err
	}
	log.Info().Str("event", "logout").Msg("auth_event")
	return nil
}

// ExecuteRefreshCurrentUser returns the signed-in user re-read from the user list,
// so balance and role changes made since login are visible.
// POST: Snapshot refreshed; cleared with ErrNotSignedIn if the user is gone
func ExecuteRefreshCurrentUser(ctx context.Context, deps LoginDeps) (account.Account, error) {
	snap, ok, err := deps.CurrentStore.Get(ctx)
	if err != nil {
		return account.Account{}, err
	}
	if !ok {
		return account.Account{}, ErrNotSignedIn
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, snap.Email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			if err := deps.CurrentStore.Clear(ctx); err != nil {
				return account.Account{}, err
			}
			log.Info().Str("event", "session_dropped").Str("email", snap.Email).Str("reason", "user_removed").Msg("auth_event")
			return account.Account{}, ErrNotSignedIn
		}
		return account.Account{}, err
	}

	if acct != snap {
		if err := deps.CurrentStore.Set(ctx, acct); err != nil {
			return account.Account{}, err
		}
	}
	return acct, nil
}
