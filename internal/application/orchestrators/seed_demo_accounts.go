package orchestrators

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"studio/internal/domain/account"
)

// DemoSeedStore defines the account store interface needed for demo seeding.
type DemoSeedStore interface {
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// DemoSeedDeps holds stores needed for demo account seeding.
type DemoSeedDeps struct {
	AccountStore DemoSeedStore
}

// DemoAccounts returns the accounts installed into an empty studio,
// one per role.
func DemoAccounts() []account.Account {
	return []account.Account{
		{Email: "usuario@prueba.com", Name: "Cliente Demo", Role: account.RoleClient, Sessions: 8, Phone: "+52 444 123 4567"},
		{Email: "instructor@prueba.com", Name: "Instructor Demo", Role: account.RoleInstructor, Phone: "+52 444 765 4321"},
		{Email: "admin@prueba.com", Name: "Admin Demo", Role: account.RoleAdmin, Phone: "+52 444 999 0000"},
	}
}

// ExecuteSeedDemoAccounts installs the demo accounts when the user list is empty.
// It is idempotent: a studio with any user is left untouched.
// POST: Returns the number of accounts created (0 or len(DemoAccounts()))
func ExecuteSeedDemoAccounts(ctx context.Context, deps DemoSeedDeps) (int, error) {
	n, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed demo accounts: count: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	created := 0
	for _, acct := range DemoAccounts() {
		if err := acct.Validate(); err != nil {
			return created, fmt.Errorf("seed demo account %s: %w", acct.Email, err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return created, fmt.Errorf("seed demo account %s: save: %w", acct.Email, err)
		}
		created++
		log.Info().Str("event", "demo_account_created").Str("email", acct.Email).Str("role", string(acct.Role)).Msg("seed_event")
	}

	log.Info().Str("event", "demo_accounts_seeded").Int("created", created).Msg("seed_event")
	return created, nil
}
