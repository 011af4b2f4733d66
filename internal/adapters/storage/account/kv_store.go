package account

import (
	"context"
	"fmt"
	"sort"

	"studio/internal/adapters/storage/kv"
	domain "studio/internal/domain/account"
)

// KVStore implements Store as a single JSON list under Key.
type KVStore struct {
	kv kv.Store
}

// NewKVStore creates a new KVStore.
func NewKVStore(s kv.Store) *KVStore {
	return &KVStore{kv: s}
}

// load reads the whole user list; a missing key is an empty list.
func (s *KVStore) load(ctx context.Context) ([]domain.Account, error) {
	var users []domain.Account
	if _, err := kv.GetJSON(ctx, s.kv, Key, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmail retrieves an Account by email, case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or domain.ErrUserNotFound
func (s *KVStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	users, err := s.load(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	want := domain.NormalizeEmail(email)
	for _, u := range users {
		if domain.NormalizeEmail(u.Email) == want {
			return u, nil
		}
	}
	return domain.Account{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, want)
}

// Save persists an Account, matching existing records by email.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); email stored normalized
func (s *KVStore) Save(ctx context.Context, entity domain.Account) error {
	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	entity.Email = domain.NormalizeEmail(entity.Email)

	replaced := false
	for i, u := range users {
		if domain.NormalizeEmail(u.Email) == entity.Email {
			users[i] = entity
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, entity)
	}
	return kv.PutJSON(ctx, s.kv, Key, users)
}

// List retrieves Accounts based on the filter, ordered by email.
// POST: Returns matching entities
func (s *KVStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var results []domain.Account
	for _, u := range users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		results = append(results, u)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Email < results[j].Email })
	return results, nil
}

// Count returns the total number of accounts.
func (s *KVStore) Count(ctx context.Context) (int, error) {
	users, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// Clear removes every account.
// POST: Count is 0
func (s *KVStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, Key)
}
