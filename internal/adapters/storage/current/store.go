// Package current keeps the snapshot of the signed-in user between commands.
package current

import (
	"context"

	"studio/internal/adapters/storage/kv"
	domain "studio/internal/domain/account"
)

// Key is the kv key holding the current-user snapshot.
const Key = "current_user"

// KVStore stores the snapshot as a JSON object under Key.
type KVStore struct {
	kv kv.Store
}

// NewKVStore creates a new KVStore.
func NewKVStore(s kv.Store) *KVStore {
	return &KVStore{kv: s}
}

// Get returns the snapshot, or false when nobody is signed in.
// The snapshot may be stale relative to the user list.
func (s *KVStore) Get(ctx context.Context) (domain.Account, bool, error) {
	var a domain.Account
	found, err := kv.GetJSON(ctx, s.kv, Key, &a)
	if err != nil || !found {
		return domain.Account{}, false, err
	}
	return a, true, nil
}

// Set replaces the snapshot.
func (s *KVStore) Set(ctx context.Context, a domain.Account) error {
	return kv.PutJSON(ctx, s.kv, Key, a)
}

// Clear signs the current user out.
func (s *KVStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, Key)
}
