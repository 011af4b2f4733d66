package booking

import (
	"context"
	"fmt"
	"sort"

	"studio/internal/adapters/storage/kv"
	domain "studio/internal/domain/booking"
)

// KVStore implements Store as a single JSON list under Key.
type KVStore struct {
	kv kv.Store
}

// NewKVStore creates a new KVStore.
func NewKVStore(s kv.Store) *KVStore {
	return &KVStore{kv: s}
}

func (s *KVStore) load(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if _, err := kv.GetJSON(ctx, s.kv, Key, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetByID retrieves a Booking by its ID.
// PRE: id is non-empty
// POST: Returns the entity or domain.ErrBookingNotFound
func (s *KVStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	bookings, err := s.load(ctx)
	if err != nil {
		return domain.Booking{}, err
	}
	i, ok := domain.Find(bookings, id)
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}
	return bookings[i], nil
}

// Save persists a Booking, replacing the record with the same ID.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update), insertion order kept
func (s *KVStore) Save(ctx context.Context, entity domain.Booking) error {
	bookings, err := s.load(ctx)
	if err != nil {
		return err
	}
	if i, ok := domain.Find(bookings, entity.ID); ok {
		bookings[i] = entity
	} else {
		bookings = append(bookings, entity)
	}
	return kv.PutJSON(ctx, s.kv, Key, bookings)
}

// List retrieves Bookings matching the filter, ordered by slot then creation.
// POST: Returns matching entities
func (s *KVStore) List(ctx context.Context, filter ListFilter) ([]domain.Booking, error) {
	bookings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var results []domain.Booking
	for _, b := range bookings {
		if filter.Matches(b) {
			results = append(results, b)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].SlotID != results[j].SlotID {
			return results[i].SlotID < results[j].SlotID
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}

// Clear removes every booking.
func (s *KVStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, Key)
}
