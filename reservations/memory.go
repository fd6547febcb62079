package reservations

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"goodnight/models"
)

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu sync.RWMutex
	rs map[string]models.Reservation
}

func NewMemoryStore(seed ...models.Reservation) *MemoryStore {
	s := &MemoryStore{rs: make(map[string]models.Reservation, len(seed))}
	for _, r := range seed {
		s.rs[r.ID] = r
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reservation, 0, len(s.rs))
	for _, r := range s.rs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rs[id]
	if !ok {
		return models.Reservation{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (s *MemoryStore) Insert(_ context.Context, r models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.rs[r.ID]; dup {
		return fmt.Errorf("insert reservation: duplicate id %s", r.ID)
	}
	s.rs[r.ID] = r
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rs[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	for k, v := range fields {
		if err := setField(&r, k, v); err != nil {
			return fmt.Errorf("update reservation %s: %w", id, err)
		}
	}
	s.rs[id] = r
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rs[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.rs, id)
	return nil
}

// setField mirrors a $set of one document key.
func setField(r *models.Reservation, key string, v any) error {
	var ok bool
	switch key {
	case "guestName":
		r.GuestName, ok = v.(string)
	case "email":
		r.Email, ok = v.(string)
	case "phone":
		r.Phone, ok = v.(string)
	case "roomTypeId":
		r.RoomTypeID, ok = v.(string)
	case "roomTypeName":
		r.RoomTypeName, ok = v.(string)
	case "status":
		r.Status, ok = v.(string)
	case "roomNumber":
		r.RoomNumber, ok = v.(int)
	case "adultsCount":
		r.AdultsCount, ok = v.(int)
	case "kidsCount":
		r.KidsCount, ok = v.(int)
	case "checkInDate":
		r.CheckInDate, ok = v.(time.Time)
	case "checkOutDate":
		r.CheckOutDate, ok = v.(time.Time)
	case "updatedAt":
		r.UpdatedAt, ok = v.(time.Time)
	case "checkedInAt", "checkedOutAt":
		var at *time.Time
		switch t := v.(type) {
		case nil:
			ok = true
		case time.Time:
			at, ok = &t, true
		}
		if key == "checkedInAt" {
			r.CheckedInAt = at
		} else {
			r.CheckedOutAt = at
		}
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	if !ok {
		return fmt.Errorf("field %q: unexpected %T", key, v)
	}
	return nil
}
