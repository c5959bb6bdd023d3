// Package memstore is an in-memory booking.Repository used by tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/paging"
)

// Store keeps bookings in a map keyed by generated id. "Now" is read from the clock
// each time a query runs.
type Store struct {
	mu       sync.RWMutex
	lastID   int64
	bookings map[int64]booking.Booking
	now      func() time.Time
}

// New creates an empty store. A nil clock means time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		bookings: make(map[int64]booking.Booking),
		now:      now,
	}
}

func (s *Store) Create(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	b.ID = s.lastID
	s.bookings[b.ID] = *b
	return nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.NotFound(id)
	}
	return &b, nil
}

func (s *Store) UpdateStatus(_ context.Context, id int64, status booking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return booking.NotFound(id)
	}
	b.Status = status
	s.bookings[id] = b
	return nil
}

func (s *Store) ListAll(_ context.Context, scope booking.Scope, userID int64, page paging.Page) ([]*booking.Booking, error) {
	return s.listState(scope, userID, booking.StateAll, page), nil
}

func (s *Store) ListCurrent(_ context.Context, scope booking.Scope, userID int64, page paging.Page) ([]*booking.Booking, error) {
	return s.listState(scope, userID, booking.StateCurrent, page), nil
}

func (s *Store) ListPast(_ context.Context, scope booking.Scope, userID int64, page paging.Page) ([]*booking.Booking, error) {
	return s.listState(scope, userID, booking.StatePast, page), nil
}

func (s *Store) ListFuture(_ context.Context, scope booking.Scope, userID int64, page paging.Page) ([]*booking.Booking, error) {
	return s.listState(scope, userID, booking.StateFuture, page), nil
}

func (s *Store) ListByStatus(_ context.Context, scope booking.Scope, userID int64, status booking.Status, page paging.Page) ([]*booking.Booking, error) {
	return s.list(scope, userID, func(b *booking.Booking) bool { return b.Status == status }, page), nil
}

func (s *Store) ListByItems(_ context.Context, itemIDs []int64) ([]*booking.Booking, error) {
	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*booking.Booking
	for _, b := range s.bookings {
		if _, ok := wanted[b.ItemID]; ok {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) HasFinished(_ context.Context, bookerID, itemID int64) (bool, error) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) listState(scope booking.Scope, userID int64, state booking.State, page paging.Page) []*booking.Booking {
	now := s.now()
	return s.list(scope, userID, func(b *booking.Booking) bool { return state.Matches(b, now) }, page)
}

// list filters by scope and keep, orders by end descending then id descending, and cuts the page.
func (s *Store) list(scope booking.Scope, userID int64, keep func(*booking.Booking) bool, page paging.Page) []*booking.Booking {
	s.mu.RLock()
	var matched []*booking.Booking
	for _, b := range s.bookings {
		b := b
		if !inScope(&b, scope, userID) || !keep(&b) {
			continue
		}
		matched = append(matched, &b)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].End.Equal(matched[j].End) {
			return matched[i].End.After(matched[j].End)
		}
		return matched[i].ID > matched[j].ID
	})
	return paging.Slice(matched, page)
}

func inScope(b *booking.Booking, scope booking.Scope, userID int64) bool {
	if scope == booking.ScopeOwner {
		return b.ItemOwnerID == userID
	}
	return b.BookerID == userID
}

var _ booking.Repository = (*Store)(nil)
