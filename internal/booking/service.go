package booking

import (
	"context"
	"fmt"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/paging"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemCatalog resolves the item being booked.
type ItemCatalog interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

// UserDirectory resolves bookers and listing owners.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// TransitionRecorder is told about every status change. from is empty for new bookings.
type TransitionRecorder interface {
	RecordTransition(from, to string)
}

type Service interface {
	Create(ctx context.Context, bookerID int64, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, bookingID, ownerID int64, approved bool) (*Booking, error)
	GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error)
	ListByBooker(ctx context.Context, state State, userID int64, from, size int) ([]*Booking, error)
	ListByOwner(ctx context.Context, state State, userID int64, from, size int) ([]*Booking, error)

	ListForItems(ctx context.Context, itemIDs []int64) ([]*Booking, error)
	HasFinished(ctx context.Context, bookerID, itemID int64) (bool, error)
}

type listFunc func(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error)

type service struct {
	repo     Repository
	items    ItemCatalog
	users    UserDirectory
	tx       db.TxManager
	recorder TransitionRecorder
	listers  map[State]listFunc
}

func NewService(repo Repository, items ItemCatalog, users UserDirectory, tx db.TxManager, recorder TransitionRecorder) Service {
	return &service{
		repo:     repo,
		items:    items,
		users:    users,
		tx:       tx,
		recorder: recorder,
		listers:  newListers(repo),
	}
}

// newListers maps each bucket to the store query answering it.
func newListers(repo Repository) map[State]listFunc {
	byStatus := func(status Status) listFunc {
		return func(ctx context.Context, scope Scope, userID int64, page paging.Page) ([]*Booking, error) {
			return repo.ListByStatus(ctx, scope, userID, status, page)
		}
	}

	return map[State]listFunc{
		StateAll:      repo.ListAll,
		StateCurrent:  repo.ListCurrent,
		StatePast:     repo.ListPast,
		StateFuture:   repo.ListFuture,
		StateWaiting:  byStatus(StatusWaiting),
		StateRejected: byStatus(StatusRejected),
	}
}

func (s *service) Create(ctx context.Context, bookerID int64, req CreateRequest) (*Booking, error) {
	if !req.Start.Before(req.End) {
		return nil, ErrInvalidTimeRange
	}

	var created *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// 1. Item must exist
		it, err := s.items.GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		// 2. Owners never book their own items, whatever the availability
		if it.OwnerID == bookerID {
			return ErrOwnerBooking
		}

		// 3. Item must be lendable right now
		if !it.Available {
			return ItemUnavailable(it.ID)
		}

		// 4. Booker must exist
		booker, err := s.users.GetByID(ctx, bookerID)
		if err != nil {
			return err
		}

		b := &Booking{
			Start:       req.Start,
			End:         req.End,
			Status:      StatusWaiting,
			ItemID:      it.ID,
			ItemName:    it.Name,
			ItemOwnerID: it.OwnerID,
			BookerID:    booker.ID,
			BookerName:  booker.Name,
		}
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record("", created.Status)
	return created, nil
}

// Approve moves a booking to APPROVED or REJECTED. Approving twice is an error,
// rejecting is allowed from any status.
func (s *service) Approve(ctx context.Context, bookingID, ownerID int64, approved bool) (*Booking, error) {
	var (
		b    *Booking
		prev Status
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.findVisible(ctx, bookingID, func(b *Booking) bool {
			return b.ItemOwnerID == ownerID
		})
		if err != nil {
			return err
		}

		if approved && b.Status == StatusApproved {
			return ErrAlreadyApproved
		}

		next := StatusRejected
		if approved {
			next = StatusApproved
		}
		if err := s.repo.UpdateStatus(ctx, b.ID, next); err != nil {
			return err
		}

		prev, b.Status = b.Status, next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(prev, b.Status)
	return b, nil
}

// GetByID returns a booking to its booker or to the owner of the booked item.
func (s *service) GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error) {
	return s.findVisible(ctx, bookingID, func(b *Booking) bool {
		return b.BookerID == userID || b.ItemOwnerID == userID
	})
}

func (s *service) ListByBooker(ctx context.Context, state State, userID int64, from, size int) ([]*Booking, error) {
	return s.list(ctx, ScopeBooker, state, userID, from, size)
}

func (s *service) ListByOwner(ctx context.Context, state State, userID int64, from, size int) ([]*Booking, error) {
	return s.list(ctx, ScopeOwner, state, userID, from, size)
}

func (s *service) ListForItems(ctx context.Context, itemIDs []int64) ([]*Booking, error) {
	return s.repo.ListByItems(ctx, itemIDs)
}

func (s *service) HasFinished(ctx context.Context, bookerID, itemID int64) (bool, error) {
	return s.repo.HasFinished(ctx, bookerID, itemID)
}

func (s *service) list(ctx context.Context, scope Scope, state State, userID int64, from, size int) ([]*Booking, error) {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user failed: %w", err)
	}
	if !ok {
		return nil, user.NotFound(userID)
	}

	lister, found := s.listers[state]
	if !found {
		return nil, UnknownState(string(state))
	}

	page, err := paging.New(from, size)
	if err != nil {
		return nil, err
	}

	bookings, err := lister(ctx, scope, userID, page)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*Booking{}
	}
	return bookings, nil
}

// findVisible loads a booking and reports the same NotFound whether it is missing
// or canSee rejects the caller.
func (s *service) findVisible(ctx context.Context, id int64, canSee func(*Booking) bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(b) {
		return nil, NotFound(id)
	}
	return b, nil
}

func (s *service) record(from, to Status) {
	if s.recorder != nil {
		s.recorder.RecordTransition(string(from), string(to))
	}
}
