package comment

import (
	"context"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// BookingHistory answers whether a user has already used an item.
type BookingHistory interface {
	HasFinished(ctx context.Context, bookerID, itemID int64) (bool, error)
}

type ItemCatalog interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service interface {
	// Add stores a comment and returns it together with the author's current name.
	Add(ctx context.Context, authorID, itemID int64, text string) (*Comment, string, error)
	FindForItems(ctx context.Context, itemIDs []int64) ([]*Comment, error)
}

type service struct {
	repo     Repository
	bookings BookingHistory
	items    ItemCatalog
	users    UserDirectory
}

func NewService(repo Repository, bookings BookingHistory, items ItemCatalog, users UserDirectory) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		items:    items,
		users:    users,
	}
}

func (s *service) Add(ctx context.Context, authorID, itemID int64, text string) (*Comment, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, "", ErrTextRequired
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, "", err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, "", err
	}

	finished, err := s.bookings.HasFinished(ctx, authorID, itemID)
	if err != nil {
		return nil, "", err
	}
	if !finished {
		return nil, "", NotEligible(authorID, itemID)
	}

	c := &Comment{
		ItemID:   itemID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, "", err
	}
	return c, author.Name, nil
}

func (s *service) FindForItems(ctx context.Context, itemIDs []int64) ([]*Comment, error) {
	return s.repo.FindForItems(ctx, itemIDs)
}
