package item

import (
	"context"
	"fmt"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/paging"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserDirectory is the part of the identity directory the catalog needs.
type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RequestLookup checks that an item request exists.
type RequestLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	Update(ctx context.Context, ownerID, itemID int64, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page paging.Page) ([]*Item, error)
	Search(ctx context.Context, text string, page paging.Page) ([]*Item, error)
	ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error)
}

type service struct {
	repo     Repository
	users    UserDirectory
	requests RequestLookup
}

func NewService(repo Repository, users UserDirectory, requests RequestLookup) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.NotFoundf("item request with id: %d does not exist yet", *req.RequestID)
		}
	}

	it := &Item{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Update changes an item owned by ownerID. Items owned by someone else are reported as missing.
func (s *service) Update(ctx context.Context, ownerID, itemID int64, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != ownerID {
		return nil, NotFound(itemID)
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page paging.Page) ([]*Item, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID, page)
}

// Search returns available items whose name or description contains text.
// Blank text matches nothing.
func (s *service) Search(ctx context.Context, text string, page paging.Page) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, page)
}

func (s *service) ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	return s.repo.ListByRequests(ctx, requestIDs)
}

func (s *service) requireUser(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user failed: %w", err)
	}
	if !ok {
		return user.NotFound(id)
	}
	return nil
}
