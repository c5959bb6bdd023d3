package itemrequest

import (
	"context"
	"fmt"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/paging"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemLookup finds the items answering a set of requests.
type ItemLookup interface {
	ListByRequests(ctx context.Context, requestIDs []int64) ([]*item.Item, error)
}

type UserDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, requestorID int64, description string) (*ItemRequest, error)
	ListOwn(ctx context.Context, requestorID int64) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, from, size int) ([]*ItemRequest, error)
	GetByID(ctx context.Context, userID, id int64) (*ItemRequest, error)
}

type service struct {
	repo  Repository
	items ItemLookup
	users UserDirectory
}

func NewService(repo Repository, items ItemLookup, users UserDirectory) Service {
	return &service{
		repo:  repo,
		items: items,
		users: users,
	}
}

func (s *service) Create(ctx context.Context, requestorID int64, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Items:       []*item.Item{},
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requestorID int64) ([]*ItemRequest, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) ListOthers(ctx context.Context, userID int64, from, size int) ([]*ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	page, err := paging.New(from, size)
	if err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) GetByID(ctx context.Context, userID, id int64) (*ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reqs, err := s.attachItems(ctx, []*ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return reqs[0], nil
}

func (s *service) attachItems(ctx context.Context, reqs []*ItemRequest) ([]*ItemRequest, error) {
	if len(reqs) == 0 {
		return []*ItemRequest{}, nil
	}

	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}

	items, err := s.items.ListByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]*item.Item)
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}
	for _, r := range reqs {
		r.Items = byRequest[r.ID]
		if r.Items == nil {
			r.Items = []*item.Item{}
		}
	}
	return reqs, nil
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
