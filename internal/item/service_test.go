package item

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/paging"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, it *Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, it *Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID int64, page paging.Page) ([]*Item, error) {
	args := m.Called(ctx, ownerID, page)
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *MockRepository) Search(ctx context.Context, text string, page paging.Page) ([]*Item, error) {
	args := m.Called(ctx, text, page)
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *MockRepository) ListByRequests(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	args := m.Called(ctx, requestIDs)
	return args.Get(0).([]*Item), args.Error(1)
}

// idSet answers Exists for a fixed set of ids.
type idSet map[int64]bool

func (s idSet) Exists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores trimmed item", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, idSet{1: true}, idSet{5: true})

		repo.On("Create", ctx, mock.MatchedBy(func(it *Item) bool {
			return it.Name == "Drill" && it.Description == "Cordless" && it.Available &&
				it.OwnerID == 1 && *it.RequestID == 5
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*Item).ID = 10
		}).Return(nil)

		it, err := svc.Create(ctx, 1, CreateRequest{
			Name:        " Drill ",
			Description: "Cordless",
			Available:   ptr(true),
			RequestID:   ptr(int64(5)),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), it.ID)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		req     CreateRequest
		ownerID int64
		wantErr string
		code    int
	}{
		{"blank name", CreateRequest{Name: " ", Description: "d", Available: ptr(true)}, 1, "name is required", http.StatusBadRequest},
		{"missing available", CreateRequest{Name: "n", Description: "d"}, 1, "available is required", http.StatusBadRequest},
		{"unknown owner", CreateRequest{Name: "n", Description: "d", Available: ptr(true)}, 2, "user with id: 2 does not exist yet", http.StatusNotFound},
		{"unknown request", CreateRequest{Name: "n", Description: "d", Available: ptr(true), RequestID: ptr(int64(9))}, 1, "item request with id: 9 does not exist yet", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewService(repo, idSet{1: true}, idSet{5: true})

			_, err := svc.Create(ctx, tt.ownerID, tt.req)

			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, tt.code, apperror.CodeOf(err))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies non blank fields", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, idSet{}, idSet{})

		repo.On("GetByID", ctx, int64(3)).
			Return(&Item{ID: 3, Name: "Drill", Description: "Old", Available: true, OwnerID: 1}, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		it, err := svc.Update(ctx, 1, 3, UpdateRequest{
			Name:        ptr("  "),
			Description: ptr("New"),
			Available:   ptr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "Drill", it.Name)
		assert.Equal(t, "New", it.Description)
		assert.False(t, it.Available)
	})

	t.Run("foreign item is reported missing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, idSet{}, idSet{})

		repo.On("GetByID", ctx, int64(3)).Return(&Item{ID: 3, OwnerID: 1}, nil)

		_, err := svc.Update(ctx, 2, 3, UpdateRequest{Name: ptr("Saw")})
		assert.EqualError(t, err, "item with id: 3 does not exist yet")
		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing item", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, idSet{}, idSet{})

		repo.On("GetByID", ctx, int64(4)).Return(nil, NotFound(4))

		_, err := svc.Update(ctx, 1, 4, UpdateRequest{})
		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	page := paging.Unpaged()

	t.Run("blank text skips the store", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, idSet{}, idSet{})

		items, err := svc.Search(ctx, "   ", page)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trims text", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, idSet{}, idSet{})

		repo.On("Search", ctx, "drill", page).Return([]*Item{{ID: 1}}, nil)

		items, err := svc.Search(ctx, " drill ", page)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestListByOwner(t *testing.T) {
	ctx := context.Background()
	page := paging.Unpaged()

	repo := new(MockRepository)
	svc := NewService(repo, idSet{1: true}, idSet{})

	repo.On("ListByOwner", ctx, int64(1), page).Return([]*Item{{ID: 2, OwnerID: 1}}, nil)

	items, err := svc.ListByOwner(ctx, 1, page)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ListByOwner(ctx, 8, page)
	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
}

func TestOwnerLookupFailureIsWrapped(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, failingDirectory{}, idSet{})

	_, err := svc.ListByOwner(context.Background(), 1, paging.Unpaged())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDirectoryDown)
	assert.Equal(t, http.StatusInternalServerError, apperror.CodeOf(err))
}

var errDirectoryDown = errors.New("directory down")

type failingDirectory struct{}

func (failingDirectory) Exists(context.Context, int64) (bool, error) {
	return false, errDirectoryDown
}
