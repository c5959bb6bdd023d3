package itemrequest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/paging"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *ItemRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemRequest), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]*ItemRequest, error) {
	args := m.Called(ctx, requestorID)
	return args.Get(0).([]*ItemRequest), args.Error(1)
}

func (m *MockRepository) ListOthers(ctx context.Context, requestorID int64, page paging.Page) ([]*ItemRequest, error) {
	args := m.Called(ctx, requestorID, page)
	return args.Get(0).([]*ItemRequest), args.Error(1)
}

type MockItems struct {
	mock.Mock
}

func (m *MockItems) ListByRequests(ctx context.Context, requestIDs []int64) ([]*item.Item, error) {
	args := m.Called(ctx, requestIDs)
	return args.Get(0).([]*item.Item), args.Error(1)
}

type idSet map[int64]bool

func (s idSet) Exists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockItems), idSet{1: true})

	repo.On("Create", ctx, mock.MatchedBy(func(r *ItemRequest) bool {
		return r.Description == "Need a ladder" && r.RequestorID == 1
	})).Return(nil)

	req, err := svc.Create(ctx, 1, " Need a ladder ")
	require.NoError(t, err)
	assert.NotNil(t, req.Items)
	assert.Empty(t, req.Items)

	_, err = svc.Create(ctx, 1, " ")
	assert.ErrorIs(t, err, ErrDescriptionRequired)

	_, err = svc.Create(ctx, 2, "Need a saw")
	assert.EqualError(t, err, "user with id: 2 does not exist yet")
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestListOwnAttachesAnswers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	items := new(MockItems)
	svc := NewService(repo, items, idSet{1: true})

	repo.On("ListByRequestor", ctx, int64(1)).Return([]*ItemRequest{{ID: 7}, {ID: 6}}, nil)
	items.On("ListByRequests", ctx, []int64{7, 6}).Return([]*item.Item{
		{ID: 20, RequestID: int64Ptr(6)},
		{ID: 21, RequestID: int64Ptr(6)},
	}, nil)

	reqs, err := svc.ListOwn(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Items)
	assert.NotNil(t, reqs[0].Items)
	require.Len(t, reqs[1].Items, 2)
	assert.Equal(t, int64(20), reqs[1].Items[0].ID)
}

func TestListOthers(t *testing.T) {
	ctx := context.Background()

	t.Run("pages through other users requests", func(t *testing.T) {
		repo := new(MockRepository)
		items := new(MockItems)
		svc := NewService(repo, items, idSet{1: true})

		page, err := paging.New(2, 2)
		require.NoError(t, err)
		repo.On("ListOthers", ctx, int64(1), page).Return([]*ItemRequest{}, nil)

		reqs, err := svc.ListOthers(ctx, 1, 2, 2)
		require.NoError(t, err)
		assert.Empty(t, reqs)
		items.AssertNotCalled(t, "ListByRequests", mock.Anything, mock.Anything)
	})

	t.Run("rejects bad paging", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockItems), idSet{1: true})

		_, err := svc.ListOthers(ctx, 1, -1, 10)
		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

		_, err = svc.ListOthers(ctx, 1, 0, 0)
		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	items := new(MockItems)
	svc := NewService(repo, items, idSet{1: true})

	repo.On("GetByID", ctx, int64(4)).Return(&ItemRequest{ID: 4, RequestorID: 3}, nil)
	repo.On("GetByID", ctx, int64(5)).Return(nil, NotFound(5))
	items.On("ListByRequests", ctx, []int64{4}).Return([]*item.Item{{ID: 30, RequestID: int64Ptr(4)}}, nil)

	req, err := svc.GetByID(ctx, 1, 4)
	require.NoError(t, err)
	require.Len(t, req.Items, 1)

	_, err = svc.GetByID(ctx, 1, 5)
	assert.EqualError(t, err, "item request with id: 5 does not exist yet")

	_, err = svc.GetByID(ctx, 9, 4)
	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
}
