package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/booking/memstore"
	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type catalog map[int64]*item.Item

func (c catalog) GetByID(_ context.Context, id int64) (*item.Item, error) {
	if it, ok := c[id]; ok {
		return it, nil
	}
	return nil, item.NotFound(id)
}

type directory map[int64]*user.User

func (d directory) GetByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, user.NotFound(id)
}

func (d directory) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := d[id]
	return ok, nil
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New(func() time.Time { return now })
	svc := booking.NewService(
		store,
		catalog{10: {ID: 10, Name: "Drill", Available: true, OwnerID: 1}},
		directory{1: {ID: 1, Name: "Owner"}, 2: {ID: 2, Name: "Booker"}},
		db.NoTx{},
		nil,
	)

	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc), auth.RequireUser())
	return r, store
}

func call(r http.Handler, method, target string, userID int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set(auth.UserIDHeader, strconv.FormatInt(userID, 10))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

const createBody = `{"itemId":10,"start":"2026-03-02T10:00:00Z","end":"2026-03-03T10:00:00Z"}`

func TestCreateAndApproveFlow(t *testing.T) {
	r, _ := setupRouter(t)

	w := call(r, http.MethodPost, "/bookings", 2, createBody)
	require.Equal(t, http.StatusOK, w.Code)

	created := decode[BookingResponse](t, w)
	assert.Equal(t, "WAITING", created.Status)
	assert.Equal(t, int64(10), created.Item.ID)
	assert.Equal(t, "Drill", created.Item.Name)
	assert.Equal(t, int64(2), created.Booker.ID)

	target := "/bookings/" + strconv.FormatInt(created.ID, 10)

	w = call(r, http.MethodPatch, target+"?approved=true", 2, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(r, http.MethodPatch, target+"?approved=true", 1, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "APPROVED", decode[BookingResponse](t, w).Status)

	w = call(r, http.MethodPatch, target+"?approved=true", 1, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "booking is already approved", decode[map[string]string](t, w)["error"])

	w = call(r, http.MethodGet, target, 2, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "APPROVED", decode[BookingResponse](t, w).Status)
}

func TestCreateRejections(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		body   string
		code   int
	}{
		{"owner books own item", 1, createBody, http.StatusNotFound},
		{"unknown item", 2, `{"itemId":99,"start":"2026-03-02T10:00:00Z","end":"2026-03-03T10:00:00Z"}`, http.StatusNotFound},
		{"end before start", 2, `{"itemId":10,"start":"2026-03-03T10:00:00Z","end":"2026-03-02T10:00:00Z"}`, http.StatusBadRequest},
		{"malformed body", 2, `{"itemId":"x"}`, http.StatusBadRequest},
		{"missing caller", 0, createBody, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupRouter(t)

			w := call(r, http.MethodPost, "/bookings", tt.userID, tt.body)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestListByStateAndScope(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	seed := func(start, end time.Duration, status booking.Status) {
		require.NoError(t, store.Create(ctx, &booking.Booking{
			Start: now.Add(start), End: now.Add(end), Status: status,
			ItemID: 10, ItemName: "Drill", ItemOwnerID: 1, BookerID: 2, BookerName: "Booker",
		}))
	}
	seed(-48*time.Hour, -24*time.Hour, booking.StatusApproved)
	seed(-time.Hour, time.Hour, booking.StatusApproved)
	seed(24*time.Hour, 48*time.Hour, booking.StatusWaiting)

	tests := []struct {
		target string
		userID int64
		want   int
	}{
		{"/bookings", 2, 3},
		{"/bookings?state=past", 2, 1},
		{"/bookings?state=CURRENT", 2, 1},
		{"/bookings/owner?state=future", 1, 1},
		{"/bookings/owner?state=WAITING", 1, 1},
		{"/bookings/owner?state=REJECTED", 1, 0},
		{"/bookings/owner", 2, 0},
		{"/bookings?from=2&size=2", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := call(r, http.MethodGet, tt.target, tt.userID, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]BookingResponse](t, w), tt.want)
		})
	}
}

func TestListRejectsUnknownState(t *testing.T) {
	r, _ := setupRouter(t)

	w := call(r, http.MethodGet, "/bookings?state=SOON", 2, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unknown state: SOON", decode[map[string]string](t, w)["error"])
}

func TestListForUnknownUser(t *testing.T) {
	r, _ := setupRouter(t)

	w := call(r, http.MethodGet, "/bookings", 42, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmptyListIsArray(t *testing.T) {
	r, _ := setupRouter(t)

	w := call(r, http.MethodGet, "/bookings/owner", 1, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
