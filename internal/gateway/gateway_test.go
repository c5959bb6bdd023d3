package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// upstream records what the gateway forwarded and answers with a canned reply.
type upstream struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	body     string
}

type recorded struct {
	Method    string
	Path      string
	Query     string
	UserID    string
	RequestID string
	Body      string
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	u.mu.Lock()
	u.requests = append(u.requests, recorded{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		UserID:    r.Header.Get(auth.UserIDHeader),
		RequestID: r.Header.Get("X-Request-ID"),
		Body:      string(body),
	})
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(u.status)
	_, _ = w.Write([]byte(u.body))
}

func (u *upstream) calls() []recorded {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]recorded(nil), u.requests...)
}

func setup(t *testing.T, jwtManager *auth.JWTManager) (*gin.Engine, *upstream) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	up := &upstream{status: http.StatusOK, body: `{"id":1}`}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	r, err := NewRouter(Config{
		Client:     NewClient(srv.URL, 2*time.Second),
		JWTManager: jwtManager,
		TokenTTL:   time.Hour,
		Now:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return r, up
}

func do(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

var asUser7 = map[string]string{auth.UserIDHeader: "7"}

func TestCreateBookingForwardsValidRequest(t *testing.T) {
	r, up := setup(t, nil)

	body := `{"itemId":3,"start":"2026-03-02T10:00:00Z","end":"2026-03-03T10:00:00Z"}`
	w := do(r, http.MethodPost, "/bookings", body, map[string]string{
		auth.UserIDHeader: "7",
		"X-Request-ID":    "req-1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/bookings", calls[0].Path)
	assert.Equal(t, "7", calls[0].UserID)
	assert.Equal(t, "req-1", calls[0].RequestID)
	assert.JSONEq(t, body, calls[0].Body)
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		headers map[string]string
		wantMsg string
	}{
		{
			name:    "end before start",
			body:    `{"itemId":3,"start":"2026-03-03T10:00:00Z","end":"2026-03-02T10:00:00Z"}`,
			headers: asUser7,
			wantMsg: "the end of the booking cannot be earlier than the start of the booking",
		},
		{
			name:    "end equals start",
			body:    `{"itemId":3,"start":"2026-03-02T10:00:00Z","end":"2026-03-02T10:00:00Z"}`,
			headers: asUser7,
			wantMsg: "the end of the booking cannot be earlier than the start of the booking",
		},
		{
			name:    "start in the past",
			body:    `{"itemId":3,"start":"2026-02-28T10:00:00Z","end":"2026-03-02T10:00:00Z"}`,
			headers: asUser7,
			wantMsg: "start cannot be in the past",
		},
		{
			name:    "missing end",
			body:    `{"itemId":3,"start":"2026-03-02T10:00:00Z"}`,
			headers: asUser7,
			wantMsg: "end field cannot be empty",
		},
		{
			name:    "non positive item",
			body:    `{"itemId":-1,"start":"2026-03-02T10:00:00Z","end":"2026-03-03T10:00:00Z"}`,
			headers: asUser7,
			wantMsg: "itemId must be positive",
		},
		{
			name:    "missing identity",
			body:    `{"itemId":3,"start":"2026-03-02T10:00:00Z","end":"2026-03-03T10:00:00Z"}`,
			wantMsg: "missing X-Sharer-User-Id header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, up := setup(t, nil)

			w := do(r, http.MethodPost, "/bookings", tt.body, tt.headers)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, w))
			assert.Empty(t, up.calls())
		})
	}
}

func TestStartAtCurrentInstantIsAccepted(t *testing.T) {
	r, up := setup(t, nil)

	body := `{"itemId":3,"start":"2026-03-01T12:00:00Z","end":"2026-03-01T13:00:00Z"}`
	w := do(r, http.MethodPost, "/bookings", body, asUser7)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, up.calls(), 1)
}

func TestListBookingsNormalizesState(t *testing.T) {
	r, up := setup(t, nil)

	w := do(r, http.MethodGet, "/bookings/owner?state=current&from=20&size=5", "", asUser7)

	require.Equal(t, http.StatusOK, w.Code)
	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bookings/owner", calls[0].Path)
	assert.Equal(t, "from=20&size=5&state=CURRENT", calls[0].Query)
}

func TestListBookingsDefaults(t *testing.T) {
	r, up := setup(t, nil)

	w := do(r, http.MethodGet, "/bookings", "", asUser7)

	require.Equal(t, http.StatusOK, w.Code)
	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "from=0&size=10&state=ALL", calls[0].Query)
}

func TestListBookingsRejectsBadInput(t *testing.T) {
	tests := []struct {
		target  string
		wantMsg string
	}{
		{"/bookings?state=bogus", "Unknown state: bogus"},
		{"/bookings?size=0", "size must be positive"},
		{"/bookings/owner?from=-1", "from must be positive or zero"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			r, up := setup(t, nil)

			w := do(r, http.MethodGet, tt.target, "", asUser7)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, w))
			assert.Empty(t, up.calls())
		})
	}
}

func TestApproveForwardsFlag(t *testing.T) {
	r, up := setup(t, nil)

	w := do(r, http.MethodPatch, "/bookings/4?approved=false", "", asUser7)
	require.Equal(t, http.StatusOK, w.Code)

	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPatch, calls[0].Method)
	assert.Equal(t, "/bookings/4", calls[0].Path)
	assert.Equal(t, "approved=false", calls[0].Query)

	w = do(r, http.MethodPatch, "/bookings/4", "", asUser7)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "approved field cannot be empty", errorMessage(t, w))

	w = do(r, http.MethodPatch, "/bookings/0?approved=true", "", asUser7)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, up.calls(), 1)
}

func TestSearchWithBlankTextSkipsServer(t *testing.T) {
	r, up := setup(t, nil)

	w := do(r, http.MethodGet, "/items/search?text=%20%20", "", asUser7)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Empty(t, up.calls())

	w = do(r, http.MethodGet, "/items/search?text=drill", "", asUser7)
	assert.Equal(t, http.StatusOK, w.Code)
	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "from=0&size=10&text=drill", calls[0].Query)
}

func TestBodyValidationMessages(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		headers map[string]string
		wantMsg string
	}{
		{"user blank name", http.MethodPost, "/users", `{"name":"  ","email":"a@b.c"}`, nil, "name field cannot be empty"},
		{"user bad email", http.MethodPost, "/users", `{"name":"Ann","email":"nope"}`, nil, "incorrectly entered email"},
		{"user update bad email", http.MethodPatch, "/users/1", `{"email":"nope"}`, nil, "incorrectly entered email"},
		{"item missing available", http.MethodPost, "/items", `{"name":"Drill","description":"Loud"}`, asUser7, "available field cannot be empty"},
		{"item blank description", http.MethodPost, "/items", `{"name":"Drill","description":"","available":true}`, asUser7, "description field cannot be empty"},
		{"comment blank", http.MethodPost, "/items/2/comment", `{"text":" "}`, asUser7, "text field cannot be empty"},
		{"request blank", http.MethodPost, "/requests", `{"description":""}`, asUser7, "description field cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, up := setup(t, nil)

			w := do(r, tt.method, tt.target, tt.body, tt.headers)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, w))
			assert.Empty(t, up.calls())
		})
	}
}

func TestUpstreamStatusIsRelayed(t *testing.T) {
	r, up := setup(t, nil)
	up.status = http.StatusNotFound
	up.body = `{"error":"booking with id: 9 does not exist yet"}`

	w := do(r, http.MethodGet, "/bookings/9", "", asUser7)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, up.body, w.Body.String())
}

func TestUnreachableServerIsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r, err := NewRouter(Config{
		Client: NewClient(url, time.Second),
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/users", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errorMessage(t, w), "server unavailable")
}

func TestBearerTokenIdentity(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	r, up := setup(t, jwtManager)

	w := do(r, http.MethodPost, "/auth/token", "", asUser7)
	require.Equal(t, http.StatusOK, w.Code)

	var token TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "Bearer", token.TokenType)
	assert.EqualValues(t, 3600, token.ExpiresIn)

	w = do(r, http.MethodGet, "/bookings/1", "", map[string]string{
		"Authorization": "Bearer " + token.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	calls := up.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "7", calls[0].UserID)

	w = do(r, http.MethodGet, "/bookings/1", "", map[string]string{
		"Authorization": "Bearer garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, up.calls(), 1)
}

func TestTokenEndpointHiddenWithoutJWT(t *testing.T) {
	r, _ := setup(t, nil)

	w := do(r, http.MethodPost, "/auth/token", "", asUser7)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
