package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// Handler validates incoming requests and relays valid ones to the server.
type Handler struct {
	client     *Client
	jwtManager *auth.JWTManager
	tokenTTL   time.Duration
}

func NewHandler(client *Client, jwtManager *auth.JWTManager, tokenTTL time.Duration) *Handler {
	return &Handler{client: client, jwtManager: jwtManager, tokenTTL: tokenTTL}
}

// relay forwards call with the caller's identity and request id, then writes the reply as is.
func (h *Handler) relay(c *gin.Context, call Call) {
	call.UserID = auth.GetUserID(c)
	call.RequestID = c.GetString(response.RequestIDKey)

	reply, err := h.client.Do(c.Request.Context(), call)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(reply.Status, reply.ContentType, reply.Body)
}

func bindID(c *gin.Context) (int64, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return 0, false
	}
	return uri.ID, true
}

func pageQuery(p request.PageParams) url.Values {
	return url.Values{
		"from": {strconv.Itoa(p.From)},
		"size": {strconv.Itoa(p.Size)},
	}
}

// Users

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodPost, Path: "/users", Body: req})
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodPatch, Path: fmt.Sprintf("/users/%d", id), Body: req})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.relay(c, Call{Method: http.MethodGet, Path: fmt.Sprintf("/users/%d", id)})
}

func (h *Handler) ListUsers(c *gin.Context) {
	h.relay(c, Call{Method: http.MethodGet, Path: "/users"})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.relay(c, Call{Method: http.MethodDelete, Path: fmt.Sprintf("/users/%d", id)})
}

// Items

func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodPost, Path: "/items", Body: req})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodPatch, Path: fmt.Sprintf("/items/%d", id), Body: req})
}

func (h *Handler) GetItem(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.relay(c, Call{Method: http.MethodGet, Path: fmt.Sprintf("/items/%d", id)})
}

func (h *Handler) ListItems(c *gin.Context) {
	var page request.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodGet, Path: "/items", Query: pageQuery(page)})
}

func (h *Handler) SearchItems(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusOK, []any{})
		return
	}

	query := pageQuery(req.PageParams)
	query.Set("text", req.Text)
	h.relay(c, Call{Method: http.MethodGet, Path: "/items/search", Query: query})
}

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodPost, Path: fmt.Sprintf("/items/%d/comment", id), Body: req})
}

// Item requests

func (h *Handler) CreateItemRequest(c *gin.Context) {
	var req CreateItemRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodPost, Path: "/requests", Body: req})
}

func (h *Handler) ListOwnItemRequests(c *gin.Context) {
	h.relay(c, Call{Method: http.MethodGet, Path: "/requests"})
}

func (h *Handler) ListOtherItemRequests(c *gin.Context) {
	var page request.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodGet, Path: "/requests/all", Query: pageQuery(page)})
}

func (h *Handler) GetItemRequest(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.relay(c, Call{Method: http.MethodGet, Path: fmt.Sprintf("/requests/%d", id)})
}

// Bookings

func (h *Handler) CreateBooking(c *gin.Context) {
	var req BookItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{Method: http.MethodPost, Path: "/bookings", Body: req})
}

func (h *Handler) ApproveBooking(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req ApproveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}
	h.relay(c, Call{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/bookings/%d", id),
		Query:  url.Values{"approved": {strconv.FormatBool(*req.Approved)}},
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	h.relay(c, Call{Method: http.MethodGet, Path: fmt.Sprintf("/bookings/%d", id)})
}

func (h *Handler) ListBookerBookings(c *gin.Context) {
	h.listBookings(c, "/bookings")
}

func (h *Handler) ListOwnerBookings(c *gin.Context) {
	h.listBookings(c, "/bookings/owner")
}

func (h *Handler) listBookings(c *gin.Context, path string) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, bindingMessage(err))
		return
	}

	state := booking.State(strings.ToUpper(req.State))
	if !state.Valid() {
		response.Error(c, booking.UnknownState(req.State))
		return
	}

	query := pageQuery(req.PageParams)
	query.Set("state", string(state))
	h.relay(c, Call{Method: http.MethodGet, Path: path, Query: query})
}

// Auth

// IssueToken mints a bearer token for the identified caller.
func (h *Handler) IssueToken(c *gin.Context) {
	userID := auth.GetUserID(c)
	token, err := h.jwtManager.GenerateAccessToken(userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}
