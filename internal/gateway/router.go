package gateway

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
)

// Config holds what the gateway router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Client       *Client

	// JWTManager is optional; nil accepts X-Sharer-User-Id only and hides /auth/token.
	JWTManager *auth.JWTManager
	TokenTTL   time.Duration

	// Now drives the booking time rules. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the gateway engine. Every route validates its input before anything
// reaches the server.
func NewRouter(cfg Config) (*gin.Engine, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if err := RegisterValidators(now); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(api.RequestID(), gin.Logger(), gin.Recovery())
	r.Use(api.CORS(cfg.IsProduction, cfg.ProdOrigins))

	h := NewHandler(cfg.Client, cfg.JWTManager, cfg.TokenTTL)
	identity := auth.RequireUserOrBearer(cfg.JWTManager)

	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	items := r.Group("/items", identity)
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/search", h.SearchItems)
		items.GET("/:id", h.GetItem)
		items.PATCH("/:id", h.UpdateItem)
		items.POST("/:id/comment", h.AddComment)
	}

	requests := r.Group("/requests", identity)
	{
		requests.POST("", h.CreateItemRequest)
		requests.GET("", h.ListOwnItemRequests)
		requests.GET("/all", h.ListOtherItemRequests)
		requests.GET("/:id", h.GetItemRequest)
	}

	bookings := r.Group("/bookings", identity)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookerBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.ApproveBooking)
	}

	if cfg.JWTManager != nil {
		r.POST("/auth/token", identity, h.IssueToken)
	}

	return r, nil
}
