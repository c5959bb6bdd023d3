package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	requestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemview"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds the services the server router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	CommentService comment.Service
	RequestService itemrequest.Service
	Assembler      *itemview.Assembler

	// Metrics is optional; nil disables the middleware and /metrics.
	Metrics *metrics.Metrics
}

// NewRouter initializes the server HTTP engine.
// It assembles middleware (request id, logger, recovery, CORS, metrics) and registers every module.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - RequestID: tags each request so the gateway and server logs line up.
	// - Logger / Recovery: request log line, panics become a 500.
	r.Use(RequestID(), gin.Logger(), gin.Recovery())
	r.Use(CORS(cfg.IsProduction, cfg.ProdOrigins))

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// userMiddleware: resolves the caller from X-Sharer-User-Id.
	userMiddleware := auth.RequireUser()

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, cfg.Assembler, cfg.CommentService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, userMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, userMiddleware)
		requestHttp.RegisterRoutes(root, requestHandler, userMiddleware)
	}

	return r
}
