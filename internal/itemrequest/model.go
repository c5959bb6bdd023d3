package itemrequest

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description is required")

// NotFound reports an unknown item request.
func NotFound(id int64) error {
	return apperror.NotFoundf("item request with id: %d does not exist yet", id)
}

// ItemRequest is a user asking for an item nobody lists yet.
type ItemRequest struct {
	ID          int64
	Description string
	RequestorID int64
	CreatedAt   time.Time

	// Items answering the request. Filled by the service, not stored.
	Items []*item.Item
}
