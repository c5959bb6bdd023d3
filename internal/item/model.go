package item

import (
	"net/http"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "name is required")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description is required")
	ErrAvailableRequired   = apperror.New(http.StatusBadRequest, "available is required")
)

// NotFound reports an item that does not exist or that the caller may not modify.
func NotFound(id int64) error {
	return apperror.NotFoundf("item with id: %d does not exist yet", id)
}

// Item is a thing a user lends out.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64 // the item request this item answers, if any
}

// CreateRequest holds the fields of a new item.
type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// UpdateRequest carries a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}
