package user

import (
	"net/http"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrEmailAlreadyUsed = apperror.New(http.StatusConflict, "email already used")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "name is required")
	ErrEmailRequired    = apperror.New(http.StatusBadRequest, "email is required")
)

// NotFound reports a user id the directory does not know.
func NotFound(id int64) error {
	return apperror.NotFoundf("user with id: %d does not exist yet", id)
}

// User is an account that can own items, book them and comment on them.
type User struct {
	ID    int64
	Name  string
	Email string
}

// UpdateRequest carries a partial update. Nil or blank fields are left untouched.
type UpdateRequest struct {
	Name  *string
	Email *string
}
