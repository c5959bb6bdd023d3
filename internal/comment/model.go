package comment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var ErrTextRequired = apperror.New(http.StatusBadRequest, "comment text is required")

// NotEligible reports an author who has not finished a booking of the item.
func NotEligible(authorID, itemID int64) error {
	return apperror.BadRequestf("user with id: %d has not finished booking item with id: %d", authorID, itemID)
}

// Comment is feedback left on an item by someone who borrowed it.
type Comment struct {
	ID        int64
	ItemID    int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
}
