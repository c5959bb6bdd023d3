package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrAlreadyApproved  = apperror.New(http.StatusBadRequest, "booking is already approved")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "the end of the booking cannot be earlier than the start of the booking")
	ErrOwnerBooking     = apperror.New(http.StatusNotFound, "the owner cannot book his own item")
)

// NotFound reports a booking that does not exist or that the caller may not see.
func NotFound(id int64) error {
	return apperror.NotFoundf("booking with id: %d does not exist yet", id)
}

// ItemUnavailable reports an item whose owner has switched off lending.
func ItemUnavailable(itemID int64) error {
	return apperror.BadRequestf("item with id: %d is currently unavailable", itemID)
}

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking is a reservation of one item by one user for [Start, End].
type Booking struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Status Status

	ItemID      int64
	ItemName    string
	ItemOwnerID int64

	BookerID   int64
	BookerName string
}

// CreateRequest holds the caller-supplied part of a new booking.
type CreateRequest struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}
