package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemview"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// ItemTag is a brief representation of an item.
type ItemTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
	}
}

// BookingTag is the short booking shown as an item's last or next booking.
type BookingTag struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func newBookingTag(b *booking.Booking) *BookingTag {
	if b == nil {
		return nil
	}
	return &BookingTag{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func newCommentResponse(c itemview.CommentView) CommentResponse {
	return CommentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: c.CreatedAt}
}

// NewAddedCommentResponse shapes a freshly stored comment.
func NewAddedCommentResponse(c *comment.Comment, authorName string) CommentResponse {
	return CommentResponse{ID: c.ID, Text: c.Text, AuthorName: authorName, Created: c.CreatedAt}
}

// ItemDetailResponse is an item with its booking window and comments.
type ItemDetailResponse struct {
	ItemResponse
	LastBooking *BookingTag       `json:"lastBooking"`
	NextBooking *BookingTag       `json:"nextBooking"`
	Comments    []CommentResponse `json:"comments"`
}

func NewItemDetailResponse(v itemview.View) ItemDetailResponse {
	comments := make([]CommentResponse, 0, len(v.Comments))
	for _, c := range v.Comments {
		comments = append(comments, newCommentResponse(c))
	}
	return ItemDetailResponse{
		ItemResponse: NewItemResponse(v.Item),
		LastBooking:  newBookingTag(v.LastBooking),
		NextBooking:  newBookingTag(v.NextBooking),
		Comments:     comments,
	}
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId" binding:"omitempty,gt=0"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type SearchRequest struct {
	request.PageParams
	Text string `form:"text"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
