package gateway

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,notblank"`
	Email string `json:"email" binding:"required,notblank,email"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,notblank"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,notblank"`
	Description string `json:"description" binding:"required,notblank"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId,omitempty" binding:"omitempty,gt=0"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,notblank"`
	Description *string `json:"description,omitempty" binding:"omitempty,notblank"`
	Available   *bool   `json:"available,omitempty"`
}

type SearchItemsRequest struct {
	request.PageParams
	Text string `form:"text"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required,notblank"`
}

// BookItemRequest is checked field by field and then by the start-before-end struct rule.
type BookItemRequest struct {
	ItemID int64     `json:"itemId" binding:"required,gt=0"`
	Start  time.Time `json:"start" binding:"required,notpast"`
	End    time.Time `json:"end" binding:"required,future"`
}

type ApproveRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

type ListBookingsRequest struct {
	request.PageParams
	State string `form:"state,default=ALL"`
}

// TokenResponse carries a bearer token minted for the caller.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}
