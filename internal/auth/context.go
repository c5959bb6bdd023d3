package auth

import "github.com/gin-gonic/gin"

// UserIDHeader carries the caller's user id between gateway and server.
const UserIDHeader = "X-Sharer-User-Id"

const userIDKey = "userID"

// GetUserID returns the authenticated user's ID or 0.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// SetUserID stores the authenticated user's ID in the gin context.
func SetUserID(c *gin.Context, id int64) {
	c.Set(userIDKey, id)
}
