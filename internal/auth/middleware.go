package auth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// RequireUser is a Gin middleware that reads the caller from the X-Sharer-User-Id header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseUserID(c.GetHeader(UserIDHeader))
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		SetUserID(c, id)
		c.Next()
	}
}

// RequireUserOrBearer accepts either the X-Sharer-User-Id header or, when jwtManager
// is set, an Authorization: Bearer <token> header. The header wins when both are sent.
func RequireUserOrBearer(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(UserIDHeader); raw != "" || jwtManager == nil {
			id, err := parseUserID(raw)
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			SetUserID(c, id)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.BadRequest(c, fmt.Sprintf("missing %s header", UserIDHeader))
			return
		}

		id, err := jwtManager.ParseUserID(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		SetUserID(c, id)
		c.Next()
	}
}

func parseUserID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing %s header", UserIDHeader)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", UserIDHeader, raw)
	}
	return id, nil
}
