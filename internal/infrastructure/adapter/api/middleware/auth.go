package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerr "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// ContextUserIDKey is the gin context key the authenticated user id is stored
// under
const ContextUserIDKey = "userId"

// TokenParser validates a bearer token and returns the user it was issued to
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// Auth middleware requires a valid Bearer token and stores the authenticated
// user id in the request context
func Auth(parser TokenParser, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
				Message: "Missing or malformed Authorization header",
			})
			return
		}

		userID, err := parser.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Debug("Rejected bearer token", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
