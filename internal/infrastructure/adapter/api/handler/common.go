package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerr "github.com/stellovault/backend/internal/domain/error"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/middleware"
)

// respondError maps a domain error to its HTTP status and error-code envelope
func respondError(c *gin.Context, err error) {
	c.JSON(domainerr.HTTPStatus(err), dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}

// respondBadRequest returns a 400 with a validation error code
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrValidation),
		Message: message,
	})
}

// currentUserID reads the authenticated user id set by the auth middleware.
// Routes behind the middleware always have it; its absence is a wiring bug.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
			Message: "Authentication required",
		})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
			Message: "Authentication required",
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a uuid path parameter, responding 400 on malformed input
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondBadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
