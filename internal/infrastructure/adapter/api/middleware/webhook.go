package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/dto"
)

// WebhookSecretHeader carries the shared secret on inbound webhook calls
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookAuth middleware authenticates inbound webhooks with a shared secret.
// An unconfigured secret fails closed: the endpoint answers 503 rather than
// accepting unauthenticated events.
func WebhookAuth(secret string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrDependency),
				Message: "Webhook endpoint is not configured",
			})
			return
		}

		provided := c.GetHeader(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			logger.Warn("Rejected webhook with bad secret", map[string]any{
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrUnauthorized),
				Message: "Invalid webhook secret",
			})
			return
		}

		c.Next()
	}
}
