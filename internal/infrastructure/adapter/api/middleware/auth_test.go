package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	coremocks "github.com/stellovault/backend/mocks/port/core"
)

type stubParser struct {
	userID uuid.UUID
	err    error
}

func (p *stubParser) Parse(token string) (uuid.UUID, error) {
	return p.userID, p.err
}

func authRouter(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/wallets", Auth(parser, coremocks.NewMockLogger()), func(c *gin.Context) {
		userID := c.MustGet(ContextUserIDKey).(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"userId": userID.String()})
	})
	return router
}

func TestAuthAcceptsValidBearerToken(t *testing.T) {
	userID := uuid.New()
	router := authRouter(&stubParser{userID: userID})

	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	router := authRouter(&stubParser{userID: uuid.New()})

	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsNonBearerScheme(t *testing.T) {
	router := authRouter(&stubParser{userID: uuid.New()})

	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	router := authRouter(&stubParser{err: errors.New("expired")})

	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
