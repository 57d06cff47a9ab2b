package external

import (
	"time"

	"github.com/google/uuid"
)

// TokenIssuer mints access tokens for authenticated users after a successful
// login challenge
type TokenIssuer interface {
	// Issue returns a signed bearer token for the user and its expiry
	Issue(userID uuid.UUID) (token string, expiresAt time.Time, err error)
}
