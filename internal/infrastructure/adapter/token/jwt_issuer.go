package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
)

// JWTIssuer mints and parses HS256 access tokens
type JWTIssuer struct {
	secret       []byte
	ttl          time.Duration
	issuer       string
	timeProvider coreport.TimeProvider
}

// NewJWTIssuer creates a new JWTIssuer
func NewJWTIssuer(secret string, ttl time.Duration, issuer string, timeProvider coreport.TimeProvider) *JWTIssuer {
	return &JWTIssuer{
		secret:       []byte(secret),
		ttl:          ttl,
		issuer:       issuer,
		timeProvider: timeProvider,
	}
}

// Issue returns a signed bearer token for the user and its expiry
func (i *JWTIssuer) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := i.timeProvider.Now()
	expiresAt := now.Add(i.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: failed to sign token", errs.ErrInternalServer)
	}

	return signed, expiresAt, nil
}

// Parse validates a bearer token and returns the user id it was issued to
func (i *JWTIssuer) Parse(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.timeProvider.Now),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, errs.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}

	return userID, nil
}
