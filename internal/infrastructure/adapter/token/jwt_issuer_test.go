package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/stellovault/backend/internal/domain/error"
	coremocks "github.com/stellovault/backend/mocks/port/core"
)

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := coremocks.NewMockTimeProvider(now)
	issuer := NewJWTIssuer("test-secret", time.Hour, "stellovault", clock)

	userID := uuid.New()

	token, expiresAt, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := coremocks.NewMockTimeProvider(now)
	issuer := NewJWTIssuer("test-secret", time.Hour, "stellovault", clock)

	token, _, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := coremocks.NewMockTimeProvider(now)
	issuer := NewJWTIssuer("test-secret", time.Hour, "stellovault", clock)
	other := NewJWTIssuer("other-secret", time.Hour, "stellovault", clock)

	token, _, err := other.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := coremocks.NewMockTimeProvider(now)
	issuer := NewJWTIssuer("test-secret", time.Hour, "stellovault", clock)
	other := NewJWTIssuer("test-secret", time.Hour, "someone-else", clock)

	token, _, err := other.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestParseRejectsGarbage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := coremocks.NewMockTimeProvider(now)
	issuer := NewJWTIssuer("test-secret", time.Hour, "stellovault", clock)

	_, err := issuer.Parse("not.a.token")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
