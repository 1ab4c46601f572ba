package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyOperatorToken_RoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tok, err := IssueOperatorToken("admin", "viewingdesk", "test_secret", now, 10*time.Minute)
	require.NoError(t, err)

	got, err := VerifyOperatorToken(tok, "viewingdesk", "test_secret", now)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Name)
	assert.Equal(t, now.Add(10*time.Minute).Unix(), got.ExpiresAt.Unix())
}

func TestVerifyOperatorToken_FallsBackToSubject(t *testing.T) {
	now := time.Unix(1700000000, 0)
	claims := OperatorClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "ops-7",
		Audience:  []string{"viewingdesk"},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	got, err := VerifyOperatorToken(s, "viewingdesk", "k", now)
	require.NoError(t, err)
	assert.Equal(t, "ops-7", got.Name)
}

func TestVerifyOperatorToken_Rejects(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, err := IssueOperatorToken("admin", "viewingdesk", "test_secret", now, time.Minute)
	require.NoError(t, err)

	_, err = VerifyOperatorToken(tok, "viewingdesk", "other_secret", now)
	assert.Error(t, err, "wrong secret")

	_, err = VerifyOperatorToken(tok, "someone-else", "test_secret", now)
	assert.Error(t, err, "wrong audience")

	_, err = VerifyOperatorToken(tok, "viewingdesk", "test_secret", now.Add(time.Hour))
	assert.Error(t, err, "expired")

	_, err = VerifyOperatorToken("", "viewingdesk", "test_secret", now)
	assert.Error(t, err, "empty")
}
