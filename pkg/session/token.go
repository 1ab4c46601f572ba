package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorClaims identify the dashboard user acting on appointments.
type OperatorClaims struct {
	jwt.RegisteredClaims

	// Name is the display name recorded in appointment history.
	Name string `json:"name,omitempty"`
}

type VerifiedOperator struct {
	Name      string
	Subject   string
	ExpiresAt time.Time
}

// VerifyOperatorToken verifies an HS256 operator token and returns the
// identity to record as the operator of a transition.
func VerifyOperatorToken(tokenString, audience, secret string, now time.Time) (*VerifiedOperator, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing token secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	claims := &OperatorClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if audience != "" && !audContains([]string(claims.Audience), audience) {
		return nil, fmt.Errorf("audience mismatch")
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name = strings.TrimSpace(claims.Subject)
	}
	if name == "" {
		return nil, fmt.Errorf("missing operator in token")
	}

	return &VerifiedOperator{
		Name:      name,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueOperatorToken signs a token for name; used by dev tooling and tests.
func IssueOperatorToken(name, audience, secret string, now time.Time, ttl time.Duration) (string, error) {
	claims := OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: name,
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func audContains(aud []string, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
