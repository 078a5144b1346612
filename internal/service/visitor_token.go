package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const visitorTokenIssuer = "banksim-ui"

// ErrInvalidVisitorToken is returned for any cookie that does not verify.
var ErrInvalidVisitorToken = errors.New("invalid visitor token")

// VisitorTokens signs and verifies the visitor cookie. The token only names
// a visitor; it carries no identity or role.
type VisitorTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewVisitorTokens builds a signer. An empty key gets a random one, which
// invalidates every visitor cookie on restart.
func NewVisitorTokens(key string, ttl time.Duration, now func() time.Time) (*VisitorTokens, error) {
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		k = make([]byte, 32)
		if _, err := rand.Read(k); err != nil {
			return nil, fmt.Errorf("generate visitor signing key: %w", err)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &VisitorTokens{key: k, ttl: ttl, now: now}, nil
}

// Issue returns a signed token for visitorID.
func (t *VisitorTokens) Issue(visitorID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    visitorTokenIssuer,
		Subject:   visitorID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign visitor token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the visitor ID it names.
func (t *VisitorTokens) Parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(visitorTokenIssuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidVisitorToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidVisitorToken
	}
	return claims.Subject, nil
}
