package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/testutil"
)

func TestVisitorTokens_RoundTrip(t *testing.T) {
	clock := testutil.NewClock(testutil.TestTime())
	tokens, err := NewVisitorTokens("k3y", time.Hour, clock.Now)
	require.NoError(t, err)

	id := uuid.NewString()
	tok, err := tokens.Issue(id)
	require.NoError(t, err)

	got, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	clock.Advance(2 * time.Hour)
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidVisitorToken)
}

func TestVisitorTokens_Rejects(t *testing.T) {
	clock := testutil.NewClock(testutil.TestTime())
	tokens, err := NewVisitorTokens("k3y", time.Hour, clock.Now)
	require.NoError(t, err)
	other, err := NewVisitorTokens("other", time.Hour, clock.Now)
	require.NoError(t, err)

	foreign, err := other.Issue(uuid.NewString())
	require.NoError(t, err)

	notUUID, err := tokens.Issue("visitor-1")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    visitorTokenIssuer,
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":   "not-a-token",
		"other key": foreign,
		"non uuid":  notUUID,
		"alg none":  unsigned,
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidVisitorToken)
		})
	}
}

func TestVisitorTokens_RandomKey(t *testing.T) {
	a, err := NewVisitorTokens("", time.Hour, nil)
	require.NoError(t, err)
	b, err := NewVisitorTokens("  ", time.Hour, nil)
	require.NoError(t, err)

	tok, err := a.Issue(uuid.NewString())
	require.NoError(t, err)
	_, err = b.Parse(tok)
	assert.Error(t, err)
}
