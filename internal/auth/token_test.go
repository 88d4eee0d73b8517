package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, expiresAt, err := tm.Issue("42", "Alice", false, true)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "Alice", claims.Name)
	require.False(t, claims.IsAdmin)
	require.True(t, claims.IsArtist)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestVerifyExpired(t *testing.T) {
	tm := NewTokenManager("test-secret")
	current := time.Now()
	tm.now = func() time.Time { return current }

	token, _, err := tm.Issue("7", "Bob", false, false)
	require.NoError(t, err)

	current = current.Add(TokenTTL + time.Minute)
	_, err = tm.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, _, err := tm.Issue("7", "Bob", true, false)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")

	_, err := tm.Verify("not-a-token")
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a")
	verifier := NewTokenManager("secret-b")

	token, _, err := issuer.Issue("7", "Bob", false, false)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMissingSecret(t *testing.T) {
	tm := NewTokenManager("")

	_, _, err := tm.Issue("1", "x", false, false)
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = tm.Verify("anything")
	require.ErrorIs(t, err, ErrMissingSecret)
}
