package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *Claims
	err    error
}

func (s stubVerifier) Verify(string) (*Claims, error) {
	return s.claims, s.err
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Token abc.def.ghi", "abc.def.ghi", true},
		{"", "", false},
		{"abc.def.ghi", "", false},
		{"Bearer", "", false},
	}
	for _, tt := range tests {
		token, ok := ExtractToken(tt.header)
		require.Equal(t, tt.ok, ok, "header %q", tt.header)
		require.Equal(t, tt.token, token, "header %q", tt.header)
	}
}

func TestAuthorizeMissingCredential(t *testing.T) {
	gate := NewGate(stubVerifier{})

	_, err := gate.Authorize("", false)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorizeVerifierErrorStaysObservable(t *testing.T) {
	gate := NewGate(stubVerifier{err: ErrTokenExpired})

	_, err := gate.Authorize("Bearer some-token", false)
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthorizeAdminGate(t *testing.T) {
	userClaims := &Claims{Name: "Alice"}
	gate := NewGate(stubVerifier{claims: userClaims})

	_, err := gate.Authorize("Bearer tok", true)
	require.ErrorIs(t, err, ErrForbidden)

	claims, err := gate.Authorize("Bearer tok", false)
	require.NoError(t, err)
	require.Equal(t, userClaims, claims)
}

func TestAuthorizeEndToEnd(t *testing.T) {
	tm := NewTokenManager("test-secret")
	gate := NewGate(tm)

	token, _, err := tm.Issue("9", "Root", true, false)
	require.NoError(t, err)

	claims, err := gate.Authorize("Bearer "+token, true)
	require.NoError(t, err)
	require.Equal(t, "9", claims.Subject)
	require.True(t, claims.IsAdmin)

	tail := "xx"
	if strings.HasSuffix(token, tail) {
		tail = "yy"
	}
	tampered := token[:len(token)-2] + tail
	_, err = gate.Authorize("Bearer "+tampered, false)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorizeRejectsErrorBeforeClaims(t *testing.T) {
	gate := NewGate(stubVerifier{err: errors.New("boom")})

	_, err := gate.Authorize("Bearer tok", false)
	require.ErrorIs(t, err, ErrUnauthenticated)
}
