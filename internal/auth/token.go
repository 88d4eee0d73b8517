package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 24 * time.Hour

var (
	// ErrMissingSecret means the signing key was never configured. There is
	// deliberately no fallback secret.
	ErrMissingSecret = errors.New("jwt secret not configured")

	// ErrTokenMalformed means the token could not be structurally decoded.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenInvalid means the signature does not match.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired means a correctly signed token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims describes the JWT payload. Subject is always a string, even though
// principal ids are numeric in the database.
type Claims struct {
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
	IsArtist bool   `json:"is_artist"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens with a process-wide secret.
// Safe for concurrent use; the secret is read-only after construction.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager builds a manager around the configured secret. An empty
// secret is allowed here so construction never hides the problem; Issue and
// Verify report ErrMissingSecret instead.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// Ready reports whether the manager can sign tokens.
func (tm *TokenManager) Ready() error {
	if len(tm.secret) == 0 {
		return ErrMissingSecret
	}
	return nil
}

// Issue builds and signs a token for the subject. Expiry is now + TokenTTL.
func (tm *TokenManager) Issue(subject, name string, isAdmin, isArtist bool) (string, time.Time, error) {
	if err := tm.Ready(); err != nil {
		return "", time.Time{}, err
	}

	now := tm.now()
	expiresAt := now.Add(TokenTTL)
	claims := &Claims{
		Name:     name,
		IsAdmin:  isAdmin,
		IsArtist: isArtist,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token, distinguishing garbage from tampering
// from expiry so callers can branch on the outcome.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	if err := tm.Ready(); err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return tm.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
