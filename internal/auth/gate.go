package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/afriart/gallery-service/pkg/util"
)

const claimsKey = "auth_claims"

var (
	// ErrUnauthenticated means no usable credential was presented or the
	// token failed verification. The underlying token error stays wrapped.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")
)

// TokenVerifier is the capability the gate needs from the token layer.
// TokenManager implements it; the gate never depends on the concrete type.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Gate decides, per request, whether a credential authenticates the caller
// and whether the caller may reach admin-gated operations. Authorize is a
// pure decision function so any routing layer can call it before dispatch.
type Gate struct {
	tokens TokenVerifier
}

// NewGate constructs the gate.
func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

// ExtractToken pulls the bearer token out of an Authorization header value.
// Accepts the canonical "Bearer <token>" form, or any "<scheme> <token>"
// two-part form, taking the second part.
func ExtractToken(header string) (string, bool) {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

// Authorize verifies the credential and, when adminOnly is set, enforces the
// admin flag. Returns the decoded claims on success.
func (g *Gate) Authorize(header string, adminOnly bool) (*Claims, error) {
	token, ok := ExtractToken(header)
	if !ok {
		return nil, fmt.Errorf("%w: missing bearer credential", ErrUnauthenticated)
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if adminOnly && !claims.IsAdmin {
		return nil, ErrForbidden
	}
	return claims, nil
}

// Handle is the Fiber adapter for authenticated routes. Verified claims are
// bound to the request so downstream handlers can read the caller identity.
func (g *Gate) Handle(c *fiber.Ctx) error {
	claims, err := g.Authorize(c.Get(fiber.HeaderAuthorization), false)
	if err != nil {
		return mapGateError(err)
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// RequireAdmin is the Fiber adapter for admin-gated routes.
func (g *Gate) RequireAdmin(c *fiber.Ctx) error {
	claims, err := g.Authorize(c.Get(fiber.HeaderAuthorization), true)
	if err != nil {
		return mapGateError(err)
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the claims bound by the gate.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

func mapGateError(err error) error {
	if errors.Is(err, ErrForbidden) {
		return apperrors.NewForbidden("admin privileges required")
	}
	switch {
	case errors.Is(err, ErrTokenExpired):
		return apperrors.NewUnauthorized("token expired")
	case errors.Is(err, ErrTokenMalformed), errors.Is(err, ErrTokenInvalid):
		return apperrors.NewUnauthorized("invalid token")
	default:
		return apperrors.NewUnauthorized("authentication required")
	}
}
