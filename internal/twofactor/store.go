package twofactor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/afriart/gallery-service/internal/domain"
)

// CodeTTLSeconds is how long a one-time code stays usable.
const CodeTTLSeconds = 600

var (
	// ErrCodeNotFound means no live code exists for the address and role.
	ErrCodeNotFound = errors.New("no verification code found")

	// ErrCodeExpired means the code existed but its TTL had passed. The
	// entry is removed when this is observed.
	ErrCodeExpired = errors.New("verification code has expired")

	// ErrCodeInvalid means the candidate did not match. The stored code
	// survives so the caller may retry within the TTL.
	ErrCodeInvalid = errors.New("invalid verification code")
)

// CodeStore issues and consumes short-lived one-time codes keyed by
// (address, role). Implementations must keep generate/verify atomic per
// key: two concurrent verifications of the same code cannot both succeed.
type CodeStore interface {
	// Generate creates a fresh code, dispatches it to the address and
	// stores it for CodeTTLSeconds. A prior live code for the same key is
	// superseded. The code is stored only after dispatch succeeds.
	Generate(ctx context.Context, address string, role domain.Role) error

	// Verify consumes the code on a match. A mismatch leaves the entry in
	// place; an expired entry is removed on first observation.
	Verify(ctx context.Context, address string, role domain.Role, code string) error

	// SweepExpired removes entries whose TTL has passed, returning how
	// many were dropped.
	SweepExpired(ctx context.Context) int
}

// randomCode draws a uniform 4-digit code in [1000, 9999].
func randomCode() string {
	return fmt.Sprintf("%d", rand.Intn(9000)+1000)
}

// codeSubject is the mail subject for dispatched codes.
const codeSubject = "Your Verification Code"

// codeBody renders the HTML mail carrying the code.
func codeBody(code string) string {
	return fmt.Sprintf(`
        <html>
          <body>
            <h2>Your Verification Code</h2>
            <p>Your 4-digit verification code is: <strong>%s</strong></p>
            <p>This code will expire in 10 minutes.</p>
            <p>If you didn't request this code, please ignore this email.</p>
          </body>
        </html>
        `, code)
}
