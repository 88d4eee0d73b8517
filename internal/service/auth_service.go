package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/afriart/gallery-service/internal/auth"
	"github.com/afriart/gallery-service/internal/config"
	"github.com/afriart/gallery-service/internal/domain"
	"github.com/afriart/gallery-service/internal/events"
	"github.com/afriart/gallery-service/internal/repository"
	"github.com/afriart/gallery-service/internal/twofactor"
)

var (
	// ErrInvalidCredentials covers both a missing principal and a digest
	// mismatch, so responses never reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyRegistered means the address is taken for that role.
	ErrAlreadyRegistered = errors.New("email already registered")
)

// PrincipalSummary is what credential validation reveals about a principal.
type PrincipalSummary struct {
	ID   int64
	Name string
}

// RegisterInput carries registration fields. Phone and Bio are optional
// depending on the role.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Bio      string
}

// LoginResult is the outcome of a login step. When TwoFactorRequired is
// set, no token has been issued yet; the caller must complete the code
// handshake first.
type LoginResult struct {
	Principal         PrincipalSummary
	Token             string
	ExpiresAt         time.Time
	TwoFactorRequired bool
}

// AuthService coordinates registration, login and the one-time-code
// handshake across all three roles.
type AuthService struct {
	principals     repository.PrincipalRepository
	codes          twofactor.CodeStore
	tokens         *auth.TokenManager
	dispatcher     events.Dispatcher
	twoFactorLogin bool
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	PrincipalRepo repository.PrincipalRepository
	CodeStore     twofactor.CodeStore
	Dispatcher    events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		principals:     deps.PrincipalRepo,
		codes:          deps.CodeStore,
		tokens:         auth.NewTokenManager(cfg.Auth.JWTSecret),
		dispatcher:     deps.Dispatcher,
		twoFactorLogin: cfg.Auth.TwoFactorLogin,
	}
}

// ValidateCredentials checks a presented (email, password) pair against the
// stored principal for the role. It issues nothing; it is the pre-check
// step of the login handshake.
func (s *AuthService) ValidateCredentials(ctx context.Context, role domain.Role, email, password string) (*PrincipalSummary, error) {
	if !role.Valid() {
		return nil, domain.ErrUnknownRole
	}

	principal, err := s.principals.GetByEmail(ctx, role, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup principal: %w", err)
	}

	if !auth.CheckPassword(password, principal.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &PrincipalSummary{ID: principal.ID, Name: principal.Name}, nil
}

// Register creates a new principal and issues its first token. There is no
// code handshake on registration. The uniqueness check runs before the
// insert and the token manager is checked up front, so a registered row is
// never left without a returned token.
func (s *AuthService) Register(ctx context.Context, role domain.Role, in RegisterInput) (*domain.Principal, string, time.Time, error) {
	if !role.Valid() {
		return nil, "", time.Time{}, domain.ErrUnknownRole
	}
	if err := s.tokens.Ready(); err != nil {
		return nil, "", time.Time{}, err
	}

	if _, err := s.principals.GetByEmail(ctx, role, in.Email); err == nil {
		return nil, "", time.Time{}, ErrAlreadyRegistered
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, fmt.Errorf("check email uniqueness: %w", err)
	}

	principal := &domain.Principal{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: auth.HashPassword(in.Password),
		Phone:        in.Phone,
		Bio:          in.Bio,
	}
	if err := s.principals.Insert(ctx, role, principal); err != nil {
		// The uniqueness pre-check races with concurrent registrations;
		// the table's unique index is the backstop.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", time.Time{}, ErrAlreadyRegistered
		}
		return nil, "", time.Time{}, fmt.Errorf("insert principal: %w", err)
	}

	subject := strconv.FormatInt(principal.ID, 10)
	token, expiresAt, err := s.tokens.Issue(subject, principal.Name, role.IsAdmin(), role.IsArtist())
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventPrincipalRegistered, role, subject, in.Email)
	return principal, token, expiresAt, nil
}

// Login starts (or, with the 2FA policy disabled, completes) the login
// handshake. With the policy enabled a one-time code is dispatched and the
// result carries TwoFactorRequired instead of a token.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, password string) (*LoginResult, error) {
	summary, err := s.ValidateCredentials(ctx, role, email, password)
	if err != nil {
		return nil, err
	}

	if s.twoFactorLogin {
		if err := s.codes.Generate(ctx, email, role); err != nil {
			return nil, err
		}
		s.publish(ctx, events.EventCodeRequested, role, strconv.FormatInt(summary.ID, 10), email)
		return &LoginResult{Principal: *summary, TwoFactorRequired: true}, nil
	}

	return s.issueFor(ctx, role, summary, email)
}

// RequestCode dispatches a fresh one-time code for the address and role,
// superseding any live code. Used for resends.
func (s *AuthService) RequestCode(ctx context.Context, role domain.Role, email string) error {
	if !role.Valid() {
		return domain.ErrUnknownRole
	}
	if err := s.codes.Generate(ctx, email, role); err != nil {
		return err
	}
	s.publish(ctx, events.EventCodeRequested, role, "", email)
	return nil
}

// CompleteLogin finishes the handshake: credentials are re-validated, the
// one-time code is consumed, and only then is the token issued. A code by
// itself never yields a token; the password check fails first and leaves
// the code untouched.
func (s *AuthService) CompleteLogin(ctx context.Context, role domain.Role, email, password, code string) (*LoginResult, error) {
	summary, err := s.ValidateCredentials(ctx, role, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.codes.Verify(ctx, email, role, code); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventCodeVerified, role, strconv.FormatInt(summary.ID, 10), email)

	return s.issueFor(ctx, role, summary, email)
}

// TokenManager exposes the underlying token manager for the gate.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issueFor(ctx context.Context, role domain.Role, summary *PrincipalSummary, email string) (*LoginResult, error) {
	subject := strconv.FormatInt(summary.ID, 10)
	token, expiresAt, err := s.tokens.Issue(subject, summary.Name, role.IsAdmin(), role.IsArtist())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventLoginSucceeded, role, subject, email)
	return &LoginResult{Principal: *summary, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, role domain.Role, subject, email string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:    eventType,
		Role:    role,
		Subject: subject,
		Email:   email,
		At:      time.Now(),
	})
}
