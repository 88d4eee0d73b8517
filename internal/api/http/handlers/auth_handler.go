package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/afriart/gallery-service/internal/api/dto"
	"github.com/afriart/gallery-service/internal/auth"
	"github.com/afriart/gallery-service/internal/domain"
	"github.com/afriart/gallery-service/internal/notification"
	"github.com/afriart/gallery-service/internal/service"
	"github.com/afriart/gallery-service/internal/twofactor"
	apperrors "github.com/afriart/gallery-service/pkg/util"
)

// AuthHandler exposes registration, login and the 2FA handshake for every
// role. The role is a path parameter so the three near-identical per-role
// endpoints collapse into one set.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService, validate: validator.New()}
}

// Register handles POST /auth/:role/register. Admin accounts are created
// through the maintenance CLI, never over HTTP.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	role, err := parseRole(c)
	if err != nil {
		return err
	}
	if role == domain.RoleAdmin {
		return apperrors.NewNotFound("route", nil)
	}

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.validateStruct(req); err != nil {
		return err
	}

	principal, token, exp, err := h.auth.Register(c.Context(), role, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Bio:      req.Bio,
	})
	if err != nil {
		return mapAuthError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"principal": fiber.Map{
				"id":    principal.ID,
				"name":  principal.Name,
				"email": principal.Email,
				"role":  role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/:role/login. With the 2FA policy enabled the
// response announces the pending code handshake instead of carrying a
// token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	role, err := parseRole(c)
	if err != nil {
		return err
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.validateStruct(req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Context(), role, req.Email, req.Password)
	if err != nil {
		return mapAuthError(err)
	}

	if result.TwoFactorRequired {
		return c.JSON(fiber.Map{
			"data": fiber.Map{
				"two_factor_required": true,
				"message":             "verification code sent",
			},
		})
	}

	return c.JSON(loginResponse(role, result))
}

// RequestCode handles POST /auth/:role/2fa/request (initial send or
// resend; a resend supersedes the previous code).
func (h *AuthHandler) RequestCode(c *fiber.Ctx) error {
	role, err := parseRole(c)
	if err != nil {
		return err
	}

	var req dto.TwoFactorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.validateStruct(req); err != nil {
		return err
	}

	if err := h.auth.RequestCode(c.Context(), role, req.Email); err != nil {
		return mapAuthError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "verification code sent"},
	})
}

// VerifyCode handles POST /auth/:role/2fa/verify, finishing the handshake
// with a token on success. Credentials travel with the code and are
// re-validated before anything is consumed.
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	role, err := parseRole(c)
	if err != nil {
		return err
	}

	var req dto.TwoFactorVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.validateStruct(req); err != nil {
		return err
	}

	result, err := h.auth.CompleteLogin(c.Context(), role, req.Email, req.Password, req.Code)
	if err != nil {
		return mapAuthError(err)
	}
	return c.JSON(loginResponse(role, result))
}

// Me handles GET /auth/me, echoing the verified claims the gate bound to
// the request.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"subject":    claims.Subject,
			"name":       claims.Name,
			"is_admin":   claims.IsAdmin,
			"is_artist":  claims.IsArtist,
			"expires_at": claims.ExpiresAt.Time,
		},
	})
}

func parseRole(c *fiber.Ctx) (domain.Role, error) {
	role, err := domain.ParseRole(c.Params("role"))
	if err != nil {
		return "", apperrors.NewValidationError("unknown role", map[string]any{
			"role": c.Params("role"),
		})
	}
	return role, nil
}

func loginResponse(role domain.Role, result *service.LoginResult) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"principal": fiber.Map{
				"id":   result.Principal.ID,
				"name": result.Principal.Name,
				"role": role,
			},
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	}
}

func (h *AuthHandler) validateStruct(req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	details := map[string]any{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError("invalid payload", details)
}

// mapAuthError translates core errors into boundary errors. Credential
// failures stay coarse; 2FA outcomes keep their distinct messages so the
// client can prompt for a resend versus a retype.
func mapAuthError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownRole):
		return apperrors.NewValidationError("unknown role", nil)
	case errors.Is(err, service.ErrAlreadyRegistered):
		return apperrors.NewConflict("email already registered", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, twofactor.ErrCodeNotFound):
		return apperrors.NewUnauthorized("no verification code found")
	case errors.Is(err, twofactor.ErrCodeExpired):
		return apperrors.NewUnauthorized("verification code has expired")
	case errors.Is(err, twofactor.ErrCodeInvalid):
		return apperrors.NewUnauthorized("invalid verification code")
	case errors.Is(err, auth.ErrMissingSecret), errors.Is(err, notification.ErrNotConfigured):
		return apperrors.NewDomainError("CONFIGURATION_ERROR", "service not configured", http.StatusServiceUnavailable, nil)
	default:
		return apperrors.MapError(err)
	}
}
