package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/afriart/gallery-service/internal/api/http/handlers"
	"github.com/afriart/gallery-service/internal/auth"
	"github.com/afriart/gallery-service/internal/config"
	"github.com/afriart/gallery-service/internal/domain"
	"github.com/afriart/gallery-service/internal/observability"
	"github.com/afriart/gallery-service/internal/persistence"
	"github.com/afriart/gallery-service/internal/service"
	"github.com/afriart/gallery-service/internal/twofactor"
)

var codePattern = regexp.MustCompile(`<strong>(\d{4})</strong>`)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[domain.Role]map[string]*domain.Principal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[domain.Role]map[string]*domain.Principal{
		domain.RoleUser:   {},
		domain.RoleArtist: {},
		domain.RoleAdmin:  {},
	}}
}

func (r *fakeRepo) GetByEmail(_ context.Context, role domain.Role, email string) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[role][email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) Insert(_ context.Context, role domain.Role, p *domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	copied := *p
	r.rows[role][p.Email] = &copied
	return nil
}

type fakeSender struct {
	mu     sync.Mutex
	bodies []string
}

func (f *fakeSender) Send(_ context.Context, _, _, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeSender) lastCode(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.bodies)
	match := codePattern.FindStringSubmatch(f.bodies[len(f.bodies)-1])
	require.Len(t, match, 2)
	return match[1]
}

func newTestApp(t *testing.T, twoFactorLogin bool) (*fiber.App, *fakeRepo, *fakeSender) {
	t.Helper()

	repo := newFakeRepo()
	sender := &fakeSender{}
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:      "test-secret",
		TwoFactorLogin: twoFactorLogin,
	}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		PrincipalRepo: repo,
		CodeStore:     twofactor.NewMemoryStore(sender),
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("test", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:   handlers.NewAuthHandler(authService),
		Gate:   auth.NewGate(authService.TokenManager()),
	})
	return app, repo, sender
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, app *fiber.App, name, email, password string) string {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/auth/user/register", "", map[string]any{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, status)
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func TestRegisterAndDuplicate(t *testing.T) {
	app, repo, _ := newTestApp(t, false)

	token := registerUser(t, app, "Alice", "alice@x.com", "pw123")
	require.NotEmpty(t, token)

	status, body := doJSON(t, app, "POST", "/auth/user/register", "", map[string]any{
		"name": "Alice Again", "email": "alice@x.com", "password": "pw456",
	})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "CONFLICT", body["error"].(map[string]any)["code"])
	require.Len(t, repo.rows[domain.RoleUser], 1)
}

func TestRegisterValidation(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	status, body := doJSON(t, app, "POST", "/auth/user/register", "", map[string]any{
		"name": "Alice", "email": "not-an-email", "password": "pw123",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestRegisterUnknownRole(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	status, _ := doJSON(t, app, "POST", "/auth/staff/register", "", map[string]any{
		"name": "X", "email": "x@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestAdminRegistrationNotExposed(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	status, _ := doJSON(t, app, "POST", "/auth/admin/register", "", map[string]any{
		"name": "Root", "email": "root@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusNotFound, status)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _, _ := newTestApp(t, false)
	registerUser(t, app, "Bob", "bob@x.com", "right")

	status, body := doJSON(t, app, "POST", "/auth/user/login", "", map[string]any{
		"email": "bob@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid credentials", body["error"].(map[string]any)["message"])
}

func TestTwoFactorLoginFlow(t *testing.T) {
	app, _, sender := newTestApp(t, true)
	registerUser(t, app, "Alice", "alice@x.com", "pw123")

	status, body := doJSON(t, app, "POST", "/auth/user/login", "", map[string]any{
		"email": "alice@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["data"].(map[string]any)["two_factor_required"])

	code := sender.lastCode(t)
	status, body = doJSON(t, app, "POST", "/auth/user/2fa/verify", "", map[string]any{
		"email": "alice@x.com", "password": "pw123", "code": code,
	})
	require.Equal(t, http.StatusOK, status)
	token := body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)

	// single use
	status, _ = doJSON(t, app, "POST", "/auth/user/2fa/verify", "", map[string]any{
		"email": "alice@x.com", "password": "pw123", "code": code,
	})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestTwoFactorCodeAloneYieldsNoToken(t *testing.T) {
	app, _, sender := newTestApp(t, true)
	registerUser(t, app, "Alice", "alice@x.com", "pw123")

	// anyone who knows the address can trigger a code send
	status, _ := doJSON(t, app, "POST", "/auth/user/2fa/request", "", map[string]any{
		"email": "alice@x.com",
	})
	require.Equal(t, http.StatusOK, status)
	code := sender.lastCode(t)

	// verify without a password never reaches the service
	status, _ = doJSON(t, app, "POST", "/auth/user/2fa/verify", "", map[string]any{
		"email": "alice@x.com", "code": code,
	})
	require.Equal(t, http.StatusBadRequest, status)

	// and a wrong password fails before the code is consumed
	status, body := doJSON(t, app, "POST", "/auth/user/2fa/verify", "", map[string]any{
		"email": "alice@x.com", "password": "guess", "code": code,
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid credentials", body["error"].(map[string]any)["message"])

	// the rightful owner can still finish with the same code
	status, body = doJSON(t, app, "POST", "/auth/user/2fa/verify", "", map[string]any{
		"email": "alice@x.com", "password": "pw123", "code": code,
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["data"].(map[string]any)["auth"].(map[string]any)["token"])
}

func TestRegisterAcceptsShortPassword(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	status, _ := doJSON(t, app, "POST", "/auth/user/register", "", map[string]any{
		"name": "Cy", "email": "cy@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, "POST", "/auth/user/login", "", map[string]any{
		"email": "cy@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusOK, status)
}

func TestGateProtectsRoutes(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	// no credential
	status, _ := doJSON(t, app, "GET", "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	// authenticated non-admin
	userToken := registerUser(t, app, "Alice", "alice@x.com", "pw123")
	status, body := doJSON(t, app, "GET", "/auth/me", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "1", body["data"].(map[string]any)["subject"])

	// non-admin on an admin-gated route
	status, _ = doJSON(t, app, "GET", "/admin/session", userToken, nil)
	require.Equal(t, http.StatusForbidden, status)
}

func TestAdminGateAllowsAdmin(t *testing.T) {
	app, repo, _ := newTestApp(t, false)

	admin := &domain.Principal{
		Name:         "Root",
		Email:        "root@x.com",
		PasswordHash: auth.HashPassword("pw123"),
	}
	require.NoError(t, repo.Insert(context.Background(), domain.RoleAdmin, admin))

	status, body := doJSON(t, app, "POST", "/auth/admin/login", "", map[string]any{
		"email": "root@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, status)
	adminToken := body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)

	status, body = doJSON(t, app, "GET", "/admin/session", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	require.Equal(t, "1", data["subject"])
	require.Equal(t, true, data["is_admin"])
}

func TestMalformedTokenRejected(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	status, body := doJSON(t, app, "GET", "/auth/me", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid token", body["error"].(map[string]any)["message"])
}
