package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	transport "github.com/sandunudayakantha/TransitEquity/internal/api/http"
	"github.com/sandunudayakantha/TransitEquity/internal/api/http/handlers"
	"github.com/sandunudayakantha/TransitEquity/internal/auth"
	"github.com/sandunudayakantha/TransitEquity/internal/config"
	"github.com/sandunudayakantha/TransitEquity/internal/domain"
	"github.com/sandunudayakantha/TransitEquity/internal/events"
	"github.com/sandunudayakantha/TransitEquity/internal/observability"
	"github.com/sandunudayakantha/TransitEquity/internal/repository"
	"github.com/sandunudayakantha/TransitEquity/internal/service"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*domain.User{}}
}

func (m *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserRepo) List(_ context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryUserRepo) ListPending(_ context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0)
	for _, user := range m.users {
		if !user.IsApproved {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryUserRepo) Approve(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.IsApproved = true
	copied := *user
	return &copied, nil
}

// seed inserts a record directly through the store, the administrative
// capability the lifecycle API does not cover.
func (m *memoryUserRepo) seed(t *testing.T, id, email string, role domain.Role, password string, approved bool) {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, m.Create(context.Background(), &domain.User{
		ID:           id,
		Name:         "Seeded " + string(role),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsApproved:   approved,
		PhoneNumber:  "0770000000",
	}))
}

type testEnv struct {
	app  *fiber.App
	repo *memoryUserRepo
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "handler-test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}

	repo := newMemoryUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg, repo, dispatcher)
	userService := service.NewUserService(repo, dispatcher)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), repo)

	app := fiber.New()
	transport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0, false)
	transport.RegisterRoutes(app, transport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService, false),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: authMiddleware,
	})

	return &testEnv{app: app, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return parsed
}

func jwtCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.TokenCookieName {
			return cookie
		}
	}
	return nil
}

func registerBody(role string) map[string]string {
	return map[string]string{
		"name":        "Sandun",
		"email":       "sandun@example.com",
		"password":    "secret123",
		"role":        role,
		"address":     "Colombo",
		"phoneNumber": "0771234567",
	}
}

func (e *testEnv) login(t *testing.T, email, password string) (string, *http.Response) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if resp.StatusCode != http.StatusOK {
		return "", resp
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	return token, resp
}

func TestRegisterUserRole(t *testing.T) {
	env := newEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", registerBody("user"), "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := jwtCookie(resp)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["isApproved"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterPrivilegedRolePending(t *testing.T) {
	env := newEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", registerBody("tOfficer"), "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Nil(t, jwtCookie(resp))

	body := decodeBody(t, resp)
	assert.NotContains(t, body, "token")
	assert.Equal(t, "Account created successfully. Please wait for admin approval.", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, false, user["isApproved"])
}

func TestRegisterValidation(t *testing.T) {
	env := newEnv(t)

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		message string
	}{
		{"missing name", func(b map[string]string) { b["name"] = "" }, "Name is required"},
		{"bad email", func(b map[string]string) { b["email"] = "not-an-email" }, "Invalid email format"},
		{"short password", func(b map[string]string) { b["password"] = "abc" }, "Password must be at least 6 characters"},
		{"missing phone", func(b map[string]string) { b["phoneNumber"] = "" }, "Phone number is required"},
		{"unknown role", func(b map[string]string) { b["role"] = "superuser" }, "unknown role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := registerBody("user")
			tt.mutate(payload)
			resp := env.do(t, http.MethodPost, "/api/auth/register", payload, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Contains(t, body["message"], tt.message)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", registerBody("user"), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/register", registerBody("user"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "User already exists", body["message"])
}

func TestLoginFlows(t *testing.T) {
	env := newEnv(t)
	env.repo.seed(t, "u1", "rider@example.com", domain.RoleUser, "secret123", true)
	env.repo.seed(t, "o1", "officer@example.com", domain.RoleTOfficer, "secret123", false)

	t.Run("approved account", func(t *testing.T) {
		token, resp := env.login(t, "rider@example.com", "secret123")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, token)
		cookie := jwtCookie(resp)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("pending account", func(t *testing.T) {
		_, resp := env.login(t, "officer@example.com", "secret123")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, jwtCookie(resp))
		body := decodeBody(t, resp)
		assert.Equal(t, "Account not approved yet", body["message"])
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		_, wrongResp := env.login(t, "rider@example.com", "wrong")
		assert.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)
		assert.Nil(t, jwtCookie(wrongResp))
		wrongBody := decodeBody(t, wrongResp)

		_, unknownResp := env.login(t, "nobody@example.com", "secret123")
		assert.Equal(t, http.StatusUnauthorized, unknownResp.StatusCode)
		unknownBody := decodeBody(t, unknownResp)

		assert.Equal(t, "Invalid email or password", wrongBody["message"])
		assert.Equal(t, wrongBody["message"], unknownBody["message"])
	})
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Logged out successfully", body["message"])

	cookie := jwtCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Unix() <= 0)
}

func TestMe(t *testing.T) {
	env := newEnv(t)
	env.repo.seed(t, "u1", "rider@example.com", domain.RoleUser, "secret123", true)

	t.Run("without token", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("with token", func(t *testing.T) {
		token, _ := env.login(t, "rider@example.com", "secret123")
		resp := env.do(t, http.MethodGet, "/api/auth/me", nil, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "u1", body["id"])
		assert.Equal(t, "rider@example.com", body["email"])
		assert.Equal(t, "user", body["role"])
	})
}

func TestUsersEndpointsRequireAdmin(t *testing.T) {
	env := newEnv(t)
	env.repo.seed(t, "u1", "rider@example.com", domain.RoleUser, "secret123", true)
	env.repo.seed(t, "a1", "admin@example.com", domain.RoleAdmin, "secret123", true)

	userToken, _ := env.login(t, "rider@example.com", "secret123")
	adminToken, _ := env.login(t, "admin@example.com", "secret123")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/pending"},
		{http.MethodPut, "/api/users/u1/approve"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := env.do(t, tt.method, tt.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp = env.do(t, tt.method, tt.path, nil, userToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)

			resp = env.do(t, tt.method, tt.path, nil, adminToken)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestListUsersAsAdmin(t *testing.T) {
	env := newEnv(t)
	env.repo.seed(t, "a1", "admin@example.com", domain.RoleAdmin, "secret123", true)
	env.repo.seed(t, "u1", "rider@example.com", domain.RoleUser, "secret123", true)
	env.repo.seed(t, "o1", "officer@example.com", domain.RoleTOfficer, "secret123", false)

	adminToken, _ := env.login(t, "admin@example.com", "secret123")

	resp := env.do(t, http.MethodGet, "/api/users", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(raw, &all))
	assert.Len(t, all, 3)

	resp = env.do(t, http.MethodGet, "/api/users/pending", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(raw, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "officer@example.com", pending[0]["email"])
}

func TestApproveFlow(t *testing.T) {
	env := newEnv(t)
	env.repo.seed(t, "a1", "admin@example.com", domain.RoleAdmin, "secret123", true)
	env.repo.seed(t, "o1", "officer@example.com", domain.RoleTOfficer, "secret123", false)

	adminToken, _ := env.login(t, "admin@example.com", "secret123")

	_, resp := env.login(t, "officer@example.com", "secret123")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/users/o1/approve", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["isApproved"])

	token, resp := env.login(t, "officer@example.com", "secret123")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, token)
}

func TestApproveUnknownUser(t *testing.T) {
	env := newEnv(t)
	env.repo.seed(t, "a1", "admin@example.com", domain.RoleAdmin, "secret123", true)

	adminToken, _ := env.login(t, "admin@example.com", "secret123")

	resp := env.do(t, http.MethodPut, "/api/users/ghost/approve", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "User not found", body["message"])
}
