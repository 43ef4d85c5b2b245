package serverutils

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	user *entity.User
}

func (s *stubAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest, userAgent string) (*dto.LoginResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(ctx context.Context, rawToken string) error {
	return nil
}

func (s *stubAuthService) Authenticate(ctx context.Context, rawToken string) (*entity.User, error) {
	if rawToken == "valid-token" {
		return s.user, nil
	}
	return nil, service.ErrUnauthenticated
}

func (s *stubAuthService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

func newGateApp(t *testing.T, optional bool) *fiber.App {
	t.Helper()

	stub := &stubAuthService{user: &entity.User{Id: uuid.New(), Email: "reader@example.com"}}

	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(quietLogger{}))

	gate := AuthMiddleware(stub)
	if optional {
		gate = OptionalAuthMiddleware(stub)
	}
	app.Get("/who", gate, func(ctx *fiber.Ctx) error {
		if user := CurrentUser(ctx); user != nil {
			return ctx.SendString(user.Email)
		}
		return ctx.SendString("guest")
	})
	return app
}

func TestAuthMiddlewareRejectsWithoutCredential(t *testing.T) {
	app := newGateApp(t, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/who", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareCookiePrecedesHeader(t *testing.T) {
	app := newGateApp(t, false)

	// A bad cookie is not rescued by a good header.
	req := httptest.NewRequest("GET", "/who", nil)
	req.Header.Set("Cookie", AuthCookieName+"=stale-token")
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	app := newGateApp(t, false)

	req := httptest.NewRequest("GET", "/who", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", string(body))
}

func TestOptionalAuthMiddlewareAllowsGuests(t *testing.T) {
	app := newGateApp(t, true)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"no credential", "", "guest"},
		{"invalid credential", "stale-token", "guest"},
		{"valid credential", "valid-token", "reader@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/who", nil)
			if tt.token != "" {
				req.Header.Set("Cookie", AuthCookieName+"="+tt.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
