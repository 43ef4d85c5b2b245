package serverutils

import (
	"strings"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthCookieName = "auth_token"

	localsUserKey  = "current_user"
	localsTokenKey = "auth_token"
)

// AuthMiddleware resolves the bearer credential to a user and stores it
// in request locals. The cookie takes precedence over the header.
func AuthMiddleware(authService service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		rawToken := extractToken(ctx)
		if rawToken == "" {
			return service.ErrUnauthenticated
		}

		user, err := authService.Authenticate(ctx.Context(), rawToken)
		if err != nil {
			return err
		}

		ctx.Locals(localsUserKey, user)
		ctx.Locals(localsTokenKey, rawToken)
		return ctx.Next()
	}
}

// OptionalAuthMiddleware resolves the credential when one is presented
// but lets the request through without a principal otherwise. Handlers
// behind it must treat a nil CurrentUser as a guest.
func OptionalAuthMiddleware(authService service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		rawToken := extractToken(ctx)
		if rawToken == "" {
			return ctx.Next()
		}

		user, err := authService.Authenticate(ctx.Context(), rawToken)
		if err != nil {
			return ctx.Next()
		}

		ctx.Locals(localsUserKey, user)
		ctx.Locals(localsTokenKey, rawToken)
		return ctx.Next()
	}
}

func extractToken(ctx *fiber.Ctx) string {
	if cookie := ctx.Cookies(AuthCookieName); cookie != "" {
		return cookie
	}

	authHeader := ctx.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// CurrentUser returns the authenticated user placed by AuthMiddleware.
func CurrentUser(ctx *fiber.Ctx) *entity.User {
	user, _ := ctx.Locals(localsUserKey).(*entity.User)
	return user
}

// CurrentToken returns the raw bearer token for the request.
func CurrentToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(localsTokenKey).(string)
	return token
}
