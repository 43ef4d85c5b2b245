package serverutils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"book-chatbot-be/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(t *testing.T, limit int) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	// Principal injection stands in for AuthMiddleware, which runs first
	// on the real chat routes.
	app.Use(func(ctx *fiber.Ctx) error {
		if id := ctx.Get("X-Test-User"); id != "" {
			ctx.Locals(localsUserKey, &entity.User{Id: uuid.MustParse(id)})
		}
		return ctx.Next()
	})
	app.Use(RateLimitMiddleware(client, limit, time.Minute))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	return app, mr
}

func TestRateLimitBlocksOverLimitWithRetryAfter(t *testing.T) {
	app, _ := newLimitedApp(t, 2)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		Data struct {
			RetryAfter int64 `json:"retry_after"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.GreaterOrEqual(t, payload.Data.RetryAfter, int64(1))
}

func TestRateLimitKeyedPerUser(t *testing.T) {
	app, _ := newLimitedApp(t, 1)

	userA := uuid.New().String()
	userB := uuid.New().String()

	reqA := httptest.NewRequest("GET", "/", nil)
	reqA.Header.Set("X-Test-User", userA)
	resp, err := app.Test(reqA)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A different user has their own budget.
	reqB := httptest.NewRequest("GET", "/", nil)
	reqB.Header.Set("X-Test-User", userB)
	resp, err = app.Test(reqB)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// So does an anonymous caller from the same host.
	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	reqA2 := httptest.NewRequest("GET", "/", nil)
	reqA2.Header.Set("X-Test-User", userA)
	resp, err = app.Test(reqA2)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimitFailsOpenWhenRedisDown(t *testing.T) {
	app, mr := newLimitedApp(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		// The redis client retries dials with backoff before Incr fails,
		// which can exceed fiber's default 1s Test timeout.
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), 10000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
