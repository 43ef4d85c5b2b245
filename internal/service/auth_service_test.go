package service

import (
	"context"
	"testing"
	"time"

	"book-chatbot-be/internal/config"
	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/repository/memory"
	"book-chatbot-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (IAuthService, *memory.Factory) {
	t.Helper()
	factory := memory.NewFactory()
	svc := NewAuthService(factory, config.AuthConfig{
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
	}, nil, nil)
	return svc, factory
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	svc, factory := newAuthFixture(t)

	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "Reader@Example.com",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "reader@example.com", res.User.Email)

	stored, err := factory.Users.FindOne(context.Background(), specification.ByEmail{Email: "reader@example.com"})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "Str0ng!pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Str0ng!pass")))
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "reader@example.com",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "READER@EXAMPLE.COM",
		Password: "Str0ng!pass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterPasswordPolicy(t *testing.T) {
	svc, _ := newAuthFixture(t)

	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"too short", "S1!a", ErrValidation},
		{"no uppercase", "weak1pass!", ErrWeakPassword},
		{"no digit", "Weakpass!!", ErrWeakPassword},
		{"no special", "Weakpass11", ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &dto.RegisterRequest{
				Email:    "reader@example.com",
				Password: tt.password,
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "reader@example.com",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "reader@example.com",
		Password: "wrong password",
	}, "test-agent")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Str0ng!pass",
	}, "test-agent")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)

	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "reader@example.com",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.Id, user.Id)

	_, err = svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := newAuthFixture(t)

	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "reader@example.com",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.AccessToken))

	// Token still carries a valid signature, but the session row is gone.
	_, err = svc.Authenticate(context.Background(), res.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSweepExpiredSessions(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewAuthService(factory, config.AuthConfig{
		JWTSecret:  "test-secret",
		SessionTTL: -time.Minute, // sessions are born expired
	}, nil, nil)

	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "reader@example.com",
		Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), res.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	removed, err := svc.SweepExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
