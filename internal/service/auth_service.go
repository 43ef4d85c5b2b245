package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"book-chatbot-be/internal/config"
	"book-chatbot-be/internal/dto"
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/pkg/mailer"
	"book-chatbot-be/internal/repository/specification"
	"book-chatbot-be/internal/repository/unitofwork"
	"book-chatbot-be/pkg/events"
	pkgNats "book-chatbot-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*entity.User, error)
	SweepExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	authCfg        config.AuthConfig
	emailService   mailer.IEmailService
	eventPublisher *pkgNats.Publisher
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	authCfg config.AuthConfig,
	emailService mailer.IEmailService,
	eventPublisher *pkgNats.Publisher,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		authCfg:        authCfg,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// validatePassword enforces the password policy: at least 8 characters
// with an upper, a lower, a digit and a special character.
func validatePassword(password string) error {
	if len(password) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrWeakPassword
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	resp, err := s.issueSession(ctx, uow, user)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "USER_REGISTERED", user, "")

	if s.emailService != nil {
		go func() {
			if mailErr := s.emailService.SendWelcome(user.Email); mailErr != nil {
				fmt.Printf("Error sending welcome email: %v\n", mailErr)
			}
		}()
	}

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, userAgent string) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueSession(ctx, uow, user)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "USER_LOGIN", user, userAgent)

	return resp, nil
}

// issueSession signs a JWT and records a session row keyed by the token's
// SHA-256 hash. Middleware later checks both independently.
func (s *authService) issueSession(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) (*dto.LoginResponse, error) {
	expiresAt := time.Now().Add(s.authCfg.SessionTTL)

	claims := jwt.MapClaims{
		"sub": user.Id.String(),
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(signedToken),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signedToken,
		ExpiresAt:   expiresAt,
		User: dto.UserDTO{
			Id:    user.Id,
			Email: user.Email,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().DeleteSessionsByTokenHash(ctx, hashToken(rawToken))
}

// Authenticate resolves a bearer token to a user. The JWT signature and
// expiry claim, and the stored session row's own expiry, are checked
// independently; both must pass.
func (s *authService) Authenticate(ctx context.Context, rawToken string) (*entity.User, error) {
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return []byte(s.authCfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return nil, ErrUnauthenticated
	}
	userId, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.UserRepository().FindSession(ctx, specification.ByTokenHash{TokenHash: hashToken(rawToken)})
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired(time.Now()) {
		return nil, ErrUnauthenticated
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

func (s *authService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().DeleteExpiredSessions(ctx, time.Now())
}

func (s *authService) publishEvent(ctx context.Context, eventType string, user *entity.User, device string) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"user_id": user.Id,
		"time":    time.Now().Format(time.RFC822),
	}
	if device != "" {
		data["device"] = device
	}
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}
