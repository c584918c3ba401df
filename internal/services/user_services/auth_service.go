// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/iyunix/go-chatnest/internal/auth"
	"github.com/iyunix/go-chatnest/internal/domain"
	"github.com/iyunix/go-chatnest/internal/repository/user"
)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey []byte
	tokenTTL     time.Duration
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: []byte(jwtSecretKey),
		tokenTTL:     auth.TokenTTL,
		logger:       logger,
	}
}

// Register creates a user with a bcrypt hashed password.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = user.NormalizeEmail(email)
	if err := s.validateRegistrationInput(email, password); err != nil {
		s.logger.Warn("registration validation failed", "email", maskEmail(email), "error", err.Error())
		return nil, &AuthError{Type: ErrTypeValidation, Operation: "register", Message: err.Error()}
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		s.logger.Warn("registration failed - email already exists", "email", maskEmail(email))
		return nil, &AuthError{Type: ErrTypeConflict, Operation: "register", Message: "user already exists"}
	}
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		s.logger.Error("registration lookup failed", "email", maskEmail(email), "error", err)
		return nil, &AuthError{Type: ErrTypeInternal, Operation: "register", Message: "failed to check user", Cause: err}
	}

	newUser := &domain.User{Email: email}
	if err := newUser.HashPassword(password); err != nil {
		return nil, &AuthError{Type: ErrTypeValidation, Operation: "register", Message: err.Error()}
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		s.logger.Error("user creation failed", "email", maskEmail(email), "error", err)
		return nil, &AuthError{Type: ErrTypeInternal, Operation: "register", Message: "failed to create user", Cause: err}
	}

	s.logger.Info("user registered successfully", "email", maskEmail(email), "user_id", created.ID)
	return created, nil
}

// Login verifies credentials and returns a session token. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", &AuthError{Type: ErrTypeValidation, Operation: "login", Message: "email and password are required"}
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		s.logger.Warn("login failed - user not found", "email", maskEmail(email))
		return nil, "", &AuthError{Type: ErrTypeUnauthorized, Operation: "login", Message: "invalid credentials"}
	}
	if err != nil {
		return nil, "", &AuthError{Type: ErrTypeInternal, Operation: "login", Message: "failed to load user", Cause: err}
	}

	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "email", maskEmail(email), "user_id", u.ID)
		return nil, "", &AuthError{Type: ErrTypeUnauthorized, Operation: "login", Message: "invalid credentials"}
	}

	token, err := auth.GenerateJWT(u.ID, s.jwtSecretKey, s.tokenTTL)
	if err != nil {
		s.logger.Error("JWT token generation failed", "user_id", u.ID, "error", err)
		return nil, "", &AuthError{Type: ErrTypeInternal, Operation: "login", Message: "failed to generate token", Cause: err}
	}

	s.logger.Info("login successful", "email", maskEmail(email), "user_id", u.ID)
	return u, token, nil
}

// ValidateJWTToken validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	userID, err := auth.ValidateToken(tokenString, s.jwtSecretKey)
	if err != nil {
		s.logger.Debug("JWT token validation failed", "error", err)
		return 0, &AuthError{Type: ErrTypeUnauthorized, Operation: "validate_token", Message: "invalid session", Cause: err}
	}
	return userID, nil
}

func (s *AuthService) validateRegistrationInput(email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
