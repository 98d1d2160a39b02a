package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/observability/metrics"
	"github.com/aryan0dhankhar/wattbill/internal/security/audit"
	"github.com/aryan0dhankhar/wattbill/internal/security/auth"
)

// SignupInput is the body of POST /api/signup
type SignupInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the body of POST /api/login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult represents login response
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
	audit    *audit.Logger
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo domain.UserRepository,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		validate: validator.New(),
		audit:    audit.NewLogger(logger),
		logger:   logger,
	}
}

// Signup creates a new admin account
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	if err := s.validate.Struct(in); err != nil {
		return domain.ErrMissingFields
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			s.audit.LogSignup(ctx, in.Email, "rejected", "email exists")
			return domain.ErrEmailExists
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return fmt.Errorf("create user: %w", err)
	}

	s.audit.LogSignup(ctx, user.Email, "success", "")
	return nil
}

// Login authenticates a user and returns a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		metrics.ObserveLogin("failure")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveLogin("failure")
			s.audit.LogLogin(ctx, in.Email, "failure", "unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.ObserveLogin("error")
		s.logger.Error("failed to load user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !auth.ComparePassword(user.PasswordHash, in.Password) {
		metrics.ObserveLogin("failure")
		s.audit.LogLogin(ctx, in.Email, "failure", "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		metrics.ObserveLogin("error")
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.ObserveLogin("success")
	s.audit.LogLogin(ctx, user.Email, "success", "")
	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{Token: token, Username: user.Username}, nil
}

// Authenticate validates the Authorization header value and returns the
// token claims. Returns domain.ErrMissingToken or domain.ErrInvalidToken.
func (s *AuthService) Authenticate(authHeader string) (*auth.Claims, error) {
	token, err := auth.ExtractToken(authHeader)
	if err != nil {
		return nil, err
	}
	return s.tokens.ValidateToken(token)
}
