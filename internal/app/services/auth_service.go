package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/auth"
)

// AuthService defines authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
	Logout(ctx context.Context, userID int64) error
}

// TokenGenerator signs access tokens
type TokenGenerator interface {
	GenerateAccessToken(userID int64, email, role string) (string, int64, error)
}

type authServiceImpl struct {
	users        UserStore
	tokens       TokenGenerator
	pushTokens   PushTokenService
	hashPassword func(string) (string, error)
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenGenerator, pushTokens PushTokenService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:        users,
		tokens:       tokens,
		pushTokens:   pushTokens,
		hashPassword: auth.HashPassword,
		logger:       logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a guest account and signs the user in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", apperrors.ErrValidationFailed)
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:           email,
		Password:        hashed,
		Name:            name,
		Phone:           strings.TrimSpace(req.Phone),
		Role:            models.RoleGuest,
		EnrolledCourses: models.Enrollments{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User registered")
	return s.issue(user)
}

// Login verifies the credentials and returns an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Password mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}

// CurrentUser returns the signed in user
func (s *authServiceImpl) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Logout clears the device push token so the signed out device stops receiving notifications
func (s *authServiceImpl) Logout(ctx context.Context, userID int64) error {
	if err := s.pushTokens.Unregister(ctx, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", userID).Msg("User logged out")
	return nil
}
