package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/push"
)

// PushTokenService stores device push tokens for users allowed to receive them
type PushTokenService interface {
	Register(ctx context.Context, userID int64, token string) (*dto.PushTokenResponse, error)
	Unregister(ctx context.Context, userID int64) error
}

type pushTokenServiceImpl struct {
	users  UserStore
	logger zerolog.Logger
}

// NewPushTokenService creates a new PushTokenService
func NewPushTokenService(users UserStore, logger zerolog.Logger) PushTokenService {
	return &pushTokenServiceImpl{
		users:  users,
		logger: logger.With().Str("service", "push-token").Logger(),
	}
}

// Register stores token for students and users without a role. Other roles get
// registered=false and lose any token stored earlier.
func (s *pushTokenServiceImpl) Register(ctx context.Context, userID int64, token string) (*dto.PushTokenResponse, error) {
	token = strings.TrimSpace(token)
	if !push.IsValidPushToken(token) {
		return nil, fmt.Errorf("%w: unrecognized token format", apperrors.ErrInvalidPushToken)
	}

	// role is read from the store, never from the token claims
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.Role.ReceivesStudentNotifications() {
		if user.HasPushToken() {
			if err := s.users.UpdatePushToken(ctx, userID, nil); err != nil {
				return nil, err
			}
			s.logger.Info().Int64("userID", userID).Str("role", string(user.Role)).Msg("Cleared push token for non-student role")
		}
		return &dto.PushTokenResponse{
			Registered: false,
			Reason:     "role does not receive student notifications",
		}, nil
	}

	if user.PushToken != nil && *user.PushToken == token {
		return &dto.PushTokenResponse{Registered: true}, nil
	}

	if err := s.users.UpdatePushToken(ctx, userID, &token); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("userID", userID).Msg("Push token registered")
	return &dto.PushTokenResponse{Registered: true}, nil
}

// Unregister removes the stored token
func (s *pushTokenServiceImpl) Unregister(ctx context.Context, userID int64) error {
	return s.users.UpdatePushToken(ctx, userID, nil)
}
