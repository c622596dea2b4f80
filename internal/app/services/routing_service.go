package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
)

// Routes the client can land on after sign in
const (
	RouteProfile = "profile"
	RouteAdmin   = "admin"
	RouteStudent = "student"
	RouteGuest   = "guest"
)

// RoutingService decides the landing screen for a signed in user
type RoutingService interface {
	ResolveRoute(ctx context.Context, userID int64) string
}

type routingServiceImpl struct {
	users  UserStore
	logger zerolog.Logger
}

// NewRoutingService creates a new RoutingService
func NewRoutingService(users UserStore, logger zerolog.Logger) RoutingService {
	return &routingServiceImpl{users: users, logger: logger.With().Str("service", "routing").Logger()}
}

// ResolveRoute sends incomplete profiles to the profile screen, otherwise routes by role.
// Any lookup failure also lands on the profile screen.
func (s *routingServiceImpl) ResolveRoute(ctx context.Context, userID int64) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Route lookup failed")
		return RouteProfile
	}
	if !user.ProfileComplete() {
		return RouteProfile
	}
	return routeForRole(user.Role)
}

func routeForRole(role models.Role) string {
	switch {
	case role.IsStaff():
		return RouteAdmin
	case role.ReceivesStudentNotifications():
		return RouteStudent
	default:
		return RouteGuest
	}
}
