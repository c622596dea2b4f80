package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
)

// UserController handles the signed-in user's device token and landing route
type UserController struct {
	pushTokens services.PushTokenService
	routing    services.RoutingService
	logger     zerolog.Logger
}

// NewUserController creates a new user controller
func NewUserController(pushTokens services.PushTokenService, routing services.RoutingService, logger zerolog.Logger) *UserController {
	return &UserController{
		pushTokens: pushTokens,
		routing:    routing,
		logger:     logger.With().Str("controller", "user").Logger(),
	}
}

// RegisterPushToken stores the device push token of the current user
// @Summary Register push token
// @Description Stores the Expo push token. Users whose role does not receive student notifications get registered=false.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PushTokenRequest true "Device token"
// @Success 200 {object} dto.APIResponse{data=dto.PushTokenResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid push token"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /me/push-token [put]
func (c *UserController) RegisterPushToken(ctx *gin.Context) {
	var req dto.PushTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	resp, err := c.pushTokens.Register(ctx.Request.Context(), userID, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, resp)
}

// DeletePushToken removes the device push token of the current user
// @Summary Remove push token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /me/push-token [delete]
func (c *UserController) DeletePushToken(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	if err := c.pushTokens.Unregister(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, dto.SuccessResponse{Message: "Push token removed"})
}

// Route tells the client which area to open after sign-in
// @Summary Resolve landing route
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RouteResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/route [get]
func (c *UserController) Route(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	ok(ctx, dto.RouteResponse{Route: c.routing.ResolveRoute(ctx.Request.Context(), userID)})
}
