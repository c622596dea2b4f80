package dto

import (
	"time"

	"github.com/yigit/academy/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@academy.app"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RegisterRequest represents a new account. New accounts start as guests.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@academy.app"`
	Password string `json:"password" binding:"required,min=8" example:"secret123"`
	Name     string `json:"name" binding:"required,max=120" example:"Jane Doe"`
	Phone    string `json:"phone" binding:"omitempty,max=32" example:"+15550100"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"86400"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Email     string    `json:"email" example:"student@academy.app"`
	Name      string    `json:"name" example:"Jane Doe"`
	Role      string    `json:"role" example:"student"`
	Phone     string    `json:"phone,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps a user row to its public shape
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
	if u.AvatarURL != nil {
		resp.AvatarURL = *u.AvatarURL
	}
	return resp
}

// RouteResponse tells the client which area to open
type RouteResponse struct {
	Route string `json:"route" example:"student" enums:"admin,student,guest,profile"`
}

// PushTokenRequest registers a device token for the current user
type PushTokenRequest struct {
	Token string `json:"token" binding:"required" example:"ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]"`
}

// PushTokenResponse reports whether the token was kept
type PushTokenResponse struct {
	Registered bool   `json:"registered" example:"true"`
	Reason     string `json:"reason,omitempty" example:"role does not receive student notifications"`
}
