package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64       `json:"id" db:"id" example:"1"`
	Email           string      `json:"email" db:"email" example:"student@academy.app"`
	Password        string      `json:"-" db:"password"`
	Name            string      `json:"name" db:"name" example:"Jane Doe"`
	Role            Role        `json:"role" db:"role" example:"student"`
	Phone           string      `json:"phone" db:"phone" example:"+15550100"`
	Bio             string      `json:"bio,omitempty" db:"bio"`
	AvatarURL       *string     `json:"avatarUrl,omitempty" db:"avatar_url"`
	PushToken       *string     `json:"-" db:"push_token"`
	EnrolledCourses Enrollments `json:"enrolledCourses" db:"enrolled_courses"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// ProfileComplete reports whether the onboarding fields are filled in
func (u *User) ProfileComplete() bool {
	return strings.TrimSpace(u.Name) != "" && strings.TrimSpace(u.Phone) != ""
}

// HasPushToken reports whether a non-empty token is stored
func (u *User) HasPushToken() bool {
	return u.PushToken != nil && *u.PushToken != ""
}
