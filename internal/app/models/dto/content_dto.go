package dto

import (
	"time"

	"github.com/yigit/academy/internal/app/models"
)

// AddVideoRequest attaches a recorded class to a course
type AddVideoRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Week 1 recording"`
	URL         string `json:"url" binding:"required,url" example:"https://videos.example/week1.mp4"`
	Description string `json:"description" binding:"omitempty,max=4000"`
}

// AddCommentRequest posts a comment under a video
type AddCommentRequest struct {
	Text string `json:"text" binding:"required,max=2000" example:"Great lecture"`
}

// AddReplyRequest answers a comment
type AddReplyRequest struct {
	Text string `json:"text" binding:"required,max=2000" example:"Thanks!"`
}

// ToggleLikeRequest reacts to a comment. Sending the same reaction twice removes it.
type ToggleLikeRequest struct {
	IsLike *bool `json:"isLike" binding:"required" example:"true"`
}

// CommentResponse is a comment with aggregated reactions and the caller's own reaction
type CommentResponse struct {
	ID           string         `json:"id"`
	UserID       int64          `json:"userId"`
	UserName     string         `json:"userName"`
	Text         string         `json:"text"`
	Timestamp    time.Time      `json:"timestamp"`
	Likes        int            `json:"likes"`
	Dislikes     int            `json:"dislikes"`
	UserReaction string         `json:"userReaction" enums:"like,dislike,"`
	Replies      []models.Reply `json:"replies"`
}

// LikeStateResponse is the caller's reaction after a toggle
type LikeStateResponse struct {
	CommentID    string `json:"commentId"`
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
	UserReaction string `json:"userReaction"`
}
