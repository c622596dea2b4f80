package models

import "time"

// Video is an element of courses.recorded_classes
type Video struct {
	ID          string    `json:"id" example:"5f0c..."`
	Title       string    `json:"title" example:"Week 1 recording"`
	URL         string    `json:"url" example:"https://videos.example/week1.mp4"`
	Description string    `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// EBook is an element of courses.ebooks
type EBook struct {
	ID         string    `json:"id"`
	Name       string    `json:"name" example:"handbook.pdf"`
	URL        string    `json:"url"`
	Path       string    `json:"path"`
	Size       int64     `json:"size" example:"1048576"`
	MimeType   string    `json:"mimeType" example:"application/pdf"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy"`
}

// Reply answers a comment
type Reply struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	ReplyText string    `json:"reply_text"`
	Timestamp time.Time `json:"timestamp"`
}

// Comment is an element of video_comments.comments.
// Likes and Dislikes are filled from comment_likes when read.
type Comment struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	CommentText string    `json:"comment_text"`
	Timestamp   time.Time `json:"timestamp"`
	Likes       int       `json:"likes"`
	Dislikes    int       `json:"dislikes"`
	Replies     []Reply   `json:"replies"`
}

// LikeCount aggregates reactions for one comment
type LikeCount struct {
	CommentID string
	Likes     int
	Dislikes  int
}
