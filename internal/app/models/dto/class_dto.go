package dto

import "github.com/yigit/academy/internal/app/models"

// ScheduleClassRequest plans a live class. Date and time are read in the academy timezone.
type ScheduleClassRequest struct {
	Topic       string `json:"topic" binding:"required,max=200" example:"Intro"`
	MeetingLink string `json:"meetingLink" binding:"required,max=2048" example:"https://meet.example/1"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02" example:"2025-01-10"`
	Time        string `json:"time" binding:"required,hhmm" example:"19:00"`
}

// ScheduleClassResponse returns the new class and how many devices will be notified
type ScheduleClassResponse struct {
	Class      models.ScheduledClass `json:"class"`
	Recipients int                   `json:"recipients" example:"14"`
}

// ToggleClassResponse returns the class after a status change.
// LaunchURL is set when the class went live.
type ToggleClassResponse struct {
	Class     models.ScheduledClass `json:"class"`
	LaunchURL string                `json:"launchUrl,omitempty" example:"https://meet.example/1"`
}
