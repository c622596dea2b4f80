package dto

import (
	"time"

	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/helpers"
)

// CreateCourseRequest creates a course
type CreateCourseRequest struct {
	Codename      string                `json:"codename" binding:"required,max=32" example:"CS101"`
	FullName      string                `json:"fullName" binding:"required,max=200" example:"Introduction to Programming"`
	CodenameColor string                `json:"codenameColor" binding:"omitempty,max=16" example:"#1E88E5"`
	FullNameColor string                `json:"fullNameColor" binding:"omitempty,max=16" example:"#212121"`
	Instructor    string                `json:"instructor" binding:"required,max=120" example:"Dr. Smith"`
	Description   string                `json:"description" binding:"omitempty,max=4000"`
	ClassSchedule []models.ScheduleSlot `json:"classSchedule" binding:"omitempty,dive"`
}

// CourseSummary is a course in list responses
type CourseSummary struct {
	ID            int64             `json:"id" example:"12"`
	Codename      string            `json:"codename" example:"CS101"`
	FullName      string            `json:"fullName" example:"Introduction to Programming"`
	CodenameColor string            `json:"codenameColor,omitempty"`
	FullNameColor string            `json:"fullNameColor,omitempty"`
	Instructor    string            `json:"instructor" example:"Dr. Smith"`
	CourseEnd     *models.CourseEnd `json:"courseEnd,omitempty"`
}

// NewCourseSummary maps a course to its list shape
func NewCourseSummary(c *models.Course) CourseSummary {
	return CourseSummary{
		ID:            c.ID,
		Codename:      c.Codename,
		FullName:      c.FullName,
		CodenameColor: c.CodenameColor,
		FullNameColor: c.FullNameColor,
		Instructor:    c.Instructor,
		CourseEnd:     c.CourseEnd,
	}
}

// CourseListResponse is a page of courses
type CourseListResponse struct {
	Courses    []CourseSummary        `json:"courses"`
	Pagination helpers.PaginationInfo `json:"pagination"`
}

// EnrolledStudent is one row of a course roster
type EnrolledStudent struct {
	ID     int64                   `json:"id" example:"7"`
	Name   string                  `json:"name" example:"Jane Doe"`
	Email  string                  `json:"email" example:"student@academy.app"`
	Role   string                  `json:"role" example:"student"`
	Status models.EnrollmentStatus `json:"status" example:"pending"`
}

// EnrolledStudentsResponse buckets a roster by enrollment status
type EnrolledStudentsResponse struct {
	Success []EnrolledStudent `json:"success"`
	Pending []EnrolledStudent `json:"pending"`
}

// EnrollmentResponse reports the caller's enrollment after a request
type EnrollmentResponse struct {
	CourseID int64                   `json:"courseId" example:"12"`
	Status   models.EnrollmentStatus `json:"status" example:"pending"`
	Created  bool                    `json:"created" example:"true"`
}

// UpdateScheduleRequest replaces the weekly schedule
type UpdateScheduleRequest struct {
	Slots []models.ScheduleSlot `json:"slots" binding:"dive"`
}

// MarkCompletedRequest closes a course now or at a future time
type MarkCompletedRequest struct {
	Mode models.CourseEndType `json:"mode" binding:"required,oneof=now scheduled" example:"scheduled"`
	At   *time.Time           `json:"at,omitempty" example:"2025-06-30T18:00:00Z"`
}
