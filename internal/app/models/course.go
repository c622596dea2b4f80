package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Course represents a course row with its embedded JSON documents
type Course struct {
	ID               int64            `json:"id" db:"id" example:"12"`
	Codename         string           `json:"codename" db:"codename" example:"CS101"`
	FullName         string           `json:"fullName" db:"full_name" example:"Introduction to Programming"`
	CodenameColor    string           `json:"codenameColor,omitempty" db:"codename_color" example:"#1E88E5"`
	FullNameColor    string           `json:"fullNameColor,omitempty" db:"full_name_color" example:"#212121"`
	Instructor       string           `json:"instructor" db:"instructor" example:"Dr. Smith"`
	Description      string           `json:"description,omitempty" db:"description"`
	ClassSchedule    Schedule         `json:"classSchedule" db:"class_schedule"`
	CourseEnd        *CourseEnd       `json:"courseEnd,omitempty" db:"course_end"`
	ScheduledClasses []ScheduledClass `json:"scheduledClasses" db:"scheduled_classes"`
	RecordedClasses  []Video          `json:"recordedClasses" db:"recorded_classes"`
	EBooks           []EBook          `json:"eBooks" db:"ebooks"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}

// FindScheduledClass returns the index of the class with id, or -1
func (c *Course) FindScheduledClass(id string) int {
	for i := range c.ScheduledClasses {
		if c.ScheduledClasses[i].ID == id {
			return i
		}
	}
	return -1
}

// IsCompleted reports whether the course has been closed
func (c *Course) IsCompleted() bool {
	return c.CourseEnd != nil && c.CourseEnd.Status == CourseEndCompleted
}

// Weekdays is the fixed set of values accepted for ScheduleSlot.Day
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsValidTime reports whether s is a 24-hour HH:MM string
func IsValidTime(s string) bool {
	return hhmmPattern.MatchString(s)
}

// IsValidWeekday reports whether s is one of Weekdays
func IsValidWeekday(s string) bool {
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

// ScheduleSlot is one weekly meeting of a course
type ScheduleSlot struct {
	Day       string `json:"day" binding:"required,weekday" example:"Monday"`
	StartTime string `json:"startTime" binding:"required,hhmm" example:"09:30"`
	EndTime   string `json:"endTime" binding:"required,hhmm" example:"11:00"`
}

// Schedule is the weekly timetable stored as JSON text in courses.class_schedule
type Schedule []ScheduleSlot

// ParseSchedule decodes the stored text. Empty or malformed text yields an empty schedule.
func ParseSchedule(text string) Schedule {
	text = strings.TrimSpace(text)
	if text == "" {
		return Schedule{}
	}
	var s Schedule
	if err := json.Unmarshal([]byte(text), &s); err != nil || s == nil {
		return Schedule{}
	}
	return s
}

// Encode serializes the schedule for the class_schedule column
func (s Schedule) Encode() (string, error) {
	if s == nil {
		s = Schedule{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CourseEndType selects immediate or deferred completion
type CourseEndType string

const (
	CourseEndNow       CourseEndType = "now"
	CourseEndScheduled CourseEndType = "scheduled"
)

// CourseEndStatus is the state of a completion mark
type CourseEndStatus string

const (
	CourseEndCompleted       CourseEndStatus = "completed"
	CourseEndPendingSchedule CourseEndStatus = "scheduled"
)

// CourseEnd is stored in courses.course_end
type CourseEnd struct {
	Type          CourseEndType   `json:"type" example:"now"`
	CompletedDate time.Time       `json:"completed_date"`
	MarkedBy      string          `json:"marked_by" example:"admin"`
	MarkedAt      time.Time       `json:"marked_at"`
	Status        CourseEndStatus `json:"status" example:"completed"`
}
