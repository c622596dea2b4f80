package models

import (
	"strconv"
	"time"
)

// ClassStatus is the lifecycle state of a scheduled class
type ClassStatus string

const (
	ClassScheduled ClassStatus = "scheduled"
	ClassLive      ClassStatus = "live"
	ClassEnded     ClassStatus = "ended"
)

// Next returns the state a toggle moves to. ok is false for ended classes.
func (s ClassStatus) Next() (ClassStatus, bool) {
	switch s {
	case ClassScheduled:
		return ClassLive, true
	case ClassLive:
		return ClassEnded, true
	}
	return s, false
}

// ScheduledClass is an element of courses.scheduled_classes
type ScheduledClass struct {
	ID                string      `json:"id" example:"1736535600000"`
	Topic             string      `json:"topic" example:"Intro"`
	MeetingLink       string      `json:"meetingLink" example:"https://meet.example/1"`
	ScheduledDateTime time.Time   `json:"scheduledDateTime"`
	Status            ClassStatus `json:"status" example:"scheduled"`
	CreatedAt         time.Time   `json:"createdAt"`
	CreatedBy         string      `json:"createdBy" example:"admin@academy.app"`
}

// NewClassID derives a millisecond timestamp id, bumped until it is not in taken
func NewClassID(now time.Time, existing []ScheduledClass) string {
	taken := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		taken[c.ID] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}
