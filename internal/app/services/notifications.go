package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/pkg/push"
)

// navigationCourse is the client screen notifications open
const navigationCourse = "course"

// classRecipients returns the push tokens of students enrolled in courseID with a
// success status. Users without a role count as students.
func classRecipients(users []*models.User, courseID int64) []string {
	tokens := make([]string, 0)
	seen := make(map[string]struct{})
	for _, u := range users {
		e, ok := u.EnrolledCourses.Find(courseID)
		if !ok || e.Status != models.EnrollmentSuccess {
			continue
		}
		if !u.Role.ReceivesStudentNotifications() || !u.HasPushToken() {
			continue
		}
		token := *u.PushToken
		if !push.IsValidPushToken(token) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

func courseTitle(course *models.Course) string {
	if course.Codename != "" {
		return course.Codename
	}
	return course.FullName
}

// classMessage builds the outbox message announcing a class event
func classMessage(kind models.NotificationType, course *models.Course, class models.ScheduledClass, tokens []string, loc *time.Location) *models.OutboxMessage {
	when := class.ScheduledDateTime.In(loc).Format("Mon Jan 2, 15:04")
	name := courseTitle(course)

	var title, body string
	switch kind {
	case models.NotificationClassScheduled:
		title = fmt.Sprintf("New class scheduled in %s", name)
		body = fmt.Sprintf("%s on %s", class.Topic, when)
	case models.NotificationClassReminder:
		title = fmt.Sprintf("%s starts soon", name)
		body = fmt.Sprintf("%s begins at %s", class.Topic, when)
	case models.NotificationClassStarted:
		title = fmt.Sprintf("%s is live", name)
		body = fmt.Sprintf("%s has started. Join now.", class.Topic)
	case models.NotificationClassEnded:
		title = fmt.Sprintf("%s class ended", name)
		body = fmt.Sprintf("%s has ended.", class.Topic)
	case models.NotificationClassCancelled:
		title = fmt.Sprintf("%s class cancelled", name)
		body = fmt.Sprintf("%s on %s was cancelled.", class.Topic, when)
	}

	return &models.OutboxMessage{
		Kind:     kind,
		CourseID: course.ID,
		ClassID:  class.ID,
		Tokens:   tokens,
		Title:    title,
		Body:     body,
		Data: map[string]string{
			push.DataNavigationTarget: navigationCourse,
			push.DataCourseID:         strconv.FormatInt(course.ID, 10),
			push.DataCourseName:       course.FullName,
			push.DataType:             string(kind),
			"classId":                 class.ID,
		},
	}
}
