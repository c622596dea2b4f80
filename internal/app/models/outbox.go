package models

import "time"

// NotificationType tags the payload of a push message
type NotificationType string

const (
	NotificationClassScheduled NotificationType = "class_scheduled"
	NotificationClassReminder  NotificationType = "class_reminder"
	NotificationClassStarted   NotificationType = "class_started"
	NotificationClassEnded     NotificationType = "class_ended"
	NotificationClassCancelled NotificationType = "class_cancelled"
)

// OutboxStatus is the delivery state of an outbox row
type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxSent      OutboxStatus = "sent"
	OutboxFailed    OutboxStatus = "failed"
	OutboxCancelled OutboxStatus = "cancelled"
)

// OutboxMessage is a durable push notification waiting for delivery
type OutboxMessage struct {
	ID          int64             `db:"id"`
	Kind        NotificationType  `db:"kind"`
	CourseID    int64             `db:"course_id"`
	ClassID     string            `db:"class_id"`
	Tokens      []string          `db:"tokens"`
	Title       string            `db:"title"`
	Body        string            `db:"body"`
	Data        map[string]string `db:"data"`
	Attempts    int               `db:"attempts"`
	AvailableAt time.Time         `db:"available_at"`
	LastError   *string           `db:"last_error"`
	Status      OutboxStatus      `db:"status"`
	CreatedAt   time.Time         `db:"created_at"`
	SentAt      *time.Time        `db:"sent_at"`
}
