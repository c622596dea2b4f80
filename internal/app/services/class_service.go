package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/helpers"
	"github.com/yigit/academy/internal/pkg/idempotency"
	"github.com/yigit/academy/internal/pkg/validation"
	"github.com/yigit/academy/internal/pkg/websocket"
)

// ClassService defines the live class lifecycle of a course
type ClassService interface {
	ScheduleClass(ctx context.Context, courseID int64, actor string, req *dto.ScheduleClassRequest) (*dto.ScheduleClassResponse, error)
	ToggleClassStatus(ctx context.Context, courseID int64, classID string) (*dto.ToggleClassResponse, error)
	DeleteScheduledClass(ctx context.Context, courseID int64, classID string) error
	Recipients(ctx context.Context, courseID int64) ([]string, error)
}

// ClassServiceConfig holds the scheduling settings
type ClassServiceConfig struct {
	Location     *time.Location
	ReminderLead time.Duration
}

type classServiceImpl struct {
	tx        db.Transactor
	courses   CourseStore
	users     UserStore
	outbox    OutboxStore
	guard     idempotency.Guard
	publisher websocket.Publisher
	loc       *time.Location
	lead      time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewClassService creates a new ClassService
func NewClassService(
	tx db.Transactor,
	courses CourseStore,
	users UserStore,
	outbox OutboxStore,
	guard idempotency.Guard,
	publisher websocket.Publisher,
	cfg ClassServiceConfig,
	logger zerolog.Logger,
) ClassService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if guard == nil {
		guard = idempotency.NoopGuard{}
	}
	return &classServiceImpl{
		tx:        tx,
		courses:   courses,
		users:     users,
		outbox:    outbox,
		guard:     guard,
		publisher: publisherOrNop(publisher),
		loc:       cfg.Location,
		lead:      cfg.ReminderLead,
		now:       time.Now,
		logger:    logger.With().Str("service", "class").Logger(),
	}
}

// Recipients returns the push tokens a class notification for courseID goes to
func (s *classServiceImpl) Recipients(ctx context.Context, courseID int64) ([]string, error) {
	users, err := s.users.ListWithEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	return classRecipients(users, courseID), nil
}

// ScheduleClass adds a scheduled class and queues its notifications in the same transaction
func (s *classServiceImpl) ScheduleClass(ctx context.Context, courseID int64, actor string, req *dto.ScheduleClassRequest) (*dto.ScheduleClassResponse, error) {
	topic := strings.TrimSpace(req.Topic)
	link := strings.TrimSpace(req.MeetingLink)

	if !validation.NewStringValidation(topic).WithRequired(true).WithMaxLength(validation.TopicMaxLength).Validate() {
		return nil, fmt.Errorf("%w: topic is required and at most %d characters", apperrors.ErrValidationFailed, validation.TopicMaxLength)
	}
	if !validation.IsMeetingLink(link) {
		return nil, fmt.Errorf("%w: meeting link must be an http(s) URL", apperrors.ErrValidationFailed)
	}
	if !models.IsValidTime(strings.TrimSpace(req.Time)) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeFormat, req.Time)
	}
	start, err := helpers.CombineDateTime(strings.TrimSpace(req.Date), strings.TrimSpace(req.Time), s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}

	key := idempotency.Key("schedule-class", strconv.FormatInt(courseID, 10), topic, start.UTC().Format(time.RFC3339))
	claimed, err := s.guard.Claim(ctx, key)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperrors.ErrDuplicateSubmission
	}

	now := s.now()
	var (
		class      models.ScheduledClass
		recipients int
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}

		class = models.ScheduledClass{
			ID:                models.NewClassID(now, course.ScheduledClasses),
			Topic:             topic,
			MeetingLink:       link,
			ScheduledDateTime: start.UTC(),
			Status:            models.ClassScheduled,
			CreatedAt:         now.UTC(),
			CreatedBy:         actor,
		}
		classes := append(course.ScheduledClasses, class)
		if err := s.courses.UpdateScheduledClasses(ctx, courseID, classes); err != nil {
			return err
		}

		users, err := s.users.ListWithEnrollments(ctx)
		if err != nil {
			return err
		}
		tokens := classRecipients(users, courseID)
		recipients = len(tokens)

		if err := s.outbox.Enqueue(ctx, classMessage(models.NotificationClassScheduled, course, class, tokens, s.loc)); err != nil {
			return err
		}

		if s.lead > 0 && start.Sub(now) > s.lead {
			reminder := classMessage(models.NotificationClassReminder, course, class, tokens, s.loc)
			reminder.AvailableAt = start.Add(-s.lead)
			if err := s.outbox.Enqueue(ctx, reminder); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if relErr := s.guard.Release(ctx, key); relErr != nil {
			s.logger.Warn().Err(relErr).Str("key", key).Msg("Failed to release submission guard")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("courseID", courseID).
		Str("classID", class.ID).
		Time("start", class.ScheduledDateTime).
		Int("recipients", recipients).
		Msg("Class scheduled")

	s.publisher.Publish(websocket.Event{
		Type:     websocket.EventClassScheduled,
		CourseID: courseID,
		ClassID:  class.ID,
		Status:   string(class.Status),
	})

	return &dto.ScheduleClassResponse{Class: class, Recipients: recipients}, nil
}

// ToggleClassStatus advances a class from scheduled to live and from live to ended
func (s *classServiceImpl) ToggleClassStatus(ctx context.Context, courseID int64, classID string) (*dto.ToggleClassResponse, error) {
	var class models.ScheduledClass

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}

		idx := course.FindScheduledClass(classID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrScheduledClassNotFound, classID)
		}

		next, ok := course.ScheduledClasses[idx].Status.Next()
		if !ok {
			return fmt.Errorf("%w: class has already ended", apperrors.ErrInvalidClassTransition)
		}

		course.ScheduledClasses[idx].Status = next
		class = course.ScheduledClasses[idx]
		if err := s.courses.UpdateScheduledClasses(ctx, courseID, course.ScheduledClasses); err != nil {
			return err
		}

		// a class that has started no longer needs its reminder
		if _, err := s.outbox.CancelPendingForClass(ctx, courseID, classID, models.NotificationClassReminder); err != nil {
			return err
		}

		kind := models.NotificationClassStarted
		if next == models.ClassEnded {
			kind = models.NotificationClassEnded
		}

		users, err := s.users.ListWithEnrollments(ctx)
		if err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, classMessage(kind, course, class, classRecipients(users, courseID), s.loc))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", courseID).Str("classID", classID).Str("status", string(class.Status)).Msg("Class status changed")

	s.publisher.Publish(websocket.Event{
		Type:     websocket.EventClassStatus,
		CourseID: courseID,
		ClassID:  class.ID,
		Status:   string(class.Status),
	})

	resp := &dto.ToggleClassResponse{Class: class}
	if class.Status == models.ClassLive {
		resp.LaunchURL = class.MeetingLink
	}
	return resp, nil
}

// DeleteScheduledClass removes a class. Students are told about classes that had not ended yet.
func (s *classServiceImpl) DeleteScheduledClass(ctx context.Context, courseID int64, classID string) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}

		idx := course.FindScheduledClass(classID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrScheduledClassNotFound, classID)
		}
		removed := course.ScheduledClasses[idx]

		classes := make([]models.ScheduledClass, 0, len(course.ScheduledClasses)-1)
		classes = append(classes, course.ScheduledClasses[:idx]...)
		classes = append(classes, course.ScheduledClasses[idx+1:]...)
		if err := s.courses.UpdateScheduledClasses(ctx, courseID, classes); err != nil {
			return err
		}

		if _, err := s.outbox.CancelPendingForClass(ctx, courseID, classID); err != nil {
			return err
		}
		if removed.Status == models.ClassEnded {
			return nil
		}

		users, err := s.users.ListWithEnrollments(ctx)
		if err != nil {
			return err
		}
		return s.outbox.Enqueue(ctx, classMessage(models.NotificationClassCancelled, course, removed, classRecipients(users, courseID), s.loc))
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("courseID", courseID).Str("classID", classID).Msg("Scheduled class deleted")
	s.publisher.Publish(websocket.Event{
		Type:     websocket.EventClassDeleted,
		CourseID: courseID,
		ClassID:  classID,
	})
	return nil
}
