package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/email"
	"github.com/yigit/academy/internal/pkg/filestorage"
	"github.com/yigit/academy/internal/pkg/helpers"
)

// CourseService defines course, enrollment and schedule operations
type CourseService interface {
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, page, size int) ([]dto.CourseSummary, helpers.PaginationInfo, error)
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error

	ListEnrolledStudents(ctx context.Context, courseID int64) (*dto.EnrolledStudentsResponse, error)
	RequestEnrollment(ctx context.Context, userID, courseID int64) (*dto.EnrollmentResponse, error)
	ApproveEnrollment(ctx context.Context, courseID, userID int64) (*dto.EnrolledStudentsResponse, error)

	GetSchedule(ctx context.Context, courseID int64) (models.Schedule, error)
	UpdateSchedule(ctx context.Context, courseID int64, slots []models.ScheduleSlot) (models.Schedule, error)

	MarkCompleted(ctx context.Context, courseID int64, req *dto.MarkCompletedRequest) (*models.CourseEnd, error)
	CompleteDueCourses(ctx context.Context) (int, error)

	CanFollowCourse(ctx context.Context, userID, courseID int64) (bool, error)
}

type courseServiceImpl struct {
	tx       db.Transactor
	courses  CourseStore
	users    UserStore
	comments CommentStore
	outbox   OutboxStore
	storage  filestorage.FileStorage
	mailer   email.EmailService
	now      func() time.Time
	logger   zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	tx db.Transactor,
	courses CourseStore,
	users UserStore,
	comments CommentStore,
	outbox OutboxStore,
	storage filestorage.FileStorage,
	mailer email.EmailService,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		tx:       tx,
		courses:  courses,
		users:    users,
		comments: comments,
		outbox:   outbox,
		storage:  storage,
		mailer:   mailer,
		now:      time.Now,
		logger:   logger.With().Str("service", "course").Logger(),
	}
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// ListCourses returns a page of course summaries
func (s *courseServiceImpl) ListCourses(ctx context.Context, page, size int) ([]dto.CourseSummary, helpers.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	courses, total, err := s.courses.List(ctx, int(offset), limit)
	if err != nil {
		return nil, helpers.PaginationInfo{}, err
	}

	summaries := make([]dto.CourseSummary, 0, len(courses))
	for _, c := range courses {
		summaries = append(summaries, dto.NewCourseSummary(c))
	}
	return summaries, helpers.NewPaginationInfo(total, page, size), nil
}

// CreateCourse inserts a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	schedule, err := validateSchedule(req.ClassSchedule)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Codename:         strings.TrimSpace(req.Codename),
		FullName:         strings.TrimSpace(req.FullName),
		CodenameColor:    req.CodenameColor,
		FullNameColor:    req.FullNameColor,
		Instructor:       strings.TrimSpace(req.Instructor),
		Description:      req.Description,
		ClassSchedule:    schedule,
		ScheduledClasses: []models.ScheduledClass{},
		RecordedClasses:  []models.Video{},
		EBooks:           []models.EBook{},
	}
	if course.Codename == "" || course.FullName == "" {
		return nil, fmt.Errorf("%w: codename and full name are required", apperrors.ErrValidationFailed)
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("courseID", course.ID).Str("codename", course.Codename).Msg("Course created")
	return course, nil
}

// DeleteCourse strips the course from every enrollment and deletes the row in one
// transaction. Stored eBook files are removed after the commit.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	var ebooks []models.EBook

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		ebooks = course.EBooks

		users, err := s.users.ListWithEnrollmentsForUpdate(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			remaining, removed := u.EnrolledCourses.Remove(id)
			if !removed {
				continue
			}
			if err := s.users.UpdateEnrollments(ctx, u.ID, remaining); err != nil {
				return err
			}
		}

		if err := s.comments.DeleteThreadsForCourse(ctx, id); err != nil {
			return err
		}
		if _, err := s.outbox.CancelPendingForCourse(ctx, id); err != nil {
			return err
		}
		return s.courses.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, book := range ebooks {
		if book.Path == "" {
			continue
		}
		if err := s.storage.Remove(book.Path); err != nil {
			s.logger.Warn().Err(err).Int64("courseID", id).Str("path", book.Path).Msg("Failed to remove eBook file")
		}
	}

	s.logger.Info().Int64("courseID", id).Int("ebooks", len(ebooks)).Msg("Course deleted")
	return nil
}

// ListEnrolledStudents splits the users enrolled in courseID by enrollment status
func (s *courseServiceImpl) ListEnrolledStudents(ctx context.Context, courseID int64) (*dto.EnrolledStudentsResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	users, err := s.users.ListWithEnrollments(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.EnrolledStudentsResponse{
		Success: []dto.EnrolledStudent{},
		Pending: []dto.EnrolledStudent{},
	}
	for _, u := range users {
		e, ok := u.EnrolledCourses.Find(courseID)
		if !ok {
			continue
		}
		student := dto.EnrolledStudent{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Role:   string(u.Role),
			Status: e.Status,
		}
		if e.Status == models.EnrollmentPending {
			resp.Pending = append(resp.Pending, student)
		} else {
			resp.Success = append(resp.Success, student)
		}
	}
	return resp, nil
}

// RequestEnrollment adds a pending enrollment unless the user already has one for the course
func (s *courseServiceImpl) RequestEnrollment(ctx context.Context, userID, courseID int64) (*dto.EnrollmentResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	resp := &dto.EnrollmentResponse{CourseID: courseID}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if existing, ok := user.EnrolledCourses.Find(courseID); ok {
			resp.Status = existing.Status
			return nil
		}

		enrollments, _ := user.EnrolledCourses.Request(courseID)
		if err := s.users.UpdateEnrollments(ctx, userID, enrollments); err != nil {
			return err
		}
		resp.Status = models.EnrollmentPending
		resp.Created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Created {
		s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("Enrollment requested")
	}
	return resp, nil
}

// ApproveEnrollment marks the user's enrollment in courseID as success and returns
// the refreshed student list. Approving an approved enrollment changes nothing.
func (s *courseServiceImpl) ApproveEnrollment(ctx context.Context, courseID, userID int64) (*dto.EnrolledStudentsResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var (
		student *models.User
		changed bool
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return fmt.Errorf("%w: user %d", apperrors.ErrEnrollmentNotFound, userID)
			}
			return err
		}
		student = user

		existing, ok := user.EnrolledCourses.Find(courseID)
		if !ok {
			return fmt.Errorf("%w: user %d has no enrollment for course %d", apperrors.ErrEnrollmentNotFound, userID, courseID)
		}
		if existing.Status == models.EnrollmentSuccess && !user.EnrolledCourses.HasLegacy() {
			return nil
		}

		enrollments, _ := user.EnrolledCourses.Approve(courseID)
		if err := s.users.UpdateEnrollments(ctx, userID, enrollments); err != nil {
			return err
		}
		changed = existing.Status != models.EnrollmentSuccess
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("Enrollment approved")
		if err := s.mailer.SendEnrollmentApproved(ctx, student.Email, student.Name, course.FullName); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to send enrollment approval email")
		}
	}

	return s.ListEnrolledStudents(ctx, courseID)
}

// GetSchedule returns the stored weekly schedule
func (s *courseServiceImpl) GetSchedule(ctx context.Context, courseID int64) (models.Schedule, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.ClassSchedule == nil {
		return models.Schedule{}, nil
	}
	return course.ClassSchedule, nil
}

// UpdateSchedule replaces the weekly schedule. One invalid slot rejects the whole save.
func (s *courseServiceImpl) UpdateSchedule(ctx context.Context, courseID int64, slots []models.ScheduleSlot) (models.Schedule, error) {
	schedule, err := validateSchedule(slots)
	if err != nil {
		return nil, err
	}
	if err := s.courses.UpdateSchedule(ctx, courseID, schedule); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("courseID", courseID).Int("slots", len(schedule)).Msg("Schedule updated")
	return schedule, nil
}

func validateSchedule(slots []models.ScheduleSlot) (models.Schedule, error) {
	schedule := make(models.Schedule, 0, len(slots))
	for i, slot := range slots {
		slot.Day = strings.TrimSpace(slot.Day)
		slot.StartTime = strings.TrimSpace(slot.StartTime)
		slot.EndTime = strings.TrimSpace(slot.EndTime)

		if !models.IsValidWeekday(slot.Day) {
			return nil, fmt.Errorf("%w: slot %d: %q", apperrors.ErrInvalidWeekday, i, slot.Day)
		}
		if !models.IsValidTime(slot.StartTime) {
			return nil, fmt.Errorf("%w: slot %d start %q", apperrors.ErrInvalidTimeFormat, i, slot.StartTime)
		}
		if !models.IsValidTime(slot.EndTime) {
			return nil, fmt.Errorf("%w: slot %d end %q", apperrors.ErrInvalidTimeFormat, i, slot.EndTime)
		}
		schedule = append(schedule, slot)
	}
	return schedule, nil
}

// MarkCompleted ends a course now or at a future time
func (s *courseServiceImpl) MarkCompleted(ctx context.Context, courseID int64, req *dto.MarkCompletedRequest) (*models.CourseEnd, error) {
	now := s.now().UTC()
	end := &models.CourseEnd{
		Type:     req.Mode,
		MarkedBy: "admin",
		MarkedAt: now,
	}

	switch req.Mode {
	case models.CourseEndNow:
		end.CompletedDate = now
		end.Status = models.CourseEndCompleted
	case models.CourseEndScheduled:
		if req.At == nil || !req.At.After(now) {
			return nil, fmt.Errorf("%w: a scheduled completion needs a future date", apperrors.ErrValidationFailed)
		}
		end.CompletedDate = req.At.UTC()
		end.Status = models.CourseEndPendingSchedule
	default:
		return nil, fmt.Errorf("%w: unknown completion mode %q", apperrors.ErrValidationFailed, req.Mode)
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}
		if course.IsCompleted() {
			return apperrors.ErrCourseAlreadyCompleted
		}
		return s.courses.UpdateCourseEnd(ctx, courseID, end)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", courseID).Str("status", string(end.Status)).Time("completedDate", end.CompletedDate).Msg("Course completion marked")
	return end, nil
}

// CompleteDueCourses flips scheduled completions whose date has passed
func (s *courseServiceImpl) CompleteDueCourses(ctx context.Context) (int, error) {
	ids, err := s.courses.CompleteDue(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.logger.Info().Int64("courseID", id).Msg("Scheduled course completion reached")
	}
	return len(ids), nil
}

// CanFollowCourse allows staff and students with an approved enrollment
func (s *courseServiceImpl) CanFollowCourse(ctx context.Context, userID, courseID int64) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return false, nil
		}
		return false, err
	}

	if user.Role.IsStaff() {
		return true, nil
	}
	e, ok := user.EnrolledCourses.Find(courseID)
	return ok && e.Status == models.EnrollmentSuccess, nil
}
