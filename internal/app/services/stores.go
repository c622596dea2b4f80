package services

import (
	"context"
	"time"

	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/repositories"
)

// UserStore is the user persistence the services need
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePushToken(ctx context.Context, userID int64, token *string) error
	UpdateEnrollments(ctx context.Context, userID int64, enrollments models.Enrollments) error
	ListWithEnrollments(ctx context.Context) ([]*models.User, error)
	ListWithEnrollmentsForUpdate(ctx context.Context) ([]*models.User, error)
}

// CourseStore is the course persistence the services need
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, offset, limit int) ([]*models.Course, int64, error)
	Delete(ctx context.Context, id int64) error
	UpdateSchedule(ctx context.Context, id int64, schedule models.Schedule) error
	UpdateCourseEnd(ctx context.Context, id int64, end *models.CourseEnd) error
	UpdateScheduledClasses(ctx context.Context, id int64, classes []models.ScheduledClass) error
	UpdateRecordedClasses(ctx context.Context, id int64, videos []models.Video) error
	UpdateEBooks(ctx context.Context, id int64, ebooks []models.EBook) error
	CompleteDue(ctx context.Context, now time.Time) ([]int64, error)
}

// CommentStore is the comment thread persistence the services need
type CommentStore interface {
	GetComments(ctx context.Context, videoID string, courseID int64) ([]models.Comment, error)
	GetCommentsForUpdate(ctx context.Context, videoID string, courseID int64) ([]models.Comment, error)
	SaveComments(ctx context.Context, videoID string, courseID int64, comments []models.Comment) error
	ToggleCommentLike(ctx context.Context, commentID string, userID int64, isLike bool) (repositories.Reaction, error)
	GetCommentLikeCounts(ctx context.Context, commentIDs []string) (map[string]models.LikeCount, error)
	GetUserReactions(ctx context.Context, userID int64, commentIDs []string) (map[string]repositories.Reaction, error)
	DeleteLikes(ctx context.Context, commentIDs []string) error
	DeleteThread(ctx context.Context, videoID string, courseID int64) error
	DeleteThreadsForCourse(ctx context.Context, courseID int64) error
}

// OutboxStore is where the services leave notifications for the outbox worker
type OutboxStore interface {
	Enqueue(ctx context.Context, msg *models.OutboxMessage) error
	CancelPendingForClass(ctx context.Context, courseID int64, classID string, kinds ...models.NotificationType) (int64, error)
	CancelPendingForCourse(ctx context.Context, courseID int64) (int64, error)
}

var (
	_ UserStore    = (*repositories.UserRepository)(nil)
	_ CourseStore  = (*repositories.CourseRepository)(nil)
	_ CommentStore = (*repositories.CommentRepository)(nil)
	_ OutboxStore  = (*repositories.OutboxRepository)(nil)
)
