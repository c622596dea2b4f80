package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

// VideoService manages the recorded classes of a course
type VideoService interface {
	ListVideos(ctx context.Context, courseID int64) ([]models.Video, error)
	AddVideo(ctx context.Context, courseID int64, req *dto.AddVideoRequest) (*models.Video, error)
	DeleteVideo(ctx context.Context, courseID int64, videoID string) error
}

type videoServiceImpl struct {
	tx       db.Transactor
	courses  CourseStore
	comments CommentStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewVideoService creates a new VideoService
func NewVideoService(tx db.Transactor, courses CourseStore, comments CommentStore, logger zerolog.Logger) VideoService {
	return &videoServiceImpl{
		tx:       tx,
		courses:  courses,
		comments: comments,
		now:      time.Now,
		logger:   logger.With().Str("service", "video").Logger(),
	}
}

func (s *videoServiceImpl) ListVideos(ctx context.Context, courseID int64) ([]models.Video, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return course.RecordedClasses, nil
}

func (s *videoServiceImpl) AddVideo(ctx context.Context, courseID int64, req *dto.AddVideoRequest) (*models.Video, error) {
	video := models.Video{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		URL:         strings.TrimSpace(req.URL),
		Description: strings.TrimSpace(req.Description),
		UploadedAt:  s.now().UTC(),
	}
	if video.Title == "" || video.URL == "" {
		return nil, fmt.Errorf("%w: title and url are required", apperrors.ErrValidationFailed)
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}
		return s.courses.UpdateRecordedClasses(ctx, courseID, append(course.RecordedClasses, video))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", courseID).Str("videoID", video.ID).Msg("Video added")
	return &video, nil
}

// DeleteVideo removes the video and its comment thread
func (s *videoServiceImpl) DeleteVideo(ctx context.Context, courseID int64, videoID string) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return err
		}

		videos := make([]models.Video, 0, len(course.RecordedClasses))
		found := false
		for _, v := range course.RecordedClasses {
			if v.ID == videoID {
				found = true
				continue
			}
			videos = append(videos, v)
		}
		if !found {
			return fmt.Errorf("%w: %s", apperrors.ErrVideoNotFound, videoID)
		}

		if err := s.courses.UpdateRecordedClasses(ctx, courseID, videos); err != nil {
			return err
		}
		return s.comments.DeleteThread(ctx, videoID, courseID)
	})
}

// findVideo reports whether the course has a recorded class with videoID
func findVideo(course *models.Course, videoID string) bool {
	for _, v := range course.RecordedClasses {
		if v.ID == videoID {
			return true
		}
	}
	return false
}
