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
	"github.com/yigit/academy/internal/app/repositories"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/validation"
)

// CommentService manages the comment threads under recorded videos
type CommentService interface {
	ListComments(ctx context.Context, courseID int64, videoID string, userID int64) ([]dto.CommentResponse, error)
	AddComment(ctx context.Context, courseID int64, videoID string, userID int64, text string) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, courseID int64, videoID, commentID string, userID int64) error
	AddReply(ctx context.Context, courseID int64, videoID, commentID string, userID int64, text string) (*models.Reply, error)
	ToggleLike(ctx context.Context, courseID int64, videoID, commentID string, userID int64, isLike bool) (*dto.LikeStateResponse, error)
}

type commentServiceImpl struct {
	tx       db.Transactor
	courses  CourseStore
	users    UserStore
	comments CommentStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(tx db.Transactor, courses CourseStore, users UserStore, comments CommentStore, logger zerolog.Logger) CommentService {
	return &commentServiceImpl{
		tx:       tx,
		courses:  courses,
		users:    users,
		comments: comments,
		now:      time.Now,
		logger:   logger.With().Str("service", "comment").Logger(),
	}
}

func (s *commentServiceImpl) requireVideo(ctx context.Context, courseID int64, videoID string) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !findVideo(course, videoID) {
		return fmt.Errorf("%w: %s", apperrors.ErrVideoNotFound, videoID)
	}
	return nil
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !validation.NewStringValidation(text).WithRequired(true).WithMaxLength(validation.CommentMaxLength).Validate() {
		return "", fmt.Errorf("%w: text is required and at most %d characters", apperrors.ErrValidationFailed, validation.CommentMaxLength)
	}
	return text, nil
}

func findComment(comments []models.Comment, id string) int {
	for i := range comments {
		if comments[i].ID == id {
			return i
		}
	}
	return -1
}

// ListComments returns the thread with live like counts and the caller's reactions
func (s *commentServiceImpl) ListComments(ctx context.Context, courseID int64, videoID string, userID int64) ([]dto.CommentResponse, error) {
	if err := s.requireVideo(ctx, courseID, videoID); err != nil {
		return nil, err
	}

	comments, err := s.comments.GetComments(ctx, videoID, courseID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	counts, err := s.comments.GetCommentLikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	reactions, err := s.comments.GetUserReactions(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c, counts[c.ID], reactions[c.ID]))
	}
	return out, nil
}

func toCommentResponse(c models.Comment, count models.LikeCount, reaction repositories.Reaction) dto.CommentResponse {
	replies := c.Replies
	if replies == nil {
		replies = []models.Reply{}
	}
	return dto.CommentResponse{
		ID:           c.ID,
		UserID:       c.UserID,
		UserName:     c.UserName,
		Text:         c.CommentText,
		Timestamp:    c.Timestamp,
		Likes:        count.Likes,
		Dislikes:     count.Dislikes,
		UserReaction: string(reaction),
		Replies:      replies,
	}
}

func (s *commentServiceImpl) AddComment(ctx context.Context, courseID int64, videoID string, userID int64, text string) (*dto.CommentResponse, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, courseID, videoID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:          uuid.NewString(),
		UserID:      userID,
		UserName:    user.Name,
		CommentText: text,
		Timestamp:   s.now().UTC(),
		Replies:     []models.Reply{},
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		comments, err := s.comments.GetCommentsForUpdate(ctx, videoID, courseID)
		if err != nil {
			return err
		}
		return s.comments.SaveComments(ctx, videoID, courseID, append(comments, comment))
	})
	if err != nil {
		return nil, err
	}

	resp := toCommentResponse(comment, models.LikeCount{}, repositories.ReactionNone)
	return &resp, nil
}

// DeleteComment removes a comment. Only its author or an admin may do so.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, courseID int64, videoID, commentID string, userID int64) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		comments, err := s.comments.GetCommentsForUpdate(ctx, videoID, courseID)
		if err != nil {
			return err
		}

		idx := findComment(comments, commentID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrCommentNotFound, commentID)
		}
		if comments[idx].UserID != userID {
			// admin rights come from the stored role, a token may be stale
			user, err := s.users.GetByID(ctx, userID)
			if err != nil {
				return err
			}
			if user.Role != models.RoleAdmin {
				return fmt.Errorf("%w: only the author can delete this comment", apperrors.ErrPermissionDenied)
			}
		}

		comments = append(comments[:idx], comments[idx+1:]...)
		if err := s.comments.SaveComments(ctx, videoID, courseID, comments); err != nil {
			return err
		}
		return s.comments.DeleteLikes(ctx, []string{commentID})
	})
}

func (s *commentServiceImpl) AddReply(ctx context.Context, courseID int64, videoID, commentID string, userID int64, text string) (*models.Reply, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply := models.Reply{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  user.Name,
		ReplyText: text,
		Timestamp: s.now().UTC(),
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		comments, err := s.comments.GetCommentsForUpdate(ctx, videoID, courseID)
		if err != nil {
			return err
		}
		idx := findComment(comments, commentID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", apperrors.ErrCommentNotFound, commentID)
		}
		comments[idx].Replies = append(comments[idx].Replies, reply)
		return s.comments.SaveComments(ctx, videoID, courseID, comments)
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ToggleLike applies a reaction and returns the comment's new totals
func (s *commentServiceImpl) ToggleLike(ctx context.Context, courseID int64, videoID, commentID string, userID int64, isLike bool) (*dto.LikeStateResponse, error) {
	comments, err := s.comments.GetComments(ctx, videoID, courseID)
	if err != nil {
		return nil, err
	}
	if findComment(comments, commentID) < 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCommentNotFound, commentID)
	}

	resp := &dto.LikeStateResponse{CommentID: commentID}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		reaction, err := s.comments.ToggleCommentLike(ctx, commentID, userID, isLike)
		if err != nil {
			return err
		}
		resp.UserReaction = string(reaction)

		counts, err := s.comments.GetCommentLikeCounts(ctx, []string{commentID})
		if err != nil {
			return err
		}
		resp.Likes = counts[commentID].Likes
		resp.Dislikes = counts[commentID].Dislikes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
