package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
)

// Reaction is a user's like state on a comment
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func reactionOf(isLike bool) Reaction {
	if isLike {
		return ReactionLike
	}
	return ReactionDislike
}

// CommentRepository handles video comment threads and comment likes
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) q(ctx context.Context) db.Querier {
	return db.QuerierFrom(ctx, r.db)
}

// GetComments returns the thread of a video, empty when none was saved yet
func (r *CommentRepository) GetComments(ctx context.Context, videoID string, courseID int64) ([]models.Comment, error) {
	return r.getComments(ctx, videoID, courseID, false)
}

// GetCommentsForUpdate is GetComments with the thread row locked
func (r *CommentRepository) GetCommentsForUpdate(ctx context.Context, videoID string, courseID int64) ([]models.Comment, error) {
	return r.getComments(ctx, videoID, courseID, true)
}

func (r *CommentRepository) getComments(ctx context.Context, videoID string, courseID int64, forUpdate bool) ([]models.Comment, error) {
	query := psql.Select("comments").From("video_comments").
		Where(squirrel.Eq{"video_id": videoID, "course_id": courseID})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var raw []byte
	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if isNoRows(err) {
			return []models.Comment{}, nil
		}
		return nil, fmt.Errorf("error retrieving comments: %w", err)
	}

	comments := []models.Comment{}
	if err := decodeJSON(raw, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// SaveComments upserts the whole thread of a video
func (r *CommentRepository) SaveComments(ctx context.Context, videoID string, courseID int64, comments []models.Comment) error {
	if comments == nil {
		comments = []models.Comment{}
	}
	value, err := jsonbValue(comments)
	if err != nil {
		return err
	}

	sql, args, err := psql.Insert("video_comments").
		Columns("video_id", "course_id", "comments").
		Values(videoID, courseID, value).
		Suffix("ON CONFLICT (video_id, course_id) DO UPDATE SET comments = EXCLUDED.comments, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error saving comments: %w", err)
	}
	return nil
}

// ToggleCommentLike applies a like or dislike. Repeating the current reaction removes it,
// the opposite reaction replaces it. Run it inside a transaction.
func (r *CommentRepository) ToggleCommentLike(ctx context.Context, commentID string, userID int64, isLike bool) (Reaction, error) {
	q := r.q(ctx)

	var current bool
	err := q.QueryRow(ctx,
		`SELECT is_like FROM comment_likes WHERE comment_id = $1 AND user_id = $2 FOR UPDATE`,
		commentID, userID,
	).Scan(&current)

	switch {
	case isNoRows(err):
		_, err = q.Exec(ctx, `
			INSERT INTO comment_likes (comment_id, user_id, is_like) VALUES ($1, $2, $3)
			ON CONFLICT (comment_id, user_id) DO UPDATE SET is_like = EXCLUDED.is_like`,
			commentID, userID, isLike,
		)
		if err != nil {
			return ReactionNone, fmt.Errorf("error adding reaction: %w", err)
		}
		return reactionOf(isLike), nil
	case err != nil:
		return ReactionNone, fmt.Errorf("error reading reaction: %w", err)
	case current == isLike:
		if _, err := q.Exec(ctx, `DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`, commentID, userID); err != nil {
			return ReactionNone, fmt.Errorf("error removing reaction: %w", err)
		}
		return ReactionNone, nil
	default:
		if _, err := q.Exec(ctx, `UPDATE comment_likes SET is_like = $3 WHERE comment_id = $1 AND user_id = $2`, commentID, userID, isLike); err != nil {
			return ReactionNone, fmt.Errorf("error switching reaction: %w", err)
		}
		return reactionOf(isLike), nil
	}
}

// GetCommentLikeCounts returns like and dislike totals keyed by comment ID
func (r *CommentRepository) GetCommentLikeCounts(ctx context.Context, commentIDs []string) (map[string]models.LikeCount, error) {
	counts := make(map[string]models.LikeCount, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	sql, args, err := psql.Select(
		"comment_id",
		"COUNT(*) FILTER (WHERE is_like)",
		"COUNT(*) FILTER (WHERE NOT is_like)",
	).From("comment_likes").
		Where(squirrel.Eq{"comment_id": commentIDs}).
		GroupBy("comment_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.LikeCount
		if err := rows.Scan(&c.CommentID, &c.Likes, &c.Dislikes); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[c.CommentID] = c
	}
	return counts, rows.Err()
}

// GetUserReactions returns the user's reaction keyed by comment ID, omitting comments without one
func (r *CommentRepository) GetUserReactions(ctx context.Context, userID int64, commentIDs []string) (map[string]Reaction, error) {
	reactions := make(map[string]Reaction)
	if len(commentIDs) == 0 {
		return reactions, nil
	}

	sql, args, err := psql.Select("comment_id", "is_like").From("comment_likes").
		Where(squirrel.Eq{"user_id": userID, "comment_id": commentIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error reading reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			isLike bool
		)
		if err := rows.Scan(&id, &isLike); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		reactions[id] = reactionOf(isLike)
	}
	return reactions, rows.Err()
}

// DeleteLikes removes every reaction on the given comments
func (r *CommentRepository) DeleteLikes(ctx context.Context, commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}
	sql, args, err := psql.Delete("comment_likes").Where(squirrel.Eq{"comment_id": commentIDs}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting likes: %w", err)
	}
	return nil
}

// DeleteThread removes the comment thread of one video and its likes
func (r *CommentRepository) DeleteThread(ctx context.Context, videoID string, courseID int64) error {
	_, err := r.q(ctx).Exec(ctx, `
		DELETE FROM comment_likes
		WHERE comment_id IN (
			SELECT c->>'id' FROM video_comments vc, jsonb_array_elements(vc.comments) c
			WHERE vc.video_id = $1 AND vc.course_id = $2
		)`, videoID, courseID)
	if err != nil {
		return fmt.Errorf("error deleting video likes: %w", err)
	}
	if _, err := r.q(ctx).Exec(ctx, `DELETE FROM video_comments WHERE video_id = $1 AND course_id = $2`, videoID, courseID); err != nil {
		return fmt.Errorf("error deleting video comments: %w", err)
	}
	return nil
}

// DeleteThreadsForCourse removes all comment threads of a course and their likes
func (r *CommentRepository) DeleteThreadsForCourse(ctx context.Context, courseID int64) error {
	_, err := r.q(ctx).Exec(ctx, `
		DELETE FROM comment_likes
		WHERE comment_id IN (
			SELECT c->>'id' FROM video_comments vc, jsonb_array_elements(vc.comments) c
			WHERE vc.course_id = $1
		)`, courseID)
	if err != nil {
		return fmt.Errorf("error deleting course likes: %w", err)
	}
	if _, err := r.q(ctx).Exec(ctx, `DELETE FROM video_comments WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error deleting course comments: %w", err)
	}
	return nil
}
