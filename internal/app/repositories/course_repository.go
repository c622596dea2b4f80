package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
)

var courseColumns = []string{
	"id", "codename", "full_name", "codename_color", "full_name_color", "instructor", "description",
	"class_schedule", "course_end", "scheduled_classes", "recorded_classes", "ebooks",
	"created_at", "updated_at",
}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) q(ctx context.Context) db.Querier {
	return db.QuerierFrom(ctx, r.db)
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var (
		course                       models.Course
		schedule                     string
		courseEnd, classes, recorded []byte
		ebooks                       []byte
	)
	err := row.Scan(
		&course.ID, &course.Codename, &course.FullName, &course.CodenameColor, &course.FullNameColor,
		&course.Instructor, &course.Description, &schedule, &courseEnd, &classes, &recorded, &ebooks,
		&course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	course.ClassSchedule = models.ParseSchedule(schedule)
	if err := decodeJSON(courseEnd, &course.CourseEnd); err != nil {
		return nil, fmt.Errorf("course %d course_end: %w", course.ID, err)
	}
	if err := decodeJSON(classes, &course.ScheduledClasses); err != nil {
		return nil, fmt.Errorf("course %d scheduled_classes: %w", course.ID, err)
	}
	if err := decodeJSON(recorded, &course.RecordedClasses); err != nil {
		return nil, fmt.Errorf("course %d recorded_classes: %w", course.ID, err)
	}
	if err := decodeJSON(ebooks, &course.EBooks); err != nil {
		return nil, fmt.Errorf("course %d ebooks: %w", course.ID, err)
	}

	if course.ScheduledClasses == nil {
		course.ScheduledClasses = []models.ScheduledClass{}
	}
	if course.RecordedClasses == nil {
		course.RecordedClasses = []models.Video{}
	}
	if course.EBooks == nil {
		course.EBooks = []models.EBook{}
	}
	return &course, nil
}

// Create inserts a course and fills in its ID and timestamps
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	schedule, err := course.ClassSchedule.Encode()
	if err != nil {
		return fmt.Errorf("error encoding schedule: %w", err)
	}

	sql, args, err := psql.Insert("courses").
		Columns("codename", "full_name", "codename_color", "full_name_color", "instructor", "description", "class_schedule").
		Values(course.Codename, course.FullName, course.CodenameColor, course.FullNameColor, course.Instructor, course.Description, schedule).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func (r *CourseRepository) getOne(ctx context.Context, id int64, forUpdate bool) (*models.Course, error) {
	query := psql.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	course, err := scanCourse(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, id, false)
}

// GetByIDForUpdate retrieves a course and locks the row for the current transaction
func (r *CourseRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, id, true)
}

// Exists reports whether a course with the given ID exists
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.q(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking course: %w", err)
	}
	return exists, nil
}

// List returns a page of courses ordered by codename, with the total count
func (r *CourseRepository) List(ctx context.Context, offset, limit int) ([]*models.Course, int64, error) {
	var total int64
	if err := r.q(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	sql, args, err := psql.Select(courseColumns...).From("courses").
		OrderBy("codename", "id").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// Delete removes a course row
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) updateColumn(ctx context.Context, id int64, column string, value interface{}) error {
	sql, args, err := psql.Update("courses").
		Set(column, value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating course %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) updateJSON(ctx context.Context, id int64, column string, v interface{}) error {
	value, err := jsonbValue(v)
	if err != nil {
		return err
	}
	return r.updateColumn(ctx, id, column, value)
}

// UpdateSchedule stores the serialized weekly schedule text
func (r *CourseRepository) UpdateSchedule(ctx context.Context, id int64, schedule models.Schedule) error {
	text, err := schedule.Encode()
	if err != nil {
		return fmt.Errorf("error encoding schedule: %w", err)
	}
	return r.updateColumn(ctx, id, "class_schedule", text)
}

// UpdateCourseEnd stores the completion marker
func (r *CourseRepository) UpdateCourseEnd(ctx context.Context, id int64, end *models.CourseEnd) error {
	if end == nil {
		return r.updateColumn(ctx, id, "course_end", nil)
	}
	return r.updateJSON(ctx, id, "course_end", end)
}

// UpdateScheduledClasses replaces the scheduled class array
func (r *CourseRepository) UpdateScheduledClasses(ctx context.Context, id int64, classes []models.ScheduledClass) error {
	if classes == nil {
		classes = []models.ScheduledClass{}
	}
	return r.updateJSON(ctx, id, "scheduled_classes", classes)
}

// UpdateRecordedClasses replaces the recorded video array
func (r *CourseRepository) UpdateRecordedClasses(ctx context.Context, id int64, videos []models.Video) error {
	if videos == nil {
		videos = []models.Video{}
	}
	return r.updateJSON(ctx, id, "recorded_classes", videos)
}

// UpdateEBooks replaces the eBook metadata array
func (r *CourseRepository) UpdateEBooks(ctx context.Context, id int64, ebooks []models.EBook) error {
	if ebooks == nil {
		ebooks = []models.EBook{}
	}
	return r.updateJSON(ctx, id, "ebooks", ebooks)
}

// CompleteDue flips every scheduled course end whose date has passed to completed.
// It returns the IDs of the courses it changed.
func (r *CourseRepository) CompleteDue(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.q(ctx).Query(ctx, `
		UPDATE courses
		SET course_end = jsonb_set(course_end, '{status}', to_jsonb($2::text)),
			updated_at = NOW()
		WHERE course_end->>'status' = $1
			AND (course_end->>'completed_date')::timestamptz <= $3
		RETURNING id`,
		string(models.CourseEndPendingSchedule), string(models.CourseEndCompleted), now,
	)
	if err != nil {
		return nil, fmt.Errorf("error completing due courses: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
