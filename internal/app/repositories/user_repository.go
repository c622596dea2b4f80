package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/academy/internal/app/models"
	"github.com/yigit/academy/internal/db"
	"github.com/yigit/academy/internal/pkg/apperrors"
	"github.com/yigit/academy/internal/pkg/dberrors"
	"github.com/yigit/academy/internal/pkg/logger"
)

// errBadEnrollments marks a row whose enrolled_courses column cannot be decoded
var errBadEnrollments = errors.New("malformed enrolled_courses")

var userColumns = []string{
	"id", "email", "password", "name", "role", "phone", "bio", "avatar_url",
	"push_token", "enrolled_courses", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) q(ctx context.Context) db.Querier {
	return db.QuerierFrom(ctx, r.db)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user        models.User
		role        *string
		enrollments []byte
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &role, &user.Phone, &user.Bio,
		&user.AvatarURL, &user.PushToken, &enrollments, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if role != nil {
		user.Role = models.Role(*role)
	}
	if err := decodeJSON(enrollments, &user.EnrolledCourses); err != nil {
		return &user, fmt.Errorf("user %d: %w: %w", user.ID, errBadEnrollments, err)
	}
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = models.Enrollments{}
	}
	return &user, nil
}

func roleValue(role models.Role) interface{} {
	if role == models.RoleUnset {
		return nil
	}
	return string(role)
}

// Create inserts a user and fills in its ID and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	enrollments, err := jsonbValue(user.EnrolledCourses.Normalized())
	if err != nil {
		return err
	}

	sql, args, err := psql.Insert("users").
		Columns("email", "password", "name", "role", "phone", "enrolled_courses").
		Values(strings.ToLower(user.Email), user.Password, user.Name, roleValue(user.Role), user.Phone, enrollments).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.q(ctx).QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) (*models.User, error) {
	query := psql.Select(userColumns...).From("users").Where(where)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.q(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate retrieves a user and locks the row for the current transaction
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, true)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email), false)
}

// UpdatePushToken stores token, or clears it when token is nil
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID int64, token *string) error {
	sql, args, err := psql.Update("users").
		Set("push_token", token).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating push token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateEnrollments writes the enrollment array back in the tagged form
func (r *UserRepository) UpdateEnrollments(ctx context.Context, userID int64, enrollments models.Enrollments) error {
	value, err := jsonbValue(enrollments.Normalized())
	if err != nil {
		return err
	}

	sql, args, err := psql.Update("users").
		Set("enrolled_courses", value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating enrollments: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListWithEnrollments returns every user whose enrollment array is not empty
func (r *UserRepository) ListWithEnrollments(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, squirrel.Expr("enrolled_courses IS NOT NULL AND jsonb_array_length(enrolled_courses) > 0"), false)
}

// ListWithEnrollmentsForUpdate is ListWithEnrollments with the rows locked
func (r *UserRepository) ListWithEnrollmentsForUpdate(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, squirrel.Expr("enrolled_courses IS NOT NULL AND jsonb_array_length(enrolled_courses) > 0"), true)
}

func (r *UserRepository) list(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) ([]*models.User, error) {
	query := psql.Select(userColumns...).From("users").Where(where).OrderBy("id")
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

type userRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collectUsers scans every row, skipping users whose enrollments are corrupt
// so one bad row does not hide everyone else
func collectUsers(rows userRows) ([]*models.User, error) {
	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if errors.Is(err, errBadEnrollments) {
			logger.Warn().Err(err).Int64("userID", user.ID).Msg("Skipping user with malformed enrollments")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}
