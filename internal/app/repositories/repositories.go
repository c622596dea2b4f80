package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	CourseRepository  *CourseRepository
	CommentRepository *CommentRepository
	OutboxRepository  *OutboxRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		CourseRepository:  NewCourseRepository(db),
		CommentRepository: NewCommentRepository(db),
		OutboxRepository:  NewOutboxRepository(db),
	}
}

// psql builds postgres statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// jsonbValue encodes v for a JSONB column
func jsonbValue(v interface{}) (squirrel.Sqlizer, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding json column: %w", err)
	}
	return squirrel.Expr("?::jsonb", string(b)), nil
}

// decodeJSON decodes a JSONB column, treating NULL as the zero value
func decodeJSON(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error decoding json column: %w", err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
