package dberrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"any constraint", pgErr, "", true},
		{"matching constraint", fmt.Errorf("insert user: %w", pgErr), "users_email_key", true},
		{"other constraint", pgErr, "courses_pkey", false},
		{"other code", &pgconn.PgError{Code: "23503"}, "", false},
		{"plain error", errors.New("boom"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}

func TestIsUnavailable(t *testing.T) {
	// nothing listens on port 1
	_, connErr := pgconn.Connect(context.Background(), "postgres://academy@127.0.0.1:1/academy?connect_timeout=2")
	require.Error(t, connErr)

	assert.True(t, IsUnavailable(fmt.Errorf("get course: %w", connErr)))
	assert.False(t, IsUnavailable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUnavailable(errors.New("boom")))
}
