package repositories

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/academy/internal/app/models"
)

// fakeRows replays rows in userColumns order
type fakeRows struct {
	rows    [][]any
	pos     int
	scanErr error
}

func (f *fakeRows) Next() bool {
	f.pos++
	return f.pos <= len(f.rows)
}

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	for i, v := range f.rows[f.pos-1] {
		if v == nil {
			continue
		}
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func (f *fakeRows) Err() error { return nil }

func userRow(id int64, enrollments string) []any {
	role := "student"
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []any{
		id, "u@academy.test", "hash", "User", &role, "", "", nil, nil,
		[]byte(enrollments), now, now,
	}
}

func TestCollectUsers(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]any
		wantIDs []int64
	}{
		{
			name:    "all valid",
			rows:    [][]any{userRow(1, `[{"course_id":4,"status":"active"}]`), userRow(2, `[7]`)},
			wantIDs: []int64{1, 2},
		},
		{
			name:    "malformed enrollments are skipped",
			rows:    [][]any{userRow(1, `[{"course_id":4`), userRow(2, `[{"course_id":4,"status":"active"}]`)},
			wantIDs: []int64{2},
		},
		{
			name:    "null enrollments",
			rows:    [][]any{userRow(3, ``)},
			wantIDs: []int64{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := collectUsers(&fakeRows{rows: tt.rows})
			require.NoError(t, err)

			var ids []int64
			for _, u := range users {
				ids = append(ids, u.ID)
				assert.Equal(t, models.RoleStudent, u.Role)
				assert.NotNil(t, u.EnrolledCourses)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCollectUsersScanFailure(t *testing.T) {
	boom := errors.New("conn closed")
	_, err := collectUsers(&fakeRows{rows: [][]any{userRow(1, `[]`)}, scanErr: boom})
	assert.ErrorIs(t, err, boom)
}
