package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentsDecodeBothFormats(t *testing.T) {
	raw := `["12", 14, {"course_id": "15", "status": "pending"}, {"course_id": 16, "status": "success"}]`

	var es Enrollments
	require.NoError(t, json.Unmarshal([]byte(raw), &es))

	require.Len(t, es, 4)
	assert.Equal(t, Enrollment{CourseID: 12, Status: EnrollmentSuccess, legacy: true}, es[0])
	assert.Equal(t, Enrollment{CourseID: 14, Status: EnrollmentSuccess, legacy: true}, es[1])
	assert.Equal(t, Enrollment{CourseID: 15, Status: EnrollmentPending}, es[2])
	assert.Equal(t, Enrollment{CourseID: 16, Status: EnrollmentSuccess}, es[3])
	assert.True(t, es.HasLegacy())
}

func TestEnrollmentsDecodeNullAndGarbage(t *testing.T) {
	var es Enrollments
	require.NoError(t, json.Unmarshal([]byte(`null`), &es))
	assert.Empty(t, es)

	assert.Error(t, json.Unmarshal([]byte(`["abc"]`), &es))
}

func TestEnrollmentsEncodeTaggedOnly(t *testing.T) {
	var es Enrollments
	require.NoError(t, json.Unmarshal([]byte(`["7"]`), &es))

	out, err := json.Marshal(es.Normalized())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"course_id": 7, "status": "success"}]`, string(out))
	assert.False(t, es.Normalized().HasLegacy())
}

func TestEnrollmentsApproveIsIdempotent(t *testing.T) {
	es := Enrollments{{CourseID: 3, Status: EnrollmentPending}}

	once, ok := es.Approve(3)
	require.True(t, ok)
	twice, ok := once.Approve(3)
	require.True(t, ok)

	assert.Equal(t, once, twice)
	got, _ := twice.Find(3)
	assert.Equal(t, EnrollmentSuccess, got.Status)

	_, ok = es.Approve(99)
	assert.False(t, ok)
}

func TestEnrollmentsRequest(t *testing.T) {
	es := Enrollments{{CourseID: 1, Status: EnrollmentSuccess}}

	same, added := es.Request(1)
	assert.False(t, added)
	assert.Equal(t, es, same)

	more, added := es.Request(2)
	assert.True(t, added)
	assert.Equal(t, Enrollments{
		{CourseID: 1, Status: EnrollmentSuccess},
		{CourseID: 2, Status: EnrollmentPending},
	}, more)
}

func TestEnrollmentsRemoveStripsLegacyAndTagged(t *testing.T) {
	var es Enrollments
	require.NoError(t, json.Unmarshal([]byte(`["5", {"course_id": 5, "status": "pending"}, {"course_id": 6, "status": "success"}]`), &es))

	out, removed := es.Remove(5)
	assert.True(t, removed)
	assert.Equal(t, Enrollments{{CourseID: 6, Status: EnrollmentSuccess}}, out)

	_, removed = out.Remove(5)
	assert.False(t, removed)
}

func TestNormalizedPrefersApproved(t *testing.T) {
	es := Enrollments{
		{CourseID: 9, Status: EnrollmentPending},
		{CourseID: 9, Status: EnrollmentSuccess},
	}
	assert.Equal(t, Enrollments{{CourseID: 9, Status: EnrollmentSuccess}}, es.Normalized())
}
