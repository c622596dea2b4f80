package migrations

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteLegacyEnrollments(t *testing.T) {
	raw := map[int64][]byte{
		1: []byte(`["12", "13"]`),
		2: []byte(`[{"course_id": 12, "status": "pending"}]`),
		3: []byte(`["12", {"course_id": 14, "status": "pending"}]`),
	}

	rows, err := RewriteLegacyEnrollments(raw)
	require.NoError(t, err)
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })

	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].UserID)
	assert.Equal(t, int64(3), rows[1].UserID)

	doc, err := json.Marshal(rows[1].Enrollments)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"course_id":12,"status":"success"},{"course_id":14,"status":"pending"}]`, string(doc))
}

func TestRewriteLegacyEnrollmentsRejectsGarbage(t *testing.T) {
	_, err := RewriteLegacyEnrollments(map[int64][]byte{9: []byte(`[true]`)})
	assert.Error(t, err)
}
