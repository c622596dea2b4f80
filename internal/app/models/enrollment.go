package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EnrollmentStatus is the approval state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentSuccess EnrollmentStatus = "success"
	EnrollmentPending EnrollmentStatus = "pending"
)

// Enrollment is one element of users.enrolled_courses
type Enrollment struct {
	CourseID int64            `json:"course_id"`
	Status   EnrollmentStatus `json:"status"`

	// legacy is set when the element was decoded from a bare course id
	legacy bool
}

// UnmarshalJSON accepts the tagged object and the legacy bare id ("12" or 12).
// Legacy ids are approved enrollments.
func (e *Enrollment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty enrollment")
	}

	if data[0] != '{' {
		id, err := parseCourseID(data)
		if err != nil {
			return err
		}
		*e = Enrollment{CourseID: id, Status: EnrollmentSuccess, legacy: true}
		return nil
	}

	var raw struct {
		CourseID json.RawMessage  `json:"course_id"`
		Status   EnrollmentStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := parseCourseID(raw.CourseID)
	if err != nil {
		return err
	}
	status := raw.Status
	if status != EnrollmentPending {
		status = EnrollmentSuccess
	}
	*e = Enrollment{CourseID: id, Status: status}
	return nil
}

func parseCourseID(data []byte) (int64, error) {
	text := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid course id %q", text)
	}
	return id, nil
}

// Enrollments is the users.enrolled_courses JSONB array
type Enrollments []Enrollment

// UnmarshalJSON treats null as an empty list
func (es *Enrollments) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*es = Enrollments{}
		return nil
	}
	var items []Enrollment
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*es = items
	return nil
}

// Find returns the enrollment for courseID
func (es Enrollments) Find(courseID int64) (Enrollment, bool) {
	for _, e := range es {
		if e.CourseID == courseID {
			return e, true
		}
	}
	return Enrollment{}, false
}

// HasLegacy reports whether any element was stored in the bare-id format
func (es Enrollments) HasLegacy() bool {
	for _, e := range es {
		if e.legacy {
			return true
		}
	}
	return false
}

// Normalized returns the list in the tagged form with duplicate courses collapsed.
// An approved entry wins over a pending one for the same course.
func (es Enrollments) Normalized() Enrollments {
	out := make(Enrollments, 0, len(es))
	index := make(map[int64]int, len(es))
	for _, e := range es {
		e.legacy = false
		if i, ok := index[e.CourseID]; ok {
			if e.Status == EnrollmentSuccess {
				out[i].Status = EnrollmentSuccess
			}
			continue
		}
		index[e.CourseID] = len(out)
		out = append(out, e)
	}
	return out
}

// Request adds a pending enrollment unless the course is already present
func (es Enrollments) Request(courseID int64) (Enrollments, bool) {
	if _, ok := es.Find(courseID); ok {
		return es, false
	}
	return append(es.Normalized(), Enrollment{CourseID: courseID, Status: EnrollmentPending}), true
}

// Approve marks the course enrollment as success. ok is false when no entry exists.
func (es Enrollments) Approve(courseID int64) (Enrollments, bool) {
	out := es.Normalized()
	for i := range out {
		if out[i].CourseID == courseID {
			out[i].Status = EnrollmentSuccess
			return out, true
		}
	}
	return out, false
}

// Remove strips every entry for courseID. removed is false when none matched.
func (es Enrollments) Remove(courseID int64) (Enrollments, bool) {
	out := make(Enrollments, 0, len(es))
	removed := false
	for _, e := range es.Normalized() {
		if e.CourseID == courseID {
			removed = true
			continue
		}
		out = append(out, e)
	}
	return out, removed
}
