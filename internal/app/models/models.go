package models

// Role defines the user role stored on the users table.
// An empty role means the user never picked one.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleAdmin      Role = "admin"
	RoleReqTeacher Role = "req-teacher"
	RoleUnset      Role = ""
)

// IsValid reports whether r is one of the known roles (unset included)
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleStudent, RoleTeacher, RoleAdmin, RoleReqTeacher, RoleUnset:
		return true
	}
	return false
}

// IsStaff reports whether r may administer courses
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// ReceivesStudentNotifications is the single rule deciding who may hold a push token
// and who is targeted by course fan-out. A missing role counts as student.
func (r Role) ReceivesStudentNotifications() bool {
	return r == RoleStudent || r == RoleUnset
}
