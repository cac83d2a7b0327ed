package models

import "time"

// Role-defining group names. Role itself is never stored; it is derived
// from the staff flag and group membership at read time.
const (
	GroupAdmins      = "ADMINS"
	GroupInstructors = "INSTRUCTORS"
	GroupStudents    = "STUDENTS"
)

const (
	RoleAdmin      = "ADMIN"
	RoleInstructor = "INSTRUCTOR"
	RoleStudent    = "STUDENT"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"unique;not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	FullName  string    `json:"full_name" gorm:"default:''"`
	Password  string    `json:"-" gorm:"not null"`
	IsStaff   bool      `json:"is_staff" gorm:"default:false"`
	Group     string    `json:"-" gorm:"default:''"` // ADMINS, INSTRUCTORS, STUDENTS
	CreatedAt time.Time `json:"date_joined"`
	UpdatedAt time.Time `json:"-"`
}

// Role derives the user's role. Staff wins over group membership.
func (u *User) Role() string {
	switch {
	case u.IsStaff:
		return RoleAdmin
	case u.Group == GroupInstructors:
		return RoleInstructor
	default:
		return RoleStudent
	}
}

// GroupForRole maps a requested role to its backing group name.
func GroupForRole(role string) string {
	switch role {
	case RoleAdmin:
		return GroupAdmins
	case RoleInstructor:
		return GroupInstructors
	case RoleStudent:
		return GroupStudents
	}
	return ""
}
