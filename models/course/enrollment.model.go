package course

import "time"

// Enrollment statuses. All transitions among the four are permitted.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusPaused    = "PAUSED"
	StatusDropped   = "DROPPED"
)

// Enrollment tracks a user's enrollment in a course with progress.
// A user may enroll in a given course at most once; the unique index
// also settles concurrent creates for the same pair.
type Enrollment struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	UserID               uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID             uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course"`
	EnrolledAt           time.Time `json:"enrolled_at" gorm:"autoCreateTime"`
	Status               string    `json:"status" gorm:"default:'ACTIVE'"`
	CompletionPercentage int       `json:"completion_percentage" gorm:"default:0"` // 0-100
	UpdatedAt            time.Time `json:"-"`
}

// ValidStatus reports whether s is one of the known enrollment statuses.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusCompleted || s == StatusPaused || s == StatusDropped
}
