package course

import "time"

// Course difficulty levels
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

// Course represents a learning course. The instructor reference is
// informational metadata; it does not grant write access to the course.
type Course struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:text"`
	InstructorID uint      `json:"instructor_id" gorm:"index;not null"`
	Duration     string    `json:"duration"` // free text, e.g. "6 weeks"
	Level        string    `json:"level" gorm:"default:'BEGINNER'"`
	IsFeatured   bool      `json:"is_featured" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidLevel reports whether level is one of the known difficulty levels.
func ValidLevel(level string) bool {
	return level == LevelBeginner || level == LevelIntermediate || level == LevelAdvanced
}
