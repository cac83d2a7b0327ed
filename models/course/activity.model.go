package course

import "time"

// Activity types
const (
	ActivityLesson     = "LESSON"
	ActivityQuiz       = "QUIZ"
	ActivityAssignment = "ASSIGNMENT"
)

// Activity represents a learning activity within a module
type Activity struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ModuleID    uint      `json:"module_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Type        string    `json:"type" gorm:"default:'LESSON'"`
	Content     string    `json:"content" gorm:"type:text"` // lesson text, quiz questions, etc.
	Order       int       `json:"order" gorm:"column:order_index;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidActivityType reports whether t is one of the known activity types.
func ValidActivityType(t string) bool {
	return t == ActivityLesson || t == ActivityQuiz || t == ActivityAssignment
}
