package models

import "time"

// Submission is an append-only record of one graded answer attempt.
type Submission struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"not null;size:255;index"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	UserAnswer string `json:"user_answer" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
	TimeSpent  *int   `json:"time_spent"` // seconds

	CreatedAt time.Time `json:"created_at"`

	// Relations. Submissions are history, so referenced rows cannot be deleted.
	User     *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Question *Question `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:RESTRICT"`
}

func (Submission) TableName() string {
	return "submissions"
}
