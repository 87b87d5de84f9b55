package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	ShortAnswer    QuestionType = "short_answer"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Question is a single practice item. Options are only stored for
// multiple-choice questions.
type Question struct {
	ID         uint                        `json:"id" gorm:"primaryKey"`
	Type       QuestionType                `json:"type" gorm:"not null;size:20"`
	Topic      string                      `json:"topic" gorm:"not null;size:100;index"`
	Stem       string                      `json:"stem" gorm:"type:text;not null"`
	Options    datatypes.JSONSlice[string] `json:"options"`
	Answer     string                      `json:"answer" gorm:"not null;size:500"`
	Difficulty DifficultyLevel             `json:"difficulty" gorm:"not null;size:20;default:medium"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// HasOptions reports whether the question carries at least one option.
func (q *Question) HasOptions() bool {
	return len(q.Options) > 0
}
