package services

import (
	"time"

	"github.com/SAP-F-2025/practice-service/internal/models"
)

// ===== QUESTION DTOS =====

type CreateQuestionRequest struct {
	Type       models.QuestionType    `json:"type" validate:"required,question_type"`
	Topic      string                 `json:"topic" validate:"required,max=100"`
	Stem       string                 `json:"stem" validate:"required"`
	Options    []string               `json:"options" validate:"omitempty,dive,required"`
	Answer     string                 `json:"answer" validate:"required,max=500"`
	Difficulty models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
}

// UpdateQuestionRequest carries a partial update. Nil fields are left as they are.
type UpdateQuestionRequest struct {
	Type       *models.QuestionType    `json:"type" validate:"omitempty,question_type"`
	Topic      *string                 `json:"topic" validate:"omitempty,min=1,max=100"`
	Stem       *string                 `json:"stem" validate:"omitempty,min=1"`
	Options    *[]string               `json:"options" validate:"omitempty,dive,required"`
	Answer     *string                 `json:"answer" validate:"omitempty,min=1,max=500"`
	Difficulty *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
}

type QuestionResponse struct {
	ID         uint                   `json:"id"`
	Type       models.QuestionType    `json:"type"`
	Topic      string                 `json:"topic"`
	Stem       string                 `json:"stem"`
	Options    []string               `json:"options"`
	Answer     string                 `json:"answer"`
	Difficulty models.DifficultyLevel `json:"difficulty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

type DeleteQuestionResponse struct {
	Deleted bool `json:"deleted"`
}

// ===== SUBMISSION DTOS =====

type SubmitAnswerRequest struct {
	QuestionID uint    `json:"question_id" validate:"required"`
	UserAnswer *string `json:"user_answer" validate:"required"`
	TimeSpent  *int    `json:"time_spent" validate:"omitempty,gte=0"`
}

type SubmissionResponse struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	UserAnswer string    `json:"user_answer"`
	IsCorrect  bool      `json:"is_correct"`
	TimeSpent  *int      `json:"time_spent"`
	CreatedAt  time.Time `json:"created_at"`
}

type UserStats struct {
	TotalQuestions int64   `json:"total_questions"`
	CorrectAnswers int64   `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
}

// ===== AUTH DTOS =====

type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" form:"full_name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
	IsActive bool            `json:"is_active"`
}

type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

// ===== IMPORT DTOS =====

type ImportResult struct {
	TotalRows     int                            `json:"total_rows"`
	ProcessedRows int                            `json:"processed_rows"`
	SuccessCount  int                            `json:"success_count"`
	ErrorCount    int                            `json:"error_count"`
	Errors        []models.ImportValidationError `json:"errors"`
	Questions     []*QuestionResponse            `json:"questions,omitempty"`
}
