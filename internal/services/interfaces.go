package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/practice-service/internal/auth"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
)

type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, userID string) (*QuestionResponse, error)
	GetByID(ctx context.Context, id uint) (*QuestionResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*QuestionResponse, error)
	Delete(ctx context.Context, id uint, userID string) (bool, error)

	List(ctx context.Context, filters repositories.QuestionFilters) ([]*QuestionResponse, error)
	ListByTopic(ctx context.Context, topic string, limit int) ([]*QuestionResponse, error)
	GetRandom(ctx context.Context, filters repositories.RandomQuestionFilters) ([]*QuestionResponse, error)
}

// GradingService grades and records answer submissions.
type GradingService interface {
	Submit(ctx context.Context, userID string, req *SubmitAnswerRequest) (*SubmissionResponse, error)
}

// StatsService reads a user's submission history.
type StatsService interface {
	GetStats(ctx context.Context, userID string) (*UserStats, error)
	ListSubmissions(ctx context.Context, userID string, filters repositories.SubmissionFilters) ([]*SubmissionResponse, error)
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	GetUser(ctx context.Context, userID string) (*UserResponse, error)
	Verifier() auth.TokenVerifier
}

type ImportExportService interface {
	ImportQuestions(ctx context.Context, reader io.Reader, filename string, userID string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error)

	ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error)
}

// ServiceManager exposes every service to the HTTP layer
type ServiceManager interface {
	Question() QuestionService
	Grading() GradingService
	Stats() StatsService
	Auth() AuthService
	ImportExport() ImportExportService
}
