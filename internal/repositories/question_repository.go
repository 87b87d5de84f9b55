package repositories

import (
	"context"

	"github.com/SAP-F-2025/practice-service/internal/models"
)

// QuestionRepository interface for question-specific operations
type QuestionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	// GetByID returns (nil, nil) when no question has the given id.
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	// Update writes every column of question. Returns ErrNotFound for a missing id.
	Update(ctx context.Context, question *models.Question) error
	// Delete reports whether a row was removed. Returns ErrReferenced while
	// submissions point at the question.
	Delete(ctx context.Context, id uint) (bool, error)

	// Query operations, ordered by id unless random
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, error)
	ListByTopic(ctx context.Context, topic string, limit int) ([]*models.Question, error)
	GetRandom(ctx context.Context, filters RandomQuestionFilters) ([]*models.Question, error)
	Count(ctx context.Context) (int64, error)
}
