package repositories

import (
	"context"

	"github.com/SAP-F-2025/practice-service/internal/models"
)

// SubmissionRepository stores graded answers. Submissions are append-only.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	ListByUser(ctx context.Context, userID string, filters SubmissionFilters) ([]*models.Submission, error)
	GetStatsByUser(ctx context.Context, userID string) (*SubmissionStats, error)
}
