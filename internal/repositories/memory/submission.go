package memory

import (
	"context"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
)

type SubmissionRepository struct {
	store *store
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	submission.ID = r.store.nextSubmissionID
	r.store.nextSubmissionID++
	submission.CreatedAt = time.Now()
	r.store.submissions = append(r.store.submissions, cloneSubmission(submission))
	return nil
}

// ListByUser returns submissions in insertion order, which matches id order.
func (r *SubmissionRepository) ListByUser(ctx context.Context, userID string, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var owned []*models.Submission
	for _, s := range r.store.submissions {
		if s.UserID == userID {
			owned = append(owned, cloneSubmission(s))
		}
	}
	return page(owned, filters.Offset, filters.Limit), nil
}

func (r *SubmissionRepository) GetStatsByUser(ctx context.Context, userID string) (*repositories.SubmissionStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := &repositories.SubmissionStats{}
	for _, s := range r.store.submissions {
		if s.UserID != userID {
			continue
		}
		stats.Total++
		if s.IsCorrect {
			stats.Correct++
		}
	}
	return stats, nil
}
