package memory

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
)

type QuestionRepository struct {
	store *store
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.insertLocked(question)
	return nil
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, q := range questions {
		r.insertLocked(q)
	}
	return nil
}

func (r *QuestionRepository) insertLocked(question *models.Question) {
	now := time.Now()
	question.ID = r.store.nextQuestionID
	r.store.nextQuestionID++
	if question.Difficulty == "" {
		question.Difficulty = models.DifficultyMedium
	}
	question.CreatedAt = now
	question.UpdatedAt = now
	r.store.questions[question.ID] = cloneQuestion(question)
}

func (r *QuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q, ok := r.store.questions[id]
	if !ok {
		return nil, nil
	}
	return cloneQuestion(q), nil
}

func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.questions[question.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	question.CreatedAt = existing.CreatedAt
	question.UpdatedAt = time.Now()
	r.store.questions[question.ID] = cloneQuestion(question)
	return nil
}

// Delete mirrors the ON DELETE RESTRICT constraint: a question with
// submissions is kept and ErrReferenced is returned.
func (r *QuestionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.questions[id]; !ok {
		return false, nil
	}
	for _, s := range r.store.submissions {
		if s.QuestionID == id {
			return false, repositories.ErrReferenced
		}
	}
	delete(r.store.questions, id)
	return true, nil
}

func (r *QuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := r.filterLocked(filters.Topic)
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return page(matched, filters.Offset, filters.Limit), nil
}

func (r *QuestionRepository) ListByTopic(ctx context.Context, topic string, limit int) ([]*models.Question, error) {
	return r.List(ctx, repositories.QuestionFilters{Topic: &topic, Limit: limit})
}

func (r *QuestionRepository) GetRandom(ctx context.Context, filters repositories.RandomQuestionFilters) ([]*models.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := r.filterLocked(filters.Topic)
	rand.Shuffle(len(matched), func(i, j int) { matched[i], matched[j] = matched[j], matched[i] })
	return page(matched, 0, filters.Count), nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.store.questions)), nil
}

func (r *QuestionRepository) filterLocked(topic *string) []*models.Question {
	matched := make([]*models.Question, 0, len(r.store.questions))
	for _, q := range r.store.questions {
		if topic != nil && q.Topic != *topic {
			continue
		}
		matched = append(matched, cloneQuestion(q))
	}
	return matched
}
