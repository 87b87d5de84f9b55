// Package memory provides an in-process implementation of the storage port.
// It backs DATABASE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
)

type store struct {
	mu sync.RWMutex

	questions      map[uint]*models.Question
	nextQuestionID uint

	submissions      []*models.Submission
	nextSubmissionID uint

	users map[string]*models.User
}

type snapshot struct {
	questions        map[uint]*models.Question
	nextQuestionID   uint
	submissions      []*models.Submission
	nextSubmissionID uint
	users            map[string]*models.User
}

// Repository implements repositories.Repository on top of maps guarded by a mutex.
type Repository struct {
	store *store
	txMu  *sync.Mutex

	question   *QuestionRepository
	submission *SubmissionRepository
	user       *UserRepository
}

func NewRepository() *Repository {
	s := &store{
		questions:        make(map[uint]*models.Question),
		nextQuestionID:   1,
		nextSubmissionID: 1,
		users:            make(map[string]*models.User),
	}
	return &Repository{
		store:      s,
		txMu:       &sync.Mutex{},
		question:   &QuestionRepository{store: s},
		submission: &SubmissionRepository{store: s},
		user:       &UserRepository{store: s},
	}
}

func (r *Repository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *Repository) Submission() repositories.SubmissionRepository {
	return r.submission
}

func (r *Repository) User() repositories.UserRepository {
	return r.user
}

// WithTransaction serializes transactions and restores the previous state
// when fn fails. Writes made outside a transaction while one is running are
// lost on rollback.
func (r *Repository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	saved := r.store.snapshot()
	if err := fn(r); err != nil {
		r.store.restore(saved)
		return err
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *Repository) Close() error {
	return nil
}

func (s *store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		questions:        make(map[uint]*models.Question, len(s.questions)),
		nextQuestionID:   s.nextQuestionID,
		submissions:      slices.Clone(s.submissions),
		nextSubmissionID: s.nextSubmissionID,
		users:            make(map[string]*models.User, len(s.users)),
	}
	for id, q := range s.questions {
		snap.questions[id] = q
	}
	for id, u := range s.users {
		snap.users[id] = u
	}
	return snap
}

func (s *store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = snap.questions
	s.nextQuestionID = snap.nextQuestionID
	s.submissions = snap.submissions
	s.nextSubmissionID = snap.nextSubmissionID
	s.users = snap.users
}

func cloneQuestion(q *models.Question) *models.Question {
	c := *q
	if q.Options != nil {
		c.Options = slices.Clone(q.Options)
	}
	return &c
}

func cloneSubmission(s *models.Submission) *models.Submission {
	c := *s
	if s.TimeSpent != nil {
		v := *s.TimeSpent
		c.TimeSpent = &v
	}
	c.User = nil
	c.Question = nil
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

// page applies offset/limit to an already ordered slice.
func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
