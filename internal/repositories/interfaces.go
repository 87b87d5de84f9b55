package repositories

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by write operations that target a missing row.
	ErrNotFound = errors.New("record not found")
	// ErrReferenced is returned when deleting a row that other rows still point to.
	ErrReferenced = errors.New("record is still referenced")
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Topic  *string `json:"topic"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

type RandomQuestionFilters struct {
	Topic *string `json:"topic"`
	Count int     `json:"count"`
}

type SubmissionFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type SubmissionStats struct {
	Total   int64 `json:"total"`
	Correct int64 `json:"correct"`
}

// Repository groups the per-table repositories behind one storage port.
type Repository interface {
	Question() QuestionRepository
	Submission() SubmissionRepository
	User() UserRepository

	// WithTransaction runs fn against a repository bound to a single
	// transaction. Any error returned by fn rolls the transaction back.
	WithTransaction(ctx context.Context, fn func(tx Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
