// Package seed loads the starter question bank into an empty store.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/validator"
)

// InitialQuestions returns a fresh copy of the starter question bank.
func InitialQuestions() []*models.Question {
	return []*models.Question{
		{
			Type:       models.MultipleChoice,
			Topic:      "algebra",
			Stem:       "2x + 3 = 7，x = ?",
			Options:    []string{"1", "2", "3", "4"},
			Answer:     "2",
			Difficulty: models.DifficultyEasy,
		},
		{
			Type:       models.ShortAnswer,
			Topic:      "geometry",
			Stem:       "半径为 3 的圆面积（两位小数）≈ ?",
			Answer:     "28.27",
			Difficulty: models.DifficultyMedium,
		},
		{
			Type:       models.MultipleChoice,
			Topic:      "algebra",
			Stem:       "如果 3x - 5 = 16，那么 x = ?",
			Options:    []string{"5", "6", "7", "8"},
			Answer:     "7",
			Difficulty: models.DifficultyEasy,
		},
		{
			Type:       models.MultipleChoice,
			Topic:      "geometry",
			Stem:       "一个正方形的边长是 4，它的面积是多少？",
			Options:    []string{"8", "12", "16", "20"},
			Answer:     "16",
			Difficulty: models.DifficultyEasy,
		},
		{
			Type:       models.ShortAnswer,
			Topic:      "algebra",
			Stem:       "解方程：x² - 5x + 6 = 0，较小的解是多少？",
			Answer:     "2",
			Difficulty: models.DifficultyMedium,
		},
	}
}

// Questions inserts the starter bank when the question table is empty.
// It is safe to run on every startup.
func Questions(ctx context.Context, repo repositories.Repository, v *validator.Validator, logger *slog.Logger) error {
	return load(ctx, repo, v, logger, InitialQuestions())
}

func load(ctx context.Context, repo repositories.Repository, v *validator.Validator, logger *slog.Logger, questions []*models.Question) error {
	count, err := repo.Question().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		logger.Info("Questions already exist, skipping seed", "count", count)
		return nil
	}

	if err := v.Question().ValidateBatch(questions); err != nil {
		return fmt.Errorf("invalid seed questions: %w", err)
	}

	err = repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Question().CreateBatch(ctx, questions)
	})
	if err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}

	logger.Info("Seeded initial questions", "count", len(questions))
	return nil
}
